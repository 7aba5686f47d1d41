// 提供路口信号控制策略：固定配时与模糊配时
// 两种策略共享注册、推进与传感器事件三个能力，
// 由实体接口entity.IController约束
package controller

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
)

// FixedTime 固定配时信号控制器
// 功能：按各信号灯的预设相位时长循环切换，不响应传感器事件
// 说明：注册时维护"至多一个绿灯"不变式；相位循环的对偶性
// （绿+黄时长等于对向红灯时长）由构造方保证并在之后自行维持
type FixedTime struct {
	laneIDs []int32                 // 注册顺序
	lights  map[int32]entity.ILight // 车道id->信号灯映射表
}

// NewFixedTime 创建固定配时控制器
// 功能：初始化空的信号灯映射表
// 返回：初始化完成的固定配时控制器实例
func NewFixedTime() *FixedTime {
	return &FixedTime{
		laneIDs: make([]int32, 0),
		lights:  make(map[int32]entity.ILight),
	}
}

// Register 注册车道信号灯
// 功能：将信号灯加入映射表，消解注册时的双绿灯冲突
// 参数：laneID-车道标识，lt-信号灯
// 说明：若已有绿灯且新注册信号灯也是绿灯，则将新灯强制置红
// （剩余时间重置为红灯额定时长），保证互斥不变式在构造期成立
func (c *FixedTime) Register(laneID int32, lt entity.ILight) {
	if _, ok := c.lights[laneID]; ok {
		log.Panicf("lane %d registered twice", laneID)
	}
	hasGreen := lo.SomeBy(lo.Values(c.lights), func(l entity.ILight) bool {
		return l.Current() == entity.PhaseGreen
	})
	if hasGreen && lt.Current() == entity.PhaseGreen {
		lt.Reset(entity.PhaseRed)
	}
	c.laneIDs = append(c.laneIDs, laneID)
	c.lights[laneID] = lt
}

// Tick 推进一个仿真步
// 功能：按注册顺序推进所有信号灯
func (c *FixedTime) Tick() {
	for _, id := range c.laneIDs {
		c.lights[id].Tick()
	}
}

// OnDetect 接收传感器事件
// 功能：固定配时策略不使用传感器信息，仅记录调试日志
// 参数：laneID-车道标识，position-传感器位置（0或D）
func (c *FixedTime) OnDetect(laneID int32, position int) {
	log.Debugf("car detected on lane %d, position %d", laneID, position)
}

// Light 获取指定车道的信号灯
// 功能：通过车道ID查找信号灯，不存在则panic
func (c *FixedTime) Light(laneID int32) entity.ILight {
	lt, ok := c.lights[laneID]
	if !ok {
		log.Panicf("no lane %d in lights", laneID)
	}
	return lt
}

// LaneIDs 获取按注册顺序排列的车道ID列表
func (c *FixedTime) LaneIDs() []int32 {
	return c.laneIDs
}
