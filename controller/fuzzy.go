package controller

import (
	"math"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/fuzzy"
)

// flowCount 相位流量计数
// 功能：记录某一相位下进入（上游传感器）与离开（停止线）的车辆数
type flowCount struct {
	in  int // 越过上游传感器的车辆数
	out int // 越过停止线的车辆数
}

// FuzzyTime 模糊配时信号控制器
// 功能：在固定配时的基础上，根据到达量与排队量通过模糊推理
// 延长当前绿灯相位（同时等量延长对向红灯，保持两侧时钟同步）
// 说明：到达量Arrival=绿灯相位in-out（绿灯走廊内驶向停止线的车辆），
// 排队量Queue=红灯相位in（上次轮转以来在红灯后累积的车辆）；
// 黄灯相位的in作为轮转交接时的缓冲
type FuzzyTime struct {
	*FixedTime

	maxGreen int // 单个相位剩余时间的延长上限（防饿死）

	metrics       map[entity.Phase]*flowCount // 相位->流量计数
	buffer        int                         // 绿->黄->红交接间携带的排队缓冲
	extendedToMax bool                        // 本次绿灯相位是否已延长至上限
	mapState      map[entity.Phase]int32      // 相位->车道映射表，每步末刷新
}

// NewFuzzyTime 创建模糊配时控制器
// 功能：初始化固定配时基础结构与模糊状态
// 参数：maxGreen-相位剩余时间的延长上限（步）
// 返回：初始化完成的模糊配时控制器实例
func NewFuzzyTime(maxGreen int) *FuzzyTime {
	if maxGreen <= 0 {
		log.Panicf("fuzzy: bad max green %d", maxGreen)
	}
	return &FuzzyTime{
		FixedTime: NewFixedTime(),
		maxGreen:  maxGreen,
		metrics: map[entity.Phase]*flowCount{
			entity.PhaseGreen: {},
			entity.PhaseAmber: {},
			entity.PhaseRed:   {},
		},
		mapState: make(map[entity.Phase]int32),
	}
}

// Register 注册车道信号灯
// 功能：注册到基础控制器并登记相位->车道映射
func (c *FuzzyTime) Register(laneID int32, lt entity.ILight) {
	c.FixedTime.Register(laneID, lt)
	c.mapState[lt.Current()] = laneID
}

// Arrival 获取到达量
// 功能：绿灯走廊内驶向停止线的车辆数
func (c *FuzzyTime) Arrival() int {
	return c.metrics[entity.PhaseGreen].in - c.metrics[entity.PhaseGreen].out
}

// Queue 获取排队量
// 功能：上次相位轮转以来在红灯后累积的车辆数
func (c *FuzzyTime) Queue() int {
	return c.metrics[entity.PhaseRed].in
}

// Tick 推进一个仿真步
// 功能：执行模糊配时策略的核心逻辑
// 算法说明：
// 1. 推进所有信号灯（基础Tick）
// 2. 若推进前的绿灯车道此刻仍为绿灯且尚未延长至上限，执行extend
// 3. 若推进前的绿灯车道已不再是绿灯，执行绿->黄交接：
//    记录buffer为当前到达量
// 4. 否则若推进前的红灯车道已不再是红灯，执行红->绿交接：
//    排队量转为绿灯in，绿灯out清零，红灯in由buffer与黄灯in重建，
//    清空buffer与黄灯in，复位延长上限标志
// 5. 刷新相位->车道映射表
func (c *FuzzyTime) Tick() {
	greenLane, hasGreen := c.mapState[entity.PhaseGreen]
	redLane, hasRed := c.mapState[entity.PhaseRed]

	c.FixedTime.Tick()

	if hasGreen {
		if c.Light(greenLane).Current() == entity.PhaseGreen {
			if !c.extendedToMax {
				c.extend()
			}
		} else {
			c.switchGreen()
		}
	} else if hasRed && c.Light(redLane).Current() != entity.PhaseRed {
		c.switchRed()
	}
	c.refresh()
}

// switchGreen 绿->黄交接
// 功能：绿灯转黄时，将绿灯走廊中剩余的在途车辆暂存到buffer，
// 待对向红灯转绿后并入新的排队量
func (c *FuzzyTime) switchGreen() {
	log.Debugf("green -> amber, buffer %d", c.Arrival())
	c.buffer = c.Arrival()
}

// switchRed 红->绿交接
// 功能：红灯转绿时重建流量计数
// 算法说明：
// 1. 原红灯后的排队车辆成为新绿灯走廊的在途车辆（in）
// 2. 新绿灯走廊尚无车辆驶离（out清零）
// 3. 新的排队量由交接buffer与黄灯期间的到达共同构成
// 4. 清空buffer与黄灯计数，复位本相位的延长上限标志
func (c *FuzzyTime) switchRed() {
	queue := c.Queue()
	log.Debugf("red -> green, queue %d becomes arrival", queue)
	c.metrics[entity.PhaseGreen].in = queue
	c.metrics[entity.PhaseGreen].out = 0
	c.metrics[entity.PhaseRed].in = c.buffer + c.metrics[entity.PhaseAmber].in
	c.buffer = 0
	c.metrics[entity.PhaseAmber].in = 0
	c.extendedToMax = false
}

// extend 延长绿灯相位
// 功能：按模糊推理结果延长当前绿灯与对向红灯的剩余时间
// 算法说明：
// 1. 由相位映射表取出绿灯与红灯车道（缺失属于不变式违例）
// 2. e = Extension(排队量, 到达量)四舍六入五成双取整
//    （仅Z规则激活时重心恰为0.5，必须舍向0，否则绿灯会被
//    每步+1无限维持）
// 3. 绿灯剩余时间与红灯剩余时间各加e，上限maxGreen
// 4. 绿灯达到上限时置extendedToMax，本相位内不再延长
// 说明：两侧时钟同步延长，保证下一次轮转仍然对齐；
// 上限防止红灯车道被无限推迟
func (c *FuzzyTime) extend() {
	greenLane, ok := c.mapState[entity.PhaseGreen]
	if !ok {
		log.Panicf("extend without green lane")
	}
	redLane, ok := c.mapState[entity.PhaseRed]
	if !ok {
		log.Panicf("extend without red lane")
	}
	e := int(math.RoundToEven(fuzzy.Extension(float64(c.Queue()), float64(c.Arrival()))))
	greenLight := c.Light(greenLane)
	redLight := c.Light(redLane)
	newGreen := min(c.maxGreen, greenLight.Remaining()+e)
	newRed := min(c.maxGreen, redLight.Remaining()+e)
	greenLight.SetRemaining(entity.PhaseGreen, newGreen)
	redLight.SetRemaining(entity.PhaseRed, newRed)
	if newGreen == c.maxGreen {
		c.extendedToMax = true
	}
	log.Debugf("green clock set at %d, red clock set at %d", newGreen, newRed)
}

// OnDetect 接收传感器事件
// 功能：更新流量计数
// 参数：laneID-车道标识，position-传感器位置（0或D）
// 算法说明：
// 1. 停止线事件（position=0）：所在车道必须为绿灯
//    （黄灯/红灯下越线属于前置条件违例），绿灯out加一
// 2. 上游传感器事件：按所在车道当前相位的in加一
func (c *FuzzyTime) OnDetect(laneID int32, position int) {
	c.FixedTime.OnDetect(laneID, position)
	p := c.Light(laneID).Current()
	if position == entity.StopLinePosition {
		if p != entity.PhaseGreen {
			log.Panicf("car crossing while %v light on lane %d", p, laneID)
		}
		c.metrics[entity.PhaseGreen].out++
	} else {
		c.metrics[p].in++
	}
	log.Debugf("arrival: %d queue: %d", c.Arrival(), c.Queue())
}

// refresh 刷新相位->车道映射表
// 功能：清空后按注册顺序重建相位到车道的映射
func (c *FuzzyTime) refresh() {
	clear(c.mapState)
	for _, id := range c.LaneIDs() {
		c.mapState[c.Light(id).Current()] = id
	}
}
