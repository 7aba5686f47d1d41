package clock

import (
	"fmt"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的离散时间推进，一个步对应一秒
// 说明：维护当前仿真步数，提供时间格式化输出
type Clock struct {
	Step int // 当前仿真步
}

// New 创建新的时钟实例
// 功能：初始化步数为0的时钟
// 返回：初始化完成的时钟实例
func New() *Clock {
	return &Clock{}
}

// Tick 推进一个仿真步
func (c *Clock) Tick() {
	c.Step++
}

// Reset 重置时钟状态
// 功能：将步数归零，用于连续多次仿真复用同一时钟
func (c *Clock) Reset() {
	c.Step = 0
}

// String 获取时钟的字符串表示
// 功能：将当前步数按一步一秒格式化为可读的时间字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.Step
	h := t / 3600
	t -= h * 3600
	m := t / 60
	t -= m * 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}
