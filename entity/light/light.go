package light

import (
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
)

const (
	// DefaultGreenTime 默认绿灯时长（步）
	DefaultGreenTime = 11
	// DefaultAmberTime 默认黄灯时长（步）
	DefaultAmberTime = 4
	// DefaultRedTime 默认红灯时长（步）
	DefaultRedTime = 15
)

// Timer 单个信号灯的相位计时器
// 功能：维护绿->黄->红循环中的当前相位与剩余步数
// 说明：剩余步数可被自适应策略改写为超过额定时长的值，
// 相位切换时按额定时长重新装载，膨胀值自动失效
type Timer struct {
	durations map[entity.Phase]int // 相位->额定时长
	current   entity.Phase         // 当前相位
	remaining int                  // 当前相位剩余步数
}

// New 创建相位计时器
// 功能：按给定的相位时长与初始相位初始化计时器
// 参数：green/amber/red-各相位额定时长（步），initial-初始相位
// 返回：初始化完成的计时器实例
// 说明：时长必须为正，初始相位必须有效，否则视为构造方错误直接panic
func New(green, amber, red int, initial entity.Phase) *Timer {
	if green <= 0 || amber <= 0 || red <= 0 {
		log.Panicf("light: bad durations green=%d amber=%d red=%d", green, amber, red)
	}
	if !initial.IsValid() {
		log.Panicf("light: bad initial phase %v", initial)
	}
	t := &Timer{
		durations: map[entity.Phase]int{
			entity.PhaseGreen: green,
			entity.PhaseAmber: amber,
			entity.PhaseRed:   red,
		},
		current: initial,
	}
	t.remaining = t.durations[initial]
	return t
}

// NewDefault 按默认时长（11/4/15）创建相位计时器
func NewDefault(initial entity.Phase) *Timer {
	return New(DefaultGreenTime, DefaultAmberTime, DefaultRedTime, initial)
}

// Tick 推进一个仿真步
// 功能：剩余步数减一，归零时切换到后继相位并装载其额定时长
// 说明：进入本函数时剩余步数必须为正（不变式 1 <= remaining）
func (t *Timer) Tick() {
	if t.remaining <= 0 {
		log.Panicf("light: non-positive remaining %d in phase %v", t.remaining, t.current)
	}
	t.remaining--
	if t.remaining == 0 {
		t.current = t.current.Next()
		t.remaining = t.durations[t.current]
	}
}

// Current 获取当前相位
func (t *Timer) Current() entity.Phase {
	return t.current
}

// Remaining 获取当前相位剩余步数
func (t *Timer) Remaining() int {
	return t.remaining
}

// Duration 获取指定相位的额定时长
func (t *Timer) Duration(p entity.Phase) int {
	return t.durations[p]
}

// SetRemaining 改写当前相位的剩余步数
// 功能：供自适应策略在相位运行期间膨胀时钟
// 参数：p-目标相位（必须为当前激活相位），value-新的剩余步数（必须为正）
// 说明：同一仿真步内重复调用等价于最后一次写入；
// 对非激活相位或非正值的写入属于前置条件违例，直接panic
func (t *Timer) SetRemaining(p entity.Phase, value int) {
	if p != t.current {
		log.Panicf("light: set remaining of inactive phase %v (current %v)", p, t.current)
	}
	if value <= 0 {
		log.Panicf("light: set non-positive remaining %d for phase %v", value, p)
	}
	t.remaining = value
}

// Reset 强制切换到指定相位
// 功能：将当前相位改写为p并按额定时长重置剩余步数
// 说明：用于控制器注册时消解双绿灯冲突
func (t *Timer) Reset(p entity.Phase) {
	if !p.IsValid() {
		log.Panicf("light: reset to bad phase %v", p)
	}
	t.current = p
	t.remaining = t.durations[p]
}
