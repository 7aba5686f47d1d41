package light_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/light"
)

func TestTimerInit(t *testing.T) {
	timer := light.NewDefault(entity.PhaseGreen)
	assert.Equal(t, entity.PhaseGreen, timer.Current())
	assert.Equal(t, light.DefaultGreenTime, timer.Remaining())

	timer = light.NewDefault(entity.PhaseRed)
	assert.Equal(t, entity.PhaseRed, timer.Current())
	assert.Equal(t, light.DefaultRedTime, timer.Remaining())
}

func TestTimerCycle(t *testing.T) {
	timer := light.New(11, 4, 15, entity.PhaseGreen)

	// green: 11 steps
	for i := 0; i < 10; i++ {
		timer.Tick()
		assert.Equal(t, entity.PhaseGreen, timer.Current())
		assert.Equal(t, 10-i, timer.Remaining())
	}
	timer.Tick()
	assert.Equal(t, entity.PhaseAmber, timer.Current())
	assert.Equal(t, 4, timer.Remaining())

	// amber: 4 steps
	for i := 0; i < 4; i++ {
		timer.Tick()
	}
	assert.Equal(t, entity.PhaseRed, timer.Current())
	assert.Equal(t, 15, timer.Remaining())

	// red: 15 steps, back to green
	for i := 0; i < 15; i++ {
		timer.Tick()
	}
	assert.Equal(t, entity.PhaseGreen, timer.Current())
	assert.Equal(t, 11, timer.Remaining())
}

func TestTimerSetRemaining(t *testing.T) {
	timer := light.New(11, 4, 15, entity.PhaseGreen)
	timer.Tick()
	assert.Equal(t, 10, timer.Remaining())

	// 膨胀超过额定时长
	timer.SetRemaining(entity.PhaseGreen, 20)
	assert.Equal(t, 20, timer.Remaining())

	// 膨胀值逐步耗尽后，下一相位按额定时长装载
	for i := 0; i < 20; i++ {
		timer.Tick()
	}
	assert.Equal(t, entity.PhaseAmber, timer.Current())
	assert.Equal(t, 4, timer.Remaining())

	// 再回到绿灯时恢复额定时长
	for i := 0; i < 4+15; i++ {
		timer.Tick()
	}
	assert.Equal(t, entity.PhaseGreen, timer.Current())
	assert.Equal(t, 11, timer.Remaining())
}

func TestTimerSetRemainingPreconditions(t *testing.T) {
	timer := light.New(11, 4, 15, entity.PhaseGreen)
	assert.Panics(t, func() { timer.SetRemaining(entity.PhaseRed, 5) })
	assert.Panics(t, func() { timer.SetRemaining(entity.PhaseGreen, 0) })
	assert.Panics(t, func() { timer.SetRemaining(entity.PhaseGreen, -3) })
}

func TestTimerReset(t *testing.T) {
	timer := light.New(11, 4, 15, entity.PhaseGreen)
	timer.Reset(entity.PhaseRed)
	assert.Equal(t, entity.PhaseRed, timer.Current())
	assert.Equal(t, 15, timer.Remaining())
}

func TestTimerBadConstruction(t *testing.T) {
	assert.Panics(t, func() { light.New(0, 4, 15, entity.PhaseGreen) })
	assert.Panics(t, func() { light.New(11, 4, 15, entity.PhaseUnspecified) })
}

func TestPhaseCycle(t *testing.T) {
	assert.Equal(t, entity.PhaseAmber, entity.PhaseGreen.Next())
	assert.Equal(t, entity.PhaseRed, entity.PhaseAmber.Next())
	assert.Equal(t, entity.PhaseGreen, entity.PhaseRed.Next())
}
