package lane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/lane"
)

const (
	laneSize = 15
	sensorD  = 7
	laneID   = int32(1)
)

// stubLight 相位固定的信号灯桩
type stubLight struct {
	phase entity.Phase
}

func (s *stubLight) Tick()                              {}
func (s *stubLight) Current() entity.Phase              { return s.phase }
func (s *stubLight) Remaining() int                     { return 1 }
func (s *stubLight) SetRemaining(p entity.Phase, v int) {}
func (s *stubLight) Reset(p entity.Phase)               { s.phase = p }

// recordingController 记录检测事件的控制器桩
type recordingController struct {
	events [][2]int32 // (车道id, 传感器位置)
}

func (c *recordingController) Register(laneID int32, lt entity.ILight) {}
func (c *recordingController) Tick()                                   {}
func (c *recordingController) OnDetect(laneID int32, position int) {
	c.events = append(c.events, [2]int32{laneID, int32(position)})
}

func newTestLane(phase entity.Phase) (*lane.Lane, *stubLight, *recordingController) {
	lt := &stubLight{phase: phase}
	ctrl := &recordingController{}
	return lane.New(laneID, "test lane", laneSize, sensorD, lt, ctrl), lt, ctrl
}

// assertSorted 校验车辆位置严格升序且元胞区间合法
func assertSorted(t *testing.T, l *lane.Lane) {
	t.Helper()
	prev := -1
	for _, v := range l.Vehicles() {
		assert.Greater(t, v.Position(), prev)
		assert.GreaterOrEqual(t, v.Position(), 0)
		assert.Less(t, v.Position(), laneSize)
		prev = v.Position()
	}
}

func TestLaneBadGeometry(t *testing.T) {
	lt := &stubLight{phase: entity.PhaseGreen}
	ctrl := &recordingController{}
	assert.Panics(t, func() { lane.New(laneID, "bad", 0, 7, lt, ctrl) })
	assert.Panics(t, func() { lane.New(laneID, "bad", 15, 15, lt, ctrl) })
	assert.Panics(t, func() { lane.New(laneID, "bad", 15, 0, lt, ctrl) })
}

func TestAppendEmptyLane(t *testing.T) {
	l, _, _ := newTestLane(entity.PhaseRed)
	assert.True(t, l.Append(lane.NewVehicle()))
	vs := l.Vehicles()
	require.Len(t, vs, 1)
	assert.Equal(t, sensorD+1, vs[0].Position())
}

func TestAppendBehindRear(t *testing.T) {
	l, _, _ := newTestLane(entity.PhaseRed)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Append(lane.NewVehicle()))
	}
	vs := l.Vehicles()
	require.Len(t, vs, 3)
	assert.Equal(t, []int{8, 9, 10}, []int{vs[0].Position(), vs[1].Position(), vs[2].Position()})
	assertSorted(t, l)
}

func TestAppendAtCapacity(t *testing.T) {
	l, _, _ := newTestLane(entity.PhaseRed)
	// 位置8..14共7辆后到达容量上限
	for i := 0; i < 7; i++ {
		assert.True(t, l.Append(lane.NewVehicle()))
	}
	assert.False(t, l.Append(lane.NewVehicle()))
	assert.Equal(t, 7, l.VehicleCount())
	// 容量丢弃不产生任何传感器事件
	assert.Equal(t, 0, l.CarIn())
}

func TestAppendAfterRearPassedSensor(t *testing.T) {
	l, _, _ := newTestLane(entity.PhaseGreen)
	l.Append(lane.NewVehicle())
	// 绿灯推进两步：车辆从8走到6，已越过传感器带
	l.Tick()
	l.Tick()
	require.Equal(t, 6, l.Vehicles()[0].Position())

	l.Append(lane.NewVehicle())
	vs := l.Vehicles()
	require.Len(t, vs, 2)
	assert.Equal(t, sensorD+1, vs[1].Position())
	assertSorted(t, l)
}

func TestGreenTickAdvanceAndSensors(t *testing.T) {
	l, _, ctrl := newTestLane(entity.PhaseGreen)
	l.Append(lane.NewVehicle())

	// 第一步：8 -> 7，触发上游传感器
	l.Tick()
	assert.Equal(t, 1, l.CarIn())
	assert.Equal(t, [][2]int32{{laneID, sensorD}}, ctrl.events)

	// 再推进7步：7 -> 0，越过停止线驶离
	for i := 0; i < 7; i++ {
		l.Tick()
		assertSorted(t, l)
	}
	assert.Equal(t, 1, l.CarOut())
	assert.Equal(t, 0, l.VehicleCount())
	assert.Equal(t, 0, l.TotalWait())
	assert.Equal(t, [2]int32{laneID, 0}, ctrl.events[len(ctrl.events)-1])
}

func TestGreenTickEmptyLane(t *testing.T) {
	l, _, _ := newTestLane(entity.PhaseGreen)
	l.Tick()
	assert.Equal(t, 0, l.VehicleCount())
	assert.Equal(t, 0, l.CarOut())
}

func TestRedTickQueueing(t *testing.T) {
	l, _, ctrl := newTestLane(entity.PhaseRed)
	for i := 0; i < 3; i++ {
		l.Append(lane.NewVehicle())
	}

	// 红灯下头车推进到位置1后停车，后车跟进排队
	for i := 0; i < 10; i++ {
		l.Tick()
		assertSorted(t, l)
		assert.Equal(t, 0, l.CarOut(), "no crossing under red")
	}
	vs := l.Vehicles()
	require.Len(t, vs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{vs[0].Position(), vs[1].Position(), vs[2].Position()})

	// 三辆车第7步起全部到位（1,2,3），其后各等待3步
	assert.Equal(t, 3, vs[0].Wait())
	assert.Equal(t, 3, vs[1].Wait())
	assert.Equal(t, 3, vs[2].Wait())

	// 全部越过上游传感器
	assert.Equal(t, 3, l.CarIn())
	for _, ev := range ctrl.events {
		assert.Equal(t, int32(sensorD), ev[1])
	}
}

func TestRedThenGreenDrainsInOrder(t *testing.T) {
	l, lt, _ := newTestLane(entity.PhaseRed)
	for i := 0; i < 3; i++ {
		l.Append(lane.NewVehicle())
	}
	for i := 0; i < 10; i++ {
		l.Tick()
	}
	first := l.Vehicles()[0]

	// 转绿后每步驶离一辆，顺序与排队顺序一致
	lt.phase = entity.PhaseGreen
	l.Tick()
	assert.Equal(t, 1, l.CarOut())
	assert.Equal(t, 2, l.VehicleCount())
	assert.NotContains(t, idsOf(l), first.ID())
	assertSorted(t, l)

	l.Tick()
	l.Tick()
	assert.Equal(t, 3, l.CarOut())
	assert.Equal(t, 0, l.VehicleCount())
	// 累计等待时间等于各车驶离时的等待计数之和（3+3+3）
	assert.Equal(t, 9, l.TotalWait())
}

func TestConservation(t *testing.T) {
	l, lt, _ := newTestLane(entity.PhaseRed)
	appended := 0
	for i := 0; i < 20; i++ {
		if l.Append(lane.NewVehicle()) {
			appended++
		}
		if i == 10 {
			lt.phase = entity.PhaseGreen
		}
		l.Tick()
		assert.Equal(t, appended, l.VehicleCount()+l.CarOut())
		assertSorted(t, l)
	}
}

func idsOf(l *lane.Lane) []string {
	ids := make([]string, 0, l.VehicleCount())
	for _, v := range l.Vehicles() {
		ids = append(ids, v.ID())
	}
	return ids
}
