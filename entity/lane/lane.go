package lane

import (
	"fmt"
	"strings"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/container"
)

// Lane 单向进口道的元胞自动机模型
// 功能：维护有界元胞数组与按位置升序排列的车辆序列，
// 根据所属信号灯相位推进车辆，并在两个传感器位置产生检测事件
// 说明：位置0为停止线（下游传感器），位置sensorD为上游传感器，
// 位置size-1为车道上游边界；传感器事件同步回调控制器的OnDetect
type Lane struct {
	id   int32
	name string

	size    int // 车道长度S（元胞数）
	sensorD int // 上游传感器位置D，0 < D < S

	cells    []*Vehicle                 // 元胞数组，每个元胞至多一辆车
	vehicles container.List[*Vehicle]   // 车辆链表，车头（位置最小）在前
	light    entity.ILight              // 本车道信号灯（非拥有句柄，控制器持有所有权）
	ctrl     entity.IController         // 控制器句柄，用于传感器事件回调

	carIn     int // 越过上游传感器的车辆数
	carOut    int // 越过停止线驶离的车辆数
	totalWait int // 已驶离车辆的累计等待步数
}

// New 创建车道
// 功能：初始化元胞数组与车辆链表，绑定信号灯与控制器句柄
// 参数：id-车道标识，name-车道名，size-车道长度S，
// sensorD-上游传感器位置D，lt-本车道信号灯，ctrl-控制器句柄
// 返回：初始化完成的车道实例
// 说明：要求 0 < D < S，否则视为构造方错误直接panic
func New(id int32, name string, size, sensorD int, lt entity.ILight, ctrl entity.IController) *Lane {
	if size <= 0 || sensorD <= 0 || sensorD >= size {
		log.Panicf("lane %d: bad geometry size=%d sensor distance=%d", id, size, sensorD)
	}
	l := &Lane{
		id:      id,
		name:    name,
		size:    size,
		sensorD: sensorD,
		cells:   make([]*Vehicle, size),
		light:   lt,
		ctrl:    ctrl,
	}
	l.vehicles.ID = fmt.Sprintf("lane %d vehicles", id)
	return l
}

// ID 获取车道标识
func (l *Lane) ID() int32 {
	return l.id
}

// Name 获取车道名
func (l *Lane) Name() string {
	return l.name
}

// Light 获取本车道信号灯
func (l *Lane) Light() entity.ILight {
	return l.light
}

// CarIn 获取越过上游传感器的车辆数
func (l *Lane) CarIn() int {
	return l.carIn
}

// CarOut 获取越过停止线驶离的车辆数
func (l *Lane) CarOut() int {
	return l.carOut
}

// TotalWait 获取已驶离车辆的累计等待步数
func (l *Lane) TotalWait() int {
	return l.totalWait
}

// VehicleCount 获取当前在车道内的车辆数
func (l *Lane) VehicleCount() int {
	return l.vehicles.Len()
}

// Vehicles 获取按位置升序排列的车辆快照
func (l *Lane) Vehicles() []*Vehicle {
	vs := make([]*Vehicle, 0, l.vehicles.Len())
	for node := l.vehicles.First(); node != nil; node = node.Next() {
		vs = append(vs, node.Value)
	}
	return vs
}

// Append 向车道追加一辆新到达的车辆
// 功能：将车辆插入合适的元胞，保持车辆序列按位置严格升序
// 参数：v-新到达的车辆
// 返回：true表示成功插入，false表示车道已满、车辆被静默丢弃
// 算法说明：
// 1. 空车道：插入到上游传感器后一格（D+1）
// 2. 队尾车辆在S-1：达到容量上限，丢弃
// 3. 队尾车辆位置 >= D+1：插入到其后一格
// 4. 队尾车辆已驶过传感器带：插入到D+1
// 说明：到达由伯努利过程生成，容量丢弃按错过的到达处理，不作为错误
func (l *Lane) Append(v *Vehicle) bool {
	if last := l.vehicles.Last(); last == nil {
		v.position = l.sensorD + 1
	} else if rear := last.Value.position; rear == l.size-1 {
		log.Debugf("[%s] lane at capacity, vehicle %s dropped", l.name, v.id)
		return false
	} else if rear >= l.sensorD+1 {
		v.position = rear + 1
	} else {
		v.position = l.sensorD + 1
	}
	l.cells[v.position] = v
	l.vehicles.PushBack(&container.ListNode[*Vehicle]{S: v.position, Value: v})
	return true
}

// Tick 推进一个仿真步
// 功能：按本车道信号灯的当前相位推进所有车辆
// 算法说明：
// 绿灯：所有车辆前进一格；到达位置0的车辆驶离（car_out加一、
// 累计其等待时间）并在停止线产生检测事件；到达位置D的车辆
// 产生上游检测事件（car_in加一）
// 黄灯/红灯：从车头到车尾遍历，位置1的头车停止等待；
// 其余车辆仅当前方元胞为空时前进，否则等待。黄灯/红灯下
// 任何车辆都不会越过停止线（位置1停车规则与升序排列共同保证）
// 说明：检测事件按车头到车尾的顺序同步送达控制器
func (l *Lane) Tick() {
	switch l.light.Current() {
	case entity.PhaseGreen:
		log.Debugf("[%s] green light, everyone moves forward", l.name)
		for node := l.vehicles.First(); node != nil; {
			next := node.Next()
			l.ride(node)
			node = next
		}
	default:
		log.Debugf("[%s] amber or red light", l.name)
		for node := l.vehicles.First(); node != nil; {
			next := node.Next()
			v := node.Value
			if v.position == 1 {
				// 头车在停止线前停车
				v.wait++
			} else if l.cells[v.position-1] == nil {
				l.ride(node)
			} else {
				v.wait++
			}
			node = next
		}
	}
}

// ride 车辆前进一格
// 功能：更新元胞占用、处理驶离与传感器检测
// 参数：node-前进车辆所在的链表节点
func (l *Lane) ride(node *container.ListNode[*Vehicle]) {
	v := node.Value
	l.cells[v.position] = nil
	v.position--
	v.ride++
	node.S = v.position
	if v.position == entity.StopLinePosition {
		// 越过停止线，驶离车道
		l.carOut++
		l.totalWait += v.wait
		l.vehicles.Remove(node)
		log.Debugf("[%s] vehicle %s out after ride %d wait %d", l.name, v.id, v.ride, v.wait)
		l.ctrl.OnDetect(l.id, entity.StopLinePosition)
		return
	}
	l.cells[v.position] = v
	if v.position == l.sensorD {
		// 进入传感区
		l.carIn++
		l.ctrl.OnDetect(l.id, l.sensorD)
	}
}

// String 获取车道的字符串表示
// 功能：按元胞顺序输出车道占用情况，用于详细日志
// 返回：形如 [.|.|2:6:0|.|...] 的字符串，占用格为 位置:行驶:等待
func (l *Lane) String() string {
	cells := make([]string, l.size)
	for i, v := range l.cells {
		if v == nil {
			cells[i] = "."
		} else {
			cells[i] = fmt.Sprintf("%d:%d:%d", v.position, v.ride, v.wait)
		}
	}
	return "[" + strings.Join(cells, "|") + "]"
}
