package lane

import (
	"github.com/google/uuid"
)

// Vehicle 车道中的车辆
// 功能：记录车辆的元胞位置以及行驶/等待的步数统计
// 说明：车辆在进入车道时创建，越过停止线（位置0）时销毁
type Vehicle struct {
	id       string // 车辆唯一标识
	position int    // 当前元胞位置，0为停止线
	ride     int    // 已行驶的元胞数
	wait     int    // 停止等待的步数
}

// NewVehicle 创建车辆
// 功能：生成带唯一标识的新车辆，位置由车道Append时指定
func NewVehicle() *Vehicle {
	return &Vehicle{
		id: uuid.New().String(),
	}
}

// ID 获取车辆唯一标识
func (v *Vehicle) ID() string {
	return v.id
}

// Position 获取车辆当前元胞位置
func (v *Vehicle) Position() int {
	return v.position
}

// Ride 获取车辆已行驶的元胞数
func (v *Vehicle) Ride() int {
	return v.ride
}

// Wait 获取车辆累计等待步数
func (v *Vehicle) Wait() int {
	return v.wait
}
