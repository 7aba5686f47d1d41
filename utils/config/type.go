package config

// LaneConfig 单条进口道的配置项
// 功能：定义车道几何、初始相位与车辆生成概率
type LaneConfig struct {
	Name             string  `yaml:"name"`                  // 车道名
	Size             int     `yaml:"size"`                  // 车道长度S（元胞数）
	SensorDistance   int     `yaml:"sensor_distance"`       // 上游传感器位置D（0 < D < S）
	SpawnProbability float64 `yaml:"spawn_probability"`     // 每步生成车辆的概率
	InitialPhase     string  `yaml:"initial_phase"`         // 初始相位（green/amber/red）
}

// LightConfig 信号灯相位时长配置项
// 功能：定义三个相位的额定时长（步）
type LightConfig struct {
	Green int `yaml:"green"` // 绿灯时长
	Amber int `yaml:"amber"` // 黄灯时长
	Red   int `yaml:"red"`   // 红灯时长
}

// ControlConfig 仿真过程控制配置项
// 功能：定义终止条件与自适应策略的延长上限
type ControlConfig struct {
	TargetCarOut int `yaml:"target_car_out"` // 任一车道驶离车辆数达到该值时仿真结束
	StepCap      int `yaml:"step_cap"`       // 仿真步数硬上限，超过视为异常
	MaxGreen     int `yaml:"max_green"`      // 模糊策略单个相位剩余时间的延长上限
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	NorthSouth LaneConfig    `yaml:"north_south"` // 南北向车道
	WestEast   LaneConfig    `yaml:"west_east"`   // 东西向车道
	Light      LightConfig   `yaml:"light"`       // 信号灯相位时长
	Control    ControlConfig `yaml:"control"`     // 仿真过程控制
}
