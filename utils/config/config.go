package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Default 获取默认配置
// 功能：返回内置的标准路口参数
// 说明：南北向车道初始绿灯、生成概率0.5；东西向车道初始红灯、
// 生成概率0.2；相位时长11/4/15；驶离阈值50；步数上限400；
// 绿灯延长上限20
func Default() Config {
	return Config{
		NorthSouth: LaneConfig{
			Name:             "North to South",
			Size:             15,
			SensorDistance:   7,
			SpawnProbability: 0.5,
			InitialPhase:     "green",
		},
		WestEast: LaneConfig{
			Name:             "West to East",
			Size:             15,
			SensorDistance:   7,
			SpawnProbability: 0.2,
			InitialPhase:     "red",
		},
		Light: LightConfig{
			Green: 11,
			Amber: 4,
			Red:   15,
		},
		Control: ControlConfig{
			TargetCarOut: 50,
			StepCap:      400,
			MaxGreen:     20,
		},
	}
}

// Load 从文件加载配置
// 功能：读取YAML文件并在默认配置的基础上严格反序列化
// 参数：path-配置文件路径
// 返回：配置对象与可能的错误
// 说明：使用UnmarshalStrict，未知字段视为错误；
// 加载后执行校验
func Load(path string) (Config, error) {
	c := Default()
	file, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config file load err: %w", err)
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		return c, fmt.Errorf("config file load err: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 校验配置
// 功能：检查几何、概率、时长与控制参数的取值范围
// 返回：第一个发现的配置错误，合法时返回nil
func (c Config) Validate() error {
	for _, lc := range []LaneConfig{c.NorthSouth, c.WestEast} {
		if lc.Size <= 0 {
			return fmt.Errorf("lane %q: size must be positive, got %d", lc.Name, lc.Size)
		}
		if lc.SensorDistance <= 0 || lc.SensorDistance >= lc.Size {
			return fmt.Errorf("lane %q: sensor distance must be in (0, %d), got %d",
				lc.Name, lc.Size, lc.SensorDistance)
		}
		if lc.SpawnProbability < 0 || lc.SpawnProbability > 1 {
			return fmt.Errorf("lane %q: spawn probability must be in [0, 1], got %f",
				lc.Name, lc.SpawnProbability)
		}
		switch lc.InitialPhase {
		case "green", "amber", "red":
		default:
			return fmt.Errorf("lane %q: bad initial phase %q", lc.Name, lc.InitialPhase)
		}
	}
	if c.Light.Green <= 0 || c.Light.Amber <= 0 || c.Light.Red <= 0 {
		return fmt.Errorf("light durations must be positive, got %d/%d/%d",
			c.Light.Green, c.Light.Amber, c.Light.Red)
	}
	if c.Control.TargetCarOut <= 0 {
		return fmt.Errorf("target car out must be positive, got %d", c.Control.TargetCarOut)
	}
	if c.Control.StepCap <= 0 {
		return fmt.Errorf("step cap must be positive, got %d", c.Control.StepCap)
	}
	if c.Control.MaxGreen <= 0 {
		return fmt.Errorf("max green must be positive, got %d", c.Control.MaxGreen)
	}
	return nil
}
