package task

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossing-sim-oss/clock"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/controller"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/lane"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/entity/light"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/randengine"
)

// Strategy 信号控制策略名
type Strategy string

const (
	// StrategyFixed 固定配时策略
	StrategyFixed Strategy = "fixed"
	// StrategyFuzzy 模糊配时策略
	StrategyFuzzy Strategy = "fuzzy"
)

// 车道ID分配
const (
	NorthSouthLaneID int32 = 1 // 南北向车道
	WestEastLaneID   int32 = 2 // 东西向车道
)

// Simulation 单次路口仿真任务
// 功能：包含一次仿真的所有组件与状态，按固定的步内顺序推进：
// 车辆生成 -> 控制器推进 -> 车道按注册顺序推进
// 说明：单线程协作式离散时间模型，步内无阻塞与并发
type Simulation struct {
	cfg      config.Config
	strategy Strategy

	clk       *clock.Clock
	ctrl      entity.IController
	lanes     *lane.Manager
	spawnP    map[int32]float64 // 车道id->每步生成概率
	generator *randengine.Engine
}

// parsePhase 将配置中的相位名转换为相位值
func parsePhase(name string) entity.Phase {
	switch name {
	case "green":
		return entity.PhaseGreen
	case "amber":
		return entity.PhaseAmber
	case "red":
		return entity.PhaseRed
	default:
		log.Panicf("bad phase name %q in config", name)
		return entity.PhaseUnspecified
	}
}

// NewSimulation 创建仿真任务
// 功能：按配置与策略组装控制器、信号灯与车道
// 参数：cfg-仿真配置，strategy-控制策略，seed-随机数种子
// 返回：初始化完成的仿真任务实例
// 算法说明：
// 1. 按策略创建固定配时或模糊配时控制器
// 2. 依次创建南北向、东西向车道：先注册信号灯（注册时消解
//    双绿灯冲突），再以信号灯与控制器句柄构造车道
// 3. 车道注册顺序即每步的推进顺序
func NewSimulation(cfg config.Config, strategy Strategy, seed uint64) *Simulation {
	var ctrl entity.IController
	switch strategy {
	case StrategyFixed:
		ctrl = controller.NewFixedTime()
	case StrategyFuzzy:
		ctrl = controller.NewFuzzyTime(cfg.Control.MaxGreen)
	default:
		log.Panicf("bad strategy %q", strategy)
	}
	s := &Simulation{
		cfg:       cfg,
		strategy:  strategy,
		clk:       clock.New(),
		ctrl:      ctrl,
		lanes:     lane.NewManager(),
		spawnP:    make(map[int32]float64),
		generator: randengine.New(seed),
	}
	s.addLane(NorthSouthLaneID, cfg.NorthSouth)
	s.addLane(WestEastLaneID, cfg.WestEast)
	log.Debugf("intersection created (%s controller)", strategy)
	return s
}

// addLane 创建并注册一条车道
// 功能：构造信号灯并注册到控制器，再构造车道并加入管理器
func (s *Simulation) addLane(id int32, lc config.LaneConfig) {
	lt := light.New(s.cfg.Light.Green, s.cfg.Light.Amber, s.cfg.Light.Red, parsePhase(lc.InitialPhase))
	s.ctrl.Register(id, lt)
	s.lanes.Add(lane.New(id, lc.Name, lc.Size, lc.SensorDistance, lt, s.ctrl))
	s.spawnP[id] = lc.SpawnProbability
}

// Strategy 获取本次仿真的控制策略
func (s *Simulation) Strategy() Strategy {
	return s.strategy
}

// Clock 获取仿真时钟
func (s *Simulation) Clock() *clock.Clock {
	return s.clk
}

// Lanes 获取车道管理器
func (s *Simulation) Lanes() *lane.Manager {
	return s.lanes
}

// Controller 获取信号控制器
func (s *Simulation) Controller() entity.IController {
	return s.ctrl
}

// Step 推进一个仿真步
// 功能：执行一个步内的全部阶段
// 算法说明：
// 1. 车辆生成：每条车道按其概率掷伯努利硬币，命中则追加新车
//    （车道满时静默丢弃，按错过的到达处理）
// 2. 控制器推进：所有信号灯前进一步，模糊策略可能改写时钟
// 3. 车道推进：按注册顺序推进，期间检测事件同步回调控制器
func (s *Simulation) Step() {
	log.Debugf("[STEP %d]", s.clk.Step)
	for _, l := range s.lanes.Data() {
		if s.generator.PTrue(s.spawnP[l.ID()]) {
			log.Debugf("new vehicle in lane %s", l.Name())
			l.Append(lane.NewVehicle())
		}
	}
	s.ctrl.Tick()
	s.lanes.Update()
	for _, l := range s.lanes.Data() {
		log.Debugf("[%s] %v", l.Name(), l)
	}
	s.clk.Tick()
}

// Done 判断仿真是否达到终止条件
// 功能：任一车道的驶离车辆数达到阈值时结束
func (s *Simulation) Done() bool {
	return s.lanes.MaxCarOut() >= s.cfg.Control.TargetCarOut
}

// Run 运行仿真直至终止
// 功能：循环推进仿真步，返回全部车道的累计等待时间
// 返回：累计等待时间与可能的错误
// 说明：步数超过硬上限视为异常流量，返回错误由调用方以
// 非零退出码终止进程
func (s *Simulation) Run() (int, error) {
	for !s.Done() {
		if s.clk.Step > s.cfg.Control.StepCap {
			return 0, fmt.Errorf("step cap %d exceeded", s.cfg.Control.StepCap)
		}
		s.Step()
	}
	return s.lanes.TotalWait(), nil
}
