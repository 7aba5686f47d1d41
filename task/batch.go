package task

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
)

// RunBatch 批量运行仿真并汇总结果
// 功能：运行指定数量的仿真，输出进度与各策略的平均等待时间
// 参数：cfg-仿真配置，simulations-成对仿真次数，
// only-限定策略（空串表示交替运行两种策略）
// 返回：首个失败仿真的错误，全部成功时返回nil
// 算法说明：
// 1. 交替模式共运行 simulations*2 次，偶数序号固定配时、
//    奇数序号模糊配时；限定模式运行 simulations 次
// 2. 每次仿真以其序号作为随机数种子
// 3. 汇总各策略的总等待时间并输出均值
func RunBatch(cfg config.Config, simulations int, only Strategy) error {
	if simulations <= 0 {
		return fmt.Errorf("number of simulations must be positive, got %d", simulations)
	}
	mono := only != ""
	total := simulations * 2
	if mono {
		total = simulations
	}

	waits := make(map[Strategy][]float64)
	for i := 0; i < total; i++ {
		strategy := only
		if !mono {
			strategy = StrategyFixed
			if i%2 == 1 {
				strategy = StrategyFuzzy
			}
		}
		sim := NewSimulation(cfg, strategy, uint64(i))
		wait, err := sim.Run()
		if err != nil {
			return fmt.Errorf("simulation %d (%s): %w", i, strategy, err)
		}
		waits[strategy] = append(waits[strategy], float64(wait))
		pct, _ := stats.Round(float64(i)/float64(total)*100, 2)
		fmt.Printf(" %v %% of the way there\n", pct)
	}
	fmt.Println(" 100 % of the way there")

	if mono {
		return report(waits[only], simulations, string(only))
	}
	if err := report(waits[StrategyFixed], simulations, string(StrategyFixed)); err != nil {
		return err
	}
	return report(waits[StrategyFuzzy], simulations, string(StrategyFuzzy))
}

// report 输出一种策略的平均等待时间
func report(waits []float64, simulations int, name string) error {
	mean, err := stats.Mean(waits)
	if err != nil {
		return fmt.Errorf("aggregate %s waits: %w", name, err)
	}
	fmt.Printf("total average wait time for %d simulations of %s controller was %v\n",
		simulations, name, mean)
	return nil
}
