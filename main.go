package main

import (
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/task"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
)

var (
	// 成对仿真次数：交替模式下每对包含一次固定配时与一次模糊配时
	simulations = flag.Int("n", 1, "number of paired simulation runs")
	// 限定单一策略，缺省时交替运行两种策略
	strategy = flag.String("s", "", "launch the simulation with only one controller: fixed or fuzzy")
	// 详细的逐步日志
	verbose = flag.Bool("l", false, "enable verbose per-tick logging")
	// 配置文件路径，缺省使用内置参数
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")

	log = logrus.WithField("module", "crossing")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	var only task.Strategy
	switch *strategy {
	case "":
	case "fixed":
		only = task.StrategyFixed
	case "fuzzy":
		only = task.StrategyFuzzy
	default:
		flag.Usage()
		os.Exit(2)
	}
	if *simulations <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if err := task.RunBatch(cfg, *simulations, only); err != nil {
		log.Fatalf("simulation aborted: %v", err)
	}
}
