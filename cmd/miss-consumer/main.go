package main // Entry point for the lookup-miss log writer

import (
	"github.com/iliyamo/lagos-signal-directory/internal/config"
	"github.com/iliyamo/lagos-signal-directory/internal/logger"
	"github.com/iliyamo/lagos-signal-directory/internal/queue"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadEventsConfig()
	logger.L().Infof("miss-consumer: queue=%s log=%s", cfg.Queue, cfg.LogDir)
	if err := queue.StartMissConsumer(cfg); err != nil {
		logger.L().Fatal(err)
	}
}
