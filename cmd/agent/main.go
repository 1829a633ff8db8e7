package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"liyu1981.xyz/vigilant/pkg/agent"
	"liyu1981.xyz/vigilant/pkg/common"
)

func main() {
	exeDir := "."
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}

	configPath := pflag.StringP("config", "c", filepath.Join(exeDir, "config.json"), "path to the agent config file")
	logDir := pflag.String("log-dir", filepath.Join(exeDir, "logs"), "directory for the rotating agent log")
	showVersion := pflag.BoolP("version", "v", false, "print the agent version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(agent.Version)
		return
	}

	common.SetLogOutput(*logDir, "vigilant.log")
	logger := common.GetLoggerWith(common.LoggerNameAgent)
	defer func() { _ = logger.Sync() }()

	logger.Info("Loading configuration", zap.String("path", *configPath))
	cfg, err := agent.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Fatal error", zap.Error(err))
		os.Exit(1)
	}

	a, err := agent.New(cfg)
	if err != nil {
		logger.Error("Fatal error", zap.Error(err))
		os.Exit(1)
	}

	if err := a.Run(context.Background()); err != nil {
		logger.Error("Fatal error", zap.Error(err))
		os.Exit(1)
	}
}
