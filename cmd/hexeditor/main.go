// Package main is the entry point for the hexview editor.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/config"
	"github.com/Faultbox/hexview/internal/editor"
	"github.com/Faultbox/hexview/internal/logger"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== hexview editor ===")
	for _, msg := range cfg.Validate() {
		logger.Warn("config corrected", zap.String("detail", msg))
	}

	ed, err := editor.New(cfg)
	if err != nil {
		logger.Error("failed to create editor", zap.Error(err))
		os.Exit(1)
	}
	defer ed.Close()

	ed.Run()
	logger.Info("editor closed normally")
}
