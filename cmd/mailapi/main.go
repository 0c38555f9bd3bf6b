package main

import (
	"log"

	"inbox-dashboard/internal/cli"
	"inbox-dashboard/internal/config"
	"inbox-dashboard/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	appLogger := logger.NewForEnv(cfg.Env, cfg.LogLevel, "mailapi")

	cli.Execute(cfg, appLogger)
}
