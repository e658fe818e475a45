package main

import (
	"fmt"
	"log"
	"os"

	"bookkeeper/internal/config"
	"bookkeeper/internal/logger"
)

func main() {
	cfg := config.Load()
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		logr := logger.WithComponent("cmd")
		logr.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
