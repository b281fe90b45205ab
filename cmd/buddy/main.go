package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"trade-buddy/internal/cli"
	"trade-buddy/internal/config"
	"trade-buddy/internal/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
