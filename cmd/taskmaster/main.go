package main

import (
	"fmt"
	"os"

	"taskmaster/internal/config"
	"taskmaster/internal/logging"
	"taskmaster/internal/repo"
	"taskmaster/internal/storage"
	"taskmaster/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.DefaultConfigFileName)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Open(cfg.LogPath)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		fmt.Printf("failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	todos := repo.New(store, cfg.ItemsPerPage)
	if err := todos.Load(); err != nil {
		fmt.Printf("failed to load tasks: %v\n", err)
		os.Exit(1)
	}

	if err := ui.Run(todos, cfg, logger.Logger); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
