package main

import (
	"clima/internal/app"
	"clima/internal/config"
	"clima/internal/scheduler"
	"clima/internal/server"
	"context"
	"flag"
	"log"
	"time"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the config file")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(context.Background(), cfg, "")
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if a.Cache != nil {
		refresher := scheduler.New(a.Cache, time.Duration(cfg.Data.RefreshMinutes)*time.Minute)
		if err := refresher.Start(); err != nil {
			log.Fatalf("Failed to start cache refresh: %v", err)
		}
		defer refresher.Stop()
	}

	var history server.History
	if a.DB != nil {
		history = a.DB
	}

	httpServer := server.NewServer(a.Service, history)

	log.Printf("Starting server on %s", cfg.Server.Addr)
	if err := httpServer.Start(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
