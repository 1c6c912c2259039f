package main

import (
	"clima/internal/config"
	"clima/internal/database"
	"clima/internal/journal"
	"clima/internal/models"
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	config.LoadDotEnv()

	redisCfg := config.GetRedisConfig()
	redisClient := journal.NewClient(redisCfg)
	defer redisClient.Close()

	db, err := database.NewDB(config.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	consumer := journal.NewConsumer(redisClient, redisCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.EnsureGroup(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("Storing questions from Redis stream %s as %s/%s. Press Ctrl+C to stop...", redisCfg.Stream, redisCfg.Group, redisCfg.Consumer)

	err = consumer.Run(ctx, func(entry models.QuestionEntry) error {
		if err := db.StoreQuestion(&entry); err != nil {
			return err
		}
		log.Printf("Stored question %d (%s, %s)", entry.ID, entry.Mode, entry.Intent)
		return nil
	})
	if err != nil {
		log.Printf("Consumer stopped with error: %v", err)
	}

	log.Println("Store service stopped")
}
