package main

import (
	"context"
	"fmt"
	"os"

	"ms-eventhub/internal/config"
	"ms-eventhub/internal/database"
	"ms-eventhub/internal/database/migrations"
	"ms-eventhub/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()

	bunDB, err := database.Connect(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	opts := migrations.DefaultOptions()
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		opts.MigrationsDir = dir
	}
	runner := migrations.NewRunner(bunDB, opts)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		if err := runner.Up(); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", "Migrations applied")
	case "down":
		if err := runner.Down(); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", "Rolled back one migration")
	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", fmt.Sprintf("Schema version %d (dirty=%v)", version, dirty))
	default:
		log.Fatal("MIGRATE", fmt.Sprintf("Unknown command %q, expected up, down or version", command))
	}
}
