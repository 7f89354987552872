package main

import (
	"context"
	"log"

	_ "github.com/lib/pq"

	"github.com/gurkanbulca/taskplanner/internal/config"
	"github.com/gurkanbulca/taskplanner/internal/database"
	"github.com/gurkanbulca/taskplanner/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewDB(ctx, database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Creating task snapshot table...")
	if err := repository.NewSQLTaskRepository(db).EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
