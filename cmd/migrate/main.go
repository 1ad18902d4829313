package main

import (
	"log"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/model"
	"rag-chat-be/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_DSN is not set")
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	models := []interface{}{&model.ChatTurn{}}

	if cfg.Database.Driver == database.DriverPostgres || cfg.Database.Driver == "" {
		log.Println("Step 1: Setting up extensions...")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
			log.Fatalf("Error: Failed to create vector extension: %v", err)
		}
		models = append(models, &model.VectorRecord{})
	}

	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Migration completed successfully.")
}
