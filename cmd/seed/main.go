package main

import (
	"context"
	"log"

	"devops-assistant-be/internal/config"
	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/repository"
	"devops-assistant-be/internal/service"
	"devops-assistant-be/pkg/database"
	"devops-assistant-be/pkg/embedding"

	"github.com/fatih/color"
)

// Seeds the knowledge base with a starter set of runbook entries so the
// retrieval branch has something to find on a fresh install.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&entity.Document{}, &entity.DocumentEmbedding{}); err != nil {
		log.Fatal("Error: migration failed:", err)
	}

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		color.Cyan("Embedding documents with %s", cfg.Ai.EmbeddingModel)
	} else {
		color.Yellow("No embedding provider configured, documents will be keyword-searchable only")
	}

	docRepo := repository.NewDocumentRepository(db)
	docsService := service.NewDocsService(docRepo, embedder, nil, logger.NewZapLogger(cfg.App.LogFilePath, false))

	ctx := context.Background()
	seeded := 0
	for _, doc := range starterDocs {
		var existing int64
		db.Model(&entity.Document{}).Where("title = ?", doc.Title).Count(&existing)
		if existing > 0 {
			log.Printf("Document '%s' already exists, skipping...", doc.Title)
			continue
		}

		if _, err := docsService.Add(ctx, &doc); err != nil {
			color.Red("Failed to seed '%s': %v", doc.Title, err)
			continue
		}
		color.Green("Seeded: %s", doc.Title)
		seeded++
	}

	color.Cyan("Done, %d documents seeded", seeded)
}
