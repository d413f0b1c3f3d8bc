package main

import (
	"context"
	"log"

	"devops-assistant-be/internal/bootstrap"
	"devops-assistant-be/internal/config"
	"devops-assistant-be/internal/server"
	"devops-assistant-be/internal/tracer"
	"devops-assistant-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Seed default accounts on an empty database
	if err := container.AuthService.SeedDefaults(context.Background()); err != nil {
		log.Printf("Warning: seeding default accounts failed: %v", err)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Analytics Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	color.Cyan("🚀 DevOps Assistant Backend")
	color.Green("   LLM: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	color.Green("   Chat socket: ws://localhost:%s/ws/chat", cfg.App.Port)

	// 7. Run Server
	log.Fatal(srv.Run())
}
