package bootstrap

import (
	"context"
	"log"

	"devops-assistant-be/internal/config"
	"devops-assistant-be/internal/controller"
	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/repository"
	"devops-assistant-be/internal/repository/memory"
	"devops-assistant-be/internal/service"
	"devops-assistant-be/internal/websocket"
	"devops-assistant-be/pkg/agent/workflow"
	"devops-assistant-be/pkg/analytics"
	"devops-assistant-be/pkg/embedding"
	"devops-assistant-be/pkg/llm/factory"
	"devops-assistant-be/pkg/mcp"
	"devops-assistant-be/pkg/search"
	"devops-assistant-be/pkg/store"

	pktNats "devops-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	DocsController      controller.IDocsController
	AnalyticsController controller.IAnalyticsController

	// WebSocket chat entrypoint
	ChatHandler *websocket.ChatHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuthService     service.IAuthService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	agentLogger := logger.NewIsolatedLogger(cfg.App.AgentLogFilePath)

	migrate(db)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (best-effort fan-out, nil when unreachable)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs the reconnect-safe chat history; nil degrades to no-op
	rdb := newRedisClient(cfg.App.RedisURL)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		log.Printf("[INFO] No embedding provider configured, retrieval falls back to keyword search")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	sessionRepo := memory.NewSessionRepository()
	historyStore := store.NewHistoryStore(rdb)

	// 5. External search tool registry
	tools := mcp.NewRegistry()
	if cfg.Keys.SerpAPI != "" {
		tools.Register(mcp.NewSerpAPITool(cfg.Keys.SerpAPI))
		log.Printf("[INFO] External search tool registered: google (SerpAPI)")
	} else {
		log.Printf("[INFO] SERPAPI_API_KEY not set, external search disabled")
	}

	// 6. Document retrieval
	var searcher search.Searcher
	if cfg.Agent.KnowledgeBaseURL != "" {
		searcher = search.NewHTTPSearcher(cfg.Agent.KnowledgeBaseURL)
		log.Printf("[INFO] Using external knowledge base: %s", cfg.Agent.KnowledgeBaseURL)
	} else {
		searcher = search.NewGormSearcher(docRepo, embeddingProvider, agentLogger)
	}

	// 7. Agent pipeline
	runner := workflow.NewRunner(llmProvider, searcher, tools, workflow.RunnerConfig{
		GuardTerms:    cfg.Agent.GuardrailTerms,
		HistoryWindow: cfg.Agent.HistoryWindow,
		SearchTopK:    cfg.Agent.SearchTopK,
	}, agentLogger)

	// 8. Analytics (fire-and-forget end to end)
	tagger := analytics.NewTagger(llmProvider, sysLogger)
	recorder := analytics.NewGormRecorder(questionRepo, tagger, natsPub, sysLogger)
	analyticsPub := analytics.NewPublisher(pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, recorder, sysLogger)

	// 9. Services
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationHours, sysLogger)
	docsService := service.NewDocsService(docRepo, embeddingProvider, searcher, sysLogger)
	analyticsService := service.NewAnalyticsService(questionRepo)

	chatHandler := websocket.NewChatHandler(
		runner,
		sessionRepo,
		historyStore,
		analyticsPub,
		cfg.Auth.JWTSecret,
		agentLogger,
	)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		DocsController:      controller.NewDocsController(docsService),
		AnalyticsController: controller.NewAnalyticsController(analyticsService),

		ChatHandler: chatHandler,

		ConsumerService: consumerService,
		AuthService:     authService,
	}
}

func newRedisClient(redisURL string) *redis.Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, chat history will not persist: %v", err)
		return nil
	}
	return rdb
}

func migrate(db *gorm.DB) {
	// The embeddings table needs the pgvector extension in place first
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Printf("[WARN] Could not create pgvector extension: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Document{},
		&entity.DocumentEmbedding{},
		&entity.Question{},
	); err != nil {
		log.Printf("[WARN] Auto-migration failed: %v", err)
	}
}
