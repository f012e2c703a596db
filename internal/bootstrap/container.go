package bootstrap

import (
	"context"
	"log"

	"ai-symptomcheck-be/internal/config"
	"ai-symptomcheck-be/internal/controller"
	"ai-symptomcheck-be/internal/pkg/logger"
	"ai-symptomcheck-be/internal/repository/implementation"
	"ai-symptomcheck-be/internal/service"
	"ai-symptomcheck-be/pkg/embedding"
	"ai-symptomcheck-be/pkg/evidence"
	"ai-symptomcheck-be/pkg/features"
	"ai-symptomcheck-be/pkg/generation"
	"ai-symptomcheck-be/pkg/llm/factory"
	natsbus "ai-symptomcheck-be/pkg/nats"
	"ai-symptomcheck-be/pkg/orchestrator"
	"ai-symptomcheck-be/pkg/retrieval"
	"ai-symptomcheck-be/pkg/session"
	"ai-symptomcheck-be/pkg/triage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	TraceConsumerService service.ITraceConsumerService

	// Infrastructure main.go shuts down
	Logger  logger.ILogger
	NatsPub *natsbus.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	// Buffered so a slow trace consumer never backpressures request handling.
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Retrieval
	chunkRepo := implementation.NewDocChunkRepository(db)
	providers := []retrieval.Provider{
		retrieval.NewVectorProvider(embeddingProvider, chunkRepo, cfg.Retrieval.VectorK),
		retrieval.NewKeywordProvider(chunkRepo, cfg.Retrieval.KeywordK),
	}
	retrievalGateway := retrieval.NewGateway(providers, cfg.Retrieval.ProviderTimeout, sysLogger)

	var reranker retrieval.Reranker
	if cfg.Retrieval.RerankerURL != "" {
		reranker = retrieval.NewHTTPReranker(cfg.Retrieval.RerankerURL)
		log.Printf("[INFO] Reranker enabled at %s", cfg.Retrieval.RerankerURL)
	}

	// 5. Evidence & Generation
	assembler := evidence.NewAssembler(evidence.Options{
		BudgetTokens:  cfg.Evidence.BudgetTokens,
		MaxPerSource:  cfg.Evidence.MaxPerSource,
		MaxCandidates: cfg.Evidence.MaxCandidates,
		CountTokens:   evidence.EstimateTokens,
	})
	generationGateway := generation.NewGateway(llmProvider, generation.Config{
		Deadline:    cfg.Generation.Deadline,
		MaxRetries:  cfg.Generation.MaxRetries,
		BackoffBase: cfg.Generation.BackoffBase,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}, sysLogger)

	// 6. Guardrails
	rules, err := triage.LoadRules(cfg.Triage.RulesPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load triage rules from %s: %v", cfg.Triage.RulesPath, err)
	}
	matcher := triage.NewMatcher(rules)
	log.Printf("[INFO] Loaded %d triage rules", len(rules))

	// 7. Session Store
	pingers := map[string]service.Pinger{
		"database": &gormPinger{db: db},
	}
	var turnStore session.TurnStore
	if cfg.Session.Store == "redis" {
		redisStore, err := session.NewRedisStore(cfg.App.RedisURL, cfg.Session.TTL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize Redis session store: %v", err)
		}
		turnStore = redisStore
		pingers["session_store"] = redisStore
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		turnStore = session.NewMemoryStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 8. NATS (optional trace fan-out)
	var natsPub *natsbus.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = natsbus.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 9. Pipeline
	pipeline := orchestrator.NewOrchestrator(
		features.NewExtractor(),
		matcher,
		retrievalGateway,
		reranker,
		assembler,
		generationGateway,
		turnStore,
		pubSub,
		sysLogger,
		orchestrator.Config{
			Filters:         retrieval.Filters{Tenant: cfg.App.Tenant, Lang: cfg.App.Lang},
			TopK:            cfg.Retrieval.KeywordK,
			RRFK:            cfg.Retrieval.RRFK,
			RerankTopN:      cfg.Retrieval.RerankTopN,
			HistoryLimit:    cfg.Session.HistoryLimit,
			RequireEvidence: cfg.Evidence.RequireEvidence,
			TraceTopic:      cfg.App.TraceTopic,
		},
	)

	// 10. Services & Controllers
	traceLogger := logger.NewIsolatedLogger("logs/trace.log")
	traceConsumer := service.NewTraceConsumerService(pubSub, cfg.App.TraceTopic, traceLogger, natsPub)

	chatService := service.NewChatService(pipeline, turnStore, pingers)
	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController:       chatController,
		TraceConsumerService: traceConsumer,
		Logger:               sysLogger,
		NatsPub:              natsPub,
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
