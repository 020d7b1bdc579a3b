package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentboost-shopify-layer/internal/application"
	"contentboost-shopify-layer/internal/application/webhook_handlers"
	"contentboost-shopify-layer/internal/config"
	aiinfra "contentboost-shopify-layer/internal/infrastructure/ai"
	apiinfra "contentboost-shopify-layer/internal/infrastructure/api"
	"contentboost-shopify-layer/internal/infrastructure/encryption"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	"contentboost-shopify-layer/internal/infrastructure/pubsub"
	"contentboost-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "contentboost-shopify-layer/internal/infrastructure/shopify"
	"contentboost-shopify-layer/internal/infrastructure/tokenstore"
	"contentboost-shopify-layer/internal/ports"
	"contentboost-shopify-layer/internal/seo"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	// Token store: redis when configured, in-process otherwise
	var tokenStore ports.TokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		tokenStore = tokenstore.NewRedisStore(redisClient, cfg.TokenTTL)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis token store")
	} else {
		tokenStore = tokenstore.NewMemoryStore(cfg.TokenTTL)
		logger.Info().Msg("Using in-memory token store")
	}

	encryptionService, err := encryption.NewService(cfg.EncryptionSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Repositories
	repo := repository.NewMongoRepository(db)
	taskRepo := repository.NewMongoTaskRepository(db)
	catalogCache := repository.NewMongoCatalogCache(db)

	// Shopify client
	shopifyClient := shopifyinfra.NewClient(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, logger)

	// AI providers
	var providers []ports.AIProvider
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, aiinfra.NewOpenAIProvider(cfg.OpenAIAPIKey, ""))
	}
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, aiinfra.NewAnthropicProvider(cfg.AnthropicAPIKey, ""))
	}
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, aiinfra.NewGeminiProvider(cfg.GeminiAPIKey, ""))
	}
	providerRegistry := aiinfra.NewRegistry(providers...)
	logger.Info().Strs("providers", providerRegistry.Names()).Msg("AI providers registered")

	scorer := seo.NewScorer(logger)
	taskPubSub := pubsub.NewTaskPubSub(logger)

	// Application services
	authService := application.NewAuthService(
		tokenStore,
		repo,
		encryptionService,
		shopifyClient,
		shopifyinfra.NewTokenValidator(logger),
		m,
		logger,
		cfg.ShopifyAPIKey,
		cfg.ShopifyAPISecret,
		cfg.AppURL,
		cfg.Frontend,
		cfg.ShopifyScopes,
	)
	catalogService := application.NewCatalogService(shopifyClient, authService, catalogCache, scorer, logger)
	optimizeService := application.NewOptimizeService(providerRegistry, scorer, m, logger)
	bulkService := application.NewBulkService(taskRepo, catalogService, optimizeService, taskPubSub, m, logger)
	bulkService.Start(ctx)

	// Pick up tasks interrupted by a previous shutdown
	if shops, err := repo.ListShops(ctx); err == nil {
		domains := make([]string, 0, len(shops))
		for _, sh := range shops {
			domains = append(domains, sh.Domain)
		}
		bulkService.RequeuePending(ctx, domains)
	} else {
		logger.Warn().Err(err).Msg("Failed to list shops for task requeue")
	}

	webhookDispatcher := application.NewWebhookDispatcher(
		repo,
		logger,
		webhook_handlers.NewAppUninstalledHandler(logger, authService, catalogCache),
		webhook_handlers.NewProductHandler(logger, catalogCache),
		webhook_handlers.NewCollectionHandler(logger, catalogCache),
	)

	// HTTP surface
	router := apiinfra.NewRouter(apiinfra.Handlers{
		Auth:    apiinfra.NewAuthHandler(authService, logger),
		Catalog: apiinfra.NewCatalogHandler(catalogService, logger),
		AI:      apiinfra.NewAIHandler(optimizeService, catalogService, logger),
		Tasks:   apiinfra.NewTaskHandler(bulkService, logger),
		Webhook: apiinfra.NewWebhookHandler(shopifyinfra.NewWebhookVerifier(cfg.ShopifyAPISecret), webhookDispatcher, logger),
	}, m, registry, cfg.Frontend, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
