package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bedtime-server/internal/ai"
	"bedtime-server/internal/auth"
	"bedtime-server/internal/config"
	"bedtime-server/internal/database"
	"bedtime-server/internal/domain"
	"bedtime-server/internal/drafts"
	"bedtime-server/internal/events"
	"bedtime-server/internal/handler"
	"bedtime-server/internal/imagegen"
	"bedtime-server/internal/imagestore"
	"bedtime-server/internal/prompts"
	"bedtime-server/internal/render"
	"bedtime-server/internal/repository"
	"bedtime-server/internal/service"
	"bedtime-server/pkg/logger"
	"bedtime-server/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: logger.EncodingFor(cfg.Env),
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgPool, err := database.Connect(ctx, database.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
		MaxRetries:  50,
		RetryDelay:  3 * time.Second,
	}, log.Named("Postgres"))
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if err := database.ApplyMigrations(ctx, cfg.PostgresDSN()); err != nil {
		zap.L().Fatal("Failed to apply migrations", zap.Error(err))
	}
	zap.L().Info("Database schema is up to date")

	redisClient := setupRedis(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closeBroker := setupPublisher(ctx, cfg, log)
	defer closeBroker()

	imageStore, err := setupImageStore(ctx, cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to initialize image store", zap.Error(err))
	}

	// --- Generators ---
	textGen, err := ai.NewTextGenerator(ai.Config{
		ClientType: cfg.AIClientType,
		BaseURL:    cfg.AIBaseURL,
		APIKey:     cfg.AIAPIKey,
		Model:      cfg.AIModel,
		Timeout:    cfg.AITimeout,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create text generator", zap.Error(err))
	}

	imageGen, err := imagegen.New(imagegen.Config{
		Provider: cfg.ImageProvider,
		BaseURL:  cfg.ImageBaseURL,
		APIKey:   cfg.ImageAPIKey,
		Model:    cfg.ImageModel,
		Timeout:  cfg.ImageTimeout,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create image generator", zap.Error(err))
	}

	catalog, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		zap.L().Fatal("Failed to load prompt catalogue", zap.Error(err), zap.String("path", cfg.PromptsFile))
	}

	// --- Dependency Injection ---
	var draftStore drafts.Store
	if redisClient != nil {
		draftStore = drafts.NewRedisStore(redisClient, cfg.DraftsMaxPerUser, cfg.DraftTTL, log)
	} else {
		draftStore = drafts.NewMemoryStore(cfg.DraftsMaxPerUser, cfg.DraftTTL)
	}

	storyRepo := repository.NewPgStoryRepository(pgPool, log)
	renderer := render.NewPDFRenderer(render.NewRefLoader(render.RefLoaderConfig{
		Timeout:         cfg.ProxyTimeout,
		MaxBytes:        cfg.ImageMaxBytes,
		AllowedBaseURLs: cfg.ExportImageBaseURLs(),
	}), log)
	storyService := service.NewStoryService(storyRepo, publisher, renderer, log)
	generationService := service.NewGenerationService(textGen, imageGen, imageStore, catalog, storyService, draftStore,
		service.GenerationConfig{
			Temperature:      cfg.AITemperature,
			MaxTokens:        cfg.AIMaxTokens,
			TitleMaxTokens:   cfg.AITitleMaxTokens,
			GenerateImages:   cfg.GenerateImages,
			ImageConcurrency: cfg.ImageConcurrency,
			PlaceholderImage: cfg.PlaceholderImage,
		}, log)
	draftService := service.NewDraftService(draftStore, log)
	imageProxy := service.NewImageProxy(cfg.ProxyTimeout, cfg.ImageMaxBytes, log)

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, log)
	if err != nil {
		zap.L().Fatal("Failed to create session verifier", zap.Error(err))
	}
	sessions := auth.NewMiddleware(verifier, cfg.SessionCookieName, log)

	rateLimit := handler.NewRateLimiter(handler.NewRateLimitStore(redisClient, cfg.RateLimitPerMinute), log)
	zap.L().Info("Rate limiter initialized", zap.Uint("perMinute", cfg.RateLimitPerMinute), zap.Bool("redis", redisClient != nil))

	storyHandler := handler.NewStoryHandler(storyService, generationService, draftService, imageProxy, handler.Config{
		StreamInterval: cfg.StreamInterval,
		AllowedOrigins: cfg.GetAllowedOrigins(),
	}, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORS_ALLOWED_ORIGINS not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "If-None-Match"}
	corsConfig.ExposeHeaders = []string{"ETag", "Content-Disposition", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/health", handler.Health)
	router.HEAD("/health", handler.Health)

	storyHandler.RegisterRoutes(router, sessions, rateLimit)

	// Prometheus подключаем после регистрации роутов
	p.Use(router)

	// --- Start HTTP Server ---
	writeTimeout := cfg.HTTPWriteTimeout(catalog.ImageCount(domain.LengthLong))
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort), zap.Duration("writeTimeout", writeTimeout))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupRedis returns nil when Redis is not configured or unreachable;
// drafts and rate limiting then stay in process memory.
func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		zap.L().Info("REDIS_ADDR not set, using in-memory drafts and rate limiting")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zap.L().Warn("Redis ping failed, falling back to in-memory stores",
			zap.String("address", cfg.RedisAddr),
			zap.Error(err),
		)
		_ = client.Close()
		return nil
	}
	zap.L().Info("Connected to Redis", zap.String("address", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	return client
}

func setupPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) (events.Publisher, func()) {
	if cfg.RabbitMQURL == "" {
		zap.L().Info("RABBITMQ_URL not set, story events are not published")
		return events.Noop{}, func() {}
	}
	conn, err := events.Dial(ctx, cfg.RabbitMQURL, 10, 3*time.Second, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	publisher, err := events.NewRabbitMQPublisher(conn, cfg.StoryEventExchange, log)
	if err != nil {
		_ = conn.Close()
		zap.L().Fatal("Failed to create story event publisher", zap.Error(err))
	}
	zap.L().Info("Connected to RabbitMQ", zap.String("exchange", cfg.StoryEventExchange))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			zap.L().Warn("Error closing RabbitMQ channel", zap.Error(err))
		}
		_ = conn.Close()
	}
}

func setupImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (imagestore.Store, error) {
	if cfg.ImageStore != config.ImageStoreMinio {
		return imagestore.Inline{}, nil
	}
	return imagestore.NewMinio(ctx, imagestore.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	}, log)
}
