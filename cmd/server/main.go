package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/fudo"
	"github.com/fekuna/omnipos-catalog-sync/pkg/broker"
	"github.com/fekuna/omnipos-catalog-sync/pkg/cache"
	"github.com/fekuna/omnipos-catalog-sync/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-sync/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/fekuna/omnipos-catalog-sync/pkg/middleware"
	"github.com/fekuna/omnipos-catalog-sync/pkg/search"

	catH "github.com/fekuna/omnipos-catalog-sync/internal/catalog/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/catalog/usecase"

	delH "github.com/fekuna/omnipos-catalog-sync/internal/delivery/handler"
	delRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/delivery/repository"
	delUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/delivery/usecase"

	recH "github.com/fekuna/omnipos-catalog-sync/internal/reconcile/handler"
	recListenerPkg "github.com/fekuna/omnipos-catalog-sync/internal/reconcile/listener"
	recRepoPkg "github.com/fekuna/omnipos-catalog-sync/internal/reconcile/repository"
	recUCPkg "github.com/fekuna/omnipos-catalog-sync/internal/reconcile/usecase"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	translator, err := i18n.New()
	if err != nil {
		appLogger.Warn("Could not load locales, error messages will not be translated", zap.Error(err))
	}

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	syncLogRepo := catRepoPkg.NewSyncLogPGRepository(db)
	delRepo := delRepoPkg.NewPGRepository(db)
	orderRepo := recRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis (optional, delivery previews are recomputed without it)
	var deliveryCache delUCPkg.Cache
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, delivery previews will not be cached", zap.Error(err))
	} else {
		defer redisClient.Close()
		deliveryCache = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. Initialize Elasticsearch (optional, sync log search falls back to the DB)
	var logIndex catUCPkg.SearchIndex
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, sync logs will not be indexed", zap.Error(err))
	} else {
		logIndex = esClient
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize the point-of-sale client
	fudoClient, err := fudo.NewClient(fudo.Config{
		BaseURL:   cfg.Fudo.BaseURL,
		AuthURL:   cfg.Fudo.AuthURL,
		APIKey:    cfg.Fudo.APIKey,
		APISecret: cfg.Fudo.APISecret,
		Timeout:   time.Duration(cfg.Fudo.TimeoutSeconds) * time.Second,
		PageSize:  cfg.Fudo.PageSize,
		MaxPages:  cfg.Fudo.MaxPages,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Could not create Fudo client", zap.Error(err))
	}

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(catRepo, syncLogRepo, fudoClient, logIndex, appLogger)
	delUC := delUCPkg.NewDeliveryUseCase(delRepo, deliveryCache, time.Duration(cfg.Delivery.CacheTTLSeconds)*time.Second, appLogger)
	recUC := recUCPkg.NewReconcileUseCase(orderRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start Kafka listener
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		recListener := recListenerPkg.NewOrderEventListener(kafkaConsumer, recUC, appLogger)
		go recListener.Start(ctx)
	}

	// 10. HTTP API
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler(db))
	catH.NewCatalogHandler(catUC, translator, appLogger).Register(mux)
	delH.NewDeliveryHandler(delUC, translator, appLogger).Register(mux)
	recH.NewWebhookHandler(recUC, translator, appLogger).Register(mux)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           middleware.Logging(appLogger, auth.WithActor(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 11. gRPC health and reflection
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.LoggingInterceptor(appLogger)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", port))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown did not complete", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func healthHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			apperror.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		apperror.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
