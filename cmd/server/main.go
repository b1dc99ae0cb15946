package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpattn/restql/internal/api"
	"github.com/rpattn/restql/internal/config"
	"github.com/rpattn/restql/internal/db"
	"github.com/rpattn/restql/internal/export"
	"github.com/rpattn/restql/internal/metadata"
	"github.com/rpattn/restql/internal/middleware"
	"github.com/rpattn/restql/internal/repository"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		sugar.Fatalf("failed to load configuration: %v", err)
	}

	if err := db.RunMigrations(cfg.Database); err != nil {
		sugar.Fatalf("failed to run migrations: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		sugar.Fatalf("failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Repositories
	schemaRepo := repository.NewEntitySchemaRepository(conn.Pool)
	entityRepo := repository.NewEntityRepository(conn.Pool, repository.WithEventPublisher(func(event any) {
		logger.Debug("repository event", zap.Any("event", event))
	}))

	// Load the schema catalog into the in-memory registry. The registry is
	// read-only after this point; restart the server to pick up new schemas.
	registry := metadata.NewRegistry()
	schemas, err := schemaRepo.List(ctx)
	if err != nil {
		sugar.Fatalf("failed to load schemas: %v", err)
	}
	for _, schema := range schemas {
		if err := registry.Register(schema); err != nil {
			sugar.Fatalf("failed to register schema %s: %v", schema.Name, err)
		}
	}
	if err := registry.Validate(); err != nil {
		sugar.Fatalf("schema catalog is inconsistent: %v", err)
	}
	sugar.Infof("loaded %d entity schemas", len(schemas))

	exporter := export.NewService(entityRepo, registry, export.WithPageSize(cfg.Export.PageSize))
	handler := api.NewHandler(registry, entityRepo, exporter, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/", middleware.LoggingMiddleware(logger, corsHandler.Handler(handler)))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("starting REST server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalf("server forced to shutdown: %v", err)
	}

	sugar.Info("server exited")
}
