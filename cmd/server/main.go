package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/changas-app/changas-backend/internal/conf"
	"github.com/changas-app/changas-backend/internal/data"
	"github.com/changas-app/changas-backend/internal/pkg/logger"
	"github.com/changas-app/changas-backend/internal/server"
	"github.com/changas-app/changas-backend/internal/search/biz"
	searchdata "github.com/changas-app/changas-backend/internal/search/data"
	"github.com/changas-app/changas-backend/internal/search/service"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	log, err := logger.New(&logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Initialize repositories and use cases
	jobRepo := searchdata.NewJobRepo(d.DB)
	searchUseCase := biz.NewSearchUseCase(jobRepo, biz.Config{
		SearchTTL:     config.Search.SearchTTL,
		AggregateTTL:  config.Search.AggregateTTL,
		CacheCapacity: config.Search.CacheCapacity,
		DefaultLimit:  config.Search.DefaultLimit,
		MaxLimit:      config.Search.MaxLimit,
	}, nil, log)

	// Initialize services
	searchService := service.NewSearchService(searchUseCase, log)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(config, log, searchService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
