// Task assignment API server.
//
// @title        Task Assignment API
// @version      1.0
// @description  Task assignment service: admins create and assign tasks, users track and complete them.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskhub/task-assignment-api/internal/api"
	"github.com/taskhub/task-assignment-api/internal/infrastructure/config"
	mongodb "github.com/taskhub/task-assignment-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhub/task-assignment-api/internal/infrastructure/db/redis"
	"github.com/taskhub/task-assignment-api/internal/infrastructure/storage"
	"github.com/taskhub/task-assignment-api/internal/infrastructure/storage/s3"
	"github.com/taskhub/task-assignment-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer rdb.Close()

	stager, err := storage.NewStaging(cfg.Upload.StagingDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload staging")
	}

	if cfg.S3.Bucket == "" {
		log.Warn().Msg("S3_BUCKET not set, attachment uploads will degrade to empty slots")
	}
	resolver, err := s3.New(cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("s3 uploader")
	}

	e := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Log:      log,
		Mongo:    db,
		Redis:    rdb,
		Resolver: resolver,
		Stager:   stager,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
