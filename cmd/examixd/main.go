package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	api "github.com/examix/examix/internal/api/http"
	"github.com/examix/examix/internal/auth"
	"github.com/examix/examix/internal/batch"
	"github.com/examix/examix/internal/config"
	"github.com/examix/examix/internal/db"
	"github.com/examix/examix/internal/prefs"
	"github.com/examix/examix/internal/review"
	"github.com/examix/examix/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	conn, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		sugar.Fatalw("open database", "driver", cfg.DBDriver, "err", err)
	}
	defer conn.Close()

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		sugar.Fatalw("blob store", "path", cfg.BlobBasePath, "err", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	deps := api.Deps{
		Prefs:        prefs.NewStore(conn),
		Blobs:        blobs,
		Batches:      batch.NewStore(),
		Reviewer:     review.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel),
		Log:          sugar,
		BundlePrefix: cfg.BundlePrefix,
		Parallelism:  cfg.Parallelism,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(cfg, authSvc, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sugar.Infow("examixd listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil {
		sugar.Fatalw("server", "err", err)
	}
}
