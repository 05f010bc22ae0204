package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
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

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Chạy API server (giống examixd)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			sugar := logger.Sugar()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			conn, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
			cancel()
			if err != nil {
				return err
			}
			defer conn.Close()

			blobs, err := storage.NewFSStore(cfg.BlobBasePath)
			if err != nil {
				return err
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
			sugar.Infow("examix serving", "addr", cfg.HTTPAddr)
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "địa chỉ lắng nghe, mặc định theo HTTP_ADDR")
	return cmd
}
