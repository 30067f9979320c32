package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/clientdesk/clientdesk-backend/config"
	"github.com/clientdesk/clientdesk-backend/internal/auth"
	"github.com/clientdesk/clientdesk-backend/internal/blob"
	"github.com/clientdesk/clientdesk-backend/internal/bootstrap"
	"github.com/clientdesk/clientdesk-backend/internal/janitor"
	"github.com/clientdesk/clientdesk-backend/internal/profile"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

const serviceName = "clientdesk-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	setupLogging(cfg)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: cfg.Database})
	if err != nil {
		log.WithError(err).Fatal("postgres")
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("redis")
	}
	defer rdb.Close()

	authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.WithError(err).Fatal("firebase")
	}

	var avatars profile.AvatarStore
	if cfg.Blob.Bucket != "" {
		store, err := blob.New(ctx, cfg.Blob)
		if err != nil {
			log.WithError(err).Fatal("blob store")
		}
		avatars = store
	} else {
		log.Warn("AVATAR_S3_BUCKET not set, avatar uploads disabled")
	}

	store := syncstore.New()

	jan := janitor.New(store, 24*time.Hour)
	if err := jan.Start("@hourly"); err != nil {
		log.WithError(err).Fatal("janitor")
	}
	defer jan.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		Auth:        authClient,
		Store:       store,
		Avatars:     avatars,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.App.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
