package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/vidshelf/config"
	HTTPAdapter "github.com/bnema/vidshelf/internal/adapter/http"
	"github.com/bnema/vidshelf/internal/adapter/objectstore/localfs"
	"github.com/bnema/vidshelf/internal/adapter/objectstore/r2"
	mongostore "github.com/bnema/vidshelf/internal/adapter/storage/mongo"
	redisstore "github.com/bnema/vidshelf/internal/adapter/storage/redis"
	sqlitestore "github.com/bnema/vidshelf/internal/adapter/storage/sqlite"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
	"github.com/bnema/vidshelf/internal/port"
	"github.com/bnema/vidshelf/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn.Printf("%v, keeping info", err)
	}

	logger.Info.Printf("starting vidshelf on port %d, videos=%s, ratings=%s", cfg.Port, cfg.VideosDir, cfg.RatingStore)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error.Printf("failed to create data directory: %v", err)
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	store, err := openRatingStore(startupCtx, cfg)
	if err != nil {
		logger.Error.Printf("failed to open %s rating store: %v", cfg.RatingStore, err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	local := localfs.NewLister(cfg.VideosDir, localfs.DefaultURLBase)
	sources := []port.VideoSource{local}

	var mediaSources []string
	if cfg.R2.Enabled() {
		remote, err := newR2Lister(startupCtx, cfg.R2)
		if err != nil {
			logger.Error.Printf("failed to configure R2: %v", err)
			os.Exit(1)
		}
		sources = append(sources, remote)
		mediaSources = append(mediaSources, cfg.R2.PublicURL)
		logger.Info.Printf("listing R2 bucket %s", cfg.R2.Bucket)
	}

	catalogSvc := service.NewCatalogService(sources...)
	ratingSvc := service.NewRatingService(store)

	server := HTTPAdapter.NewServer(catalogSvc, ratingSvc, local, HTTPAdapter.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		BehindProxy:        cfg.BehindProxy,
		CSRFSecret:         cfg.CSRFSecret,
		MediaSources:       mediaSources,
	})
	defer server.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error.Printf("failed to listen on %s: %v", addr, err)
		os.Exit(1)
	}

	logger.Info.Printf("server listening on %s", addr)
	if err := serve(httpServer, ln, sigChan, 30*time.Second); err != nil {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}

// serve runs srv on ln until a signal arrives, then drains in-flight
// requests. It returns only once the drain has finished, so callers may
// release resources the handlers depend on.
func serve(srv *http.Server, ln net.Listener, sigs <-chan os.Signal, drain time.Duration) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sig, ok := <-sigs
		if !ok {
			return
		}
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), drain)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		logger.Info.Printf("shutdown complete")
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}

func openRatingStore(ctx context.Context, cfg *config.Config) (port.RatingStore, error) {
	switch cfg.RatingStore {
	case config.RatingStoreMongo:
		return mongostore.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.RatingStoreRedis:
		return redisstore.NewStore(ctx, cfg.RedisAddr)
	default:
		return sqlitestore.NewStore(cfg.DataDir)
	}
}

func newR2Lister(ctx context.Context, c config.R2Config) (*r2.Lister, error) {
	client, err := r2.NewClient(ctx, r2.Config{
		AccountID:       c.AccountID,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		Bucket:          c.Bucket,
		PublicURL:       c.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	return r2.NewLister(client, c.Bucket, c.PublicURL), nil
}
