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

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"rentals-api/internal/auth"
	"rentals-api/internal/cleanup"
	"rentals-api/internal/config"
	apphttp "rentals-api/internal/http"
	"rentals-api/internal/repository/sqlite"
	"rentals-api/internal/service"
	"rentals-api/internal/storage"
)

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Errorf("invalid config: %v", err)
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Errorf("open database: %v", err)
		return err
	}
	defer db.Close()

	repos := sqlite.NewRepositories(db)
	if err := repos.Init(ctx); err != nil {
		logger.Errorf("init repositories: %v", err)
		return err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	guard := auth.NewBcryptGuard(cfg.Auth.BcryptCost)

	var (
		uploader service.AvatarUploader
		cleaner  service.AvatarCleaner
		manager  cleanup.Manager
	)
	if cfg.Storage.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Errorf("setup storage: %v", err)
			return err
		}
		avatars := storage.NewAvatars(storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
		uploader = avatars

		manager = cleanup.NewManager(cleanup.Config{
			MaxConcurrent: cfg.Cleanup.MaxConcurrent,
			Timeout:       time.Duration(cfg.Cleanup.TimeoutSeconds) * time.Second,
			Logger:        logger,
		}, avatars)
		if err := manager.Start(ctx); err != nil {
			return err
		}
		cleaner = manager
	} else {
		logger.Warn("storage bucket not set, avatar uploads disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Deps{
		Users:         service.NewUserService(repos.Users, repos.Places, repos.Reservations, repos.Reviews, guard, uploader),
		Reviews:       service.NewReviewService(repos.Reviews, repos.Places, repos.Users, logger),
		Accounts:      service.NewAccountService(repos.Users, repos.Accounts, guard, cleaner, logger),
		Catalog:       service.NewCatalogService(repos.Cities, repos.Places, repos.Reservations, repos.Reviews),
		Tokens:        tokens,
		Metrics:       apphttp.NewMetrics(reg),
		Gatherer:      reg,
		Logger:        logger,
		AvatarUploads: uploader != nil,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Errorf("http server: %v", err)
			stop()
		}
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if manager != nil {
		manager.Shutdown()
	}

	logger.Info("bye")
	return nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
