package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/config"
	"github.com/videotube/videotube-api/internal/db"
	"github.com/videotube/videotube-api/internal/db/repository"
	"github.com/videotube/videotube-api/internal/handler"
	"github.com/videotube/videotube-api/internal/metrics"
	"github.com/videotube/videotube-api/internal/middleware"
	"github.com/videotube/videotube-api/internal/pagination"
	"github.com/videotube/videotube-api/internal/service"
	"github.com/videotube/videotube-api/internal/validation"
	"github.com/videotube/videotube-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		logger.Log.Warn("auth.jwtsecret is empty, every authenticated route will reject requests")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int32("max_conns", pool.Config().MaxConns),
	)

	edges := repository.NewEdgeRepository(pool)
	users := repository.NewUserRepository(pool)
	videos := repository.NewVideoRepository(pool)
	comments := repository.NewCommentRepository(pool)
	tweets := repository.NewTweetRepository(pool)
	playlists := repository.NewPlaylistRepository(pool)
	history := repository.NewHistoryRepository(pool)
	tx := db.NewTxManager(pool)

	validator := validation.New(0)
	policy := pagination.Policy{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	// publisher stays a nil interface when events are disabled.
	var (
		publisher service.EventPublisher
		broker    handler.BrokerHealth
	)
	if cfg.RabbitMQ.Enabled {
		activity, err := service.NewActivityPublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Fatal("Failed to initialize RabbitMQ publisher", zap.Error(err))
		}
		defer func() {
			if err := activity.Close(); err != nil {
				logger.Log.Error("Failed to close RabbitMQ publisher", zap.Error(err))
			}
		}()
		publisher, broker = activity, activity
	} else {
		logger.Log.Info("Activity events disabled")
	}

	toggles := service.NewToggleService(edges, videos, comments, tx, publisher, validator, service.ToggleOptions{
		ExclusiveReactions: cfg.Relationships.ExclusiveReactions,
	})
	views := service.NewViewService(edges, users, videos, comments, history, validator, policy)
	videoService := service.NewVideoService(videos, comments, edges, history, tx, validator)
	commentService := service.NewCommentService(comments, videos, users, edges, tx, validator)
	tweetService := service.NewTweetService(tweets, edges, tx, validator)
	playlistService := service.NewPlaylistService(playlists, videos, validator)
	userService := service.NewUserService(users, history, validator)

	gin.SetMode(cfg.Server.Mode)

	handlers := handler.Handlers{
		Health:        handler.NewHealthHandler(pool, broker),
		Toggles:       handler.NewToggleHandler(toggles, views),
		Videos:        handler.NewVideoHandler(views, videoService),
		Comments:      handler.NewCommentHandler(views, commentService),
		Channels:      handler.NewChannelHandler(views),
		Users:         handler.NewUserHandler(userService, views),
		Tweets:        handler.NewTweetHandler(tweetService),
		Playlists:     handler.NewPlaylistHandler(playlistService),
		Authenticator: middleware.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer),

		RequestTimeout: cfg.Database.QueryTimeout,
	}
	if cfg.Metrics.Enabled {
		handlers.Metrics = metrics.Handler()
		handlers.MetricsPath = cfg.Metrics.Path
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("mode", cfg.Server.Mode),
			zap.Bool("exclusive_reactions", cfg.Relationships.ExclusiveReactions),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := srv.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			return
		}

		logger.Log.Info("Server stopped gracefully")
	}
}
