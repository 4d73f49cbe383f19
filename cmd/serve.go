package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	config "taskgroups.com/taskgroups/internal/configs"
	httpapi "taskgroups.com/taskgroups/internal/http"
	middleware "taskgroups.com/taskgroups/internal/http/middlewares"
	"taskgroups.com/taskgroups/internal/services"
	"taskgroups.com/taskgroups/internal/store"
	"taskgroups.com/taskgroups/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: "Starts the task/group REST API. On an empty store a default " +
		"account (admin/admin123) is provisioned and logged; replace it " +
		"before exposing the service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		zlog := logger.New(cfg.LogLevel)
		defer func() { _ = zlog.Sync() }()

		st, err := openStore(cfg, zlog)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		authService := services.NewAuthService(st, zlog)
		if err := authService.EnsureDefaultUser(context.Background()); err != nil {
			return err
		}
		groupService := services.NewGroupService(st)
		taskService := services.NewTaskService(st)

		limiter := middleware.RateLimiter(cfg.RateLimit, time.Minute)
		if cfg.RedisAddr != "" {
			redisClient, err := config.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				zlog.Warn("redis unavailable, using in-memory rate limiter", zap.Error(err))
			} else {
				defer redisClient.Close()
				limiter = middleware.RedisRateLimiter(redisClient, cfg.RateLimit, time.Minute, zlog)
			}
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		handler := httpapi.NewHandler(groupService, taskService)
		httpapi.Register(e, handler, httpapi.RegisterConfig{
			Auth:        middleware.BasicAuth(authService),
			RateLimiter: limiter,
			Logger:      zlog,
		})

		go func() {
			zlog.Info("HTTP server listening", zap.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zlog.Error("server stopped", zap.Error(err))
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		zlog.Info("HTTP server shut down gracefully")
		return nil
	},
}

// openStore picks the backing per config. When sqlite cannot be opened the
// JSON store takes over so the service still comes up.
func openStore(cfg config.Config, zlog *zap.Logger) (store.Store, error) {
	if cfg.StorageDriver == config.DriverJSON {
		return store.NewJSONStore(cfg.JSONDBPath)
	}

	db, err := config.NewSqliteDB(cfg.DatabaseDSN)
	if err != nil {
		zlog.Warn("sqlite unavailable, falling back to JSON store",
			zap.Error(err), zap.String("path", cfg.JSONDBPath))
		return store.NewJSONStore(cfg.JSONDBPath)
	}
	return store.NewSqliteStore(db), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
