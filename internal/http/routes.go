package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "taskgroups.com/taskgroups/internal/errors"
	middleware "taskgroups.com/taskgroups/internal/http/middlewares"
)

// RegisterConfig carries the middleware the route table depends on, so the
// serve command and tests can wire their own auth and rate limiting.
type RegisterConfig struct {
	Auth        echo.MiddlewareFunc
	RateLimiter echo.MiddlewareFunc
	Logger      *zap.Logger
}

func Register(e *echo.Echo, h *Handler, cfg RegisterConfig) {
	e.HTTPErrorHandler = errorHandler(cfg.Logger)
	e.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.RateLimiter != nil {
		e.Use(cfg.RateLimiter)
	}

	e.GET("/health", h.Health)

	api := e.Group("/api", cfg.Auth)

	api.GET("/groups", h.ListGroups)
	api.GET("/groups/:id", h.GetGroup)
	api.POST("/groups", h.CreateGroup)
	api.PUT("/groups/:id", h.UpdateGroup)
	api.DELETE("/groups/:id", h.DeleteGroup)

	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.POST("/tasks", h.CreateTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.PATCH("/tasks/:id/complete", h.CompleteTask)
}

// errorHandler renders every failure as {"error": message}. Classified
// Exceptions keep their message and status; everything else becomes a
// generic 500 with the cause logged server-side only.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var appErr *apperrors.Exception
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode
			message = appErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, echo.Map{"error": message})
		}
		if writeErr != nil {
			logger.Error("error response write failed", zap.Error(writeErr))
		}
	}
}
