package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/yukikurage/tree-api/internal/constants"
	apierrors "github.com/yukikurage/tree-api/internal/errors"
	"github.com/yukikurage/tree-api/internal/health"
	"github.com/yukikurage/tree-api/internal/middleware"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/services"
)

// RouterDeps holds everything the HTTP surface is built from
type RouterDeps struct {
	Log      *slog.Logger
	Reporter *apierrors.Reporter
	// Limiter is shared by every request; nil disables rate limiting
	Limiter *rate.Limiter

	Banks  EntityService[models.Bank]
	Timers EntityService[models.Timer]
	Trees  EntityService[models.Tree]
	Users  *services.UserService
	Health *health.Checker
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if err := RegisterValidations(); err != nil {
		return nil, err
	}

	reporter := deps.Reporter
	if reporter == nil {
		reporter = apierrors.NewReporter(deps.Log)
	}

	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			reporter.Internal(c, fmt.Errorf("panic: %v", recovered))
		}),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
	)

	// Health and metrics endpoints
	if deps.Health != nil {
		r.GET("/health", NewHealthHandler(deps.Health).Health)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RateLimit(deps.Limiter))
	{
		patchGuard := middleware.RequireContentType(constants.ContentTypeMergePatch, constants.ContentTypeJSON)

		NewBankHandler(deps.Banks, reporter).RegisterRoutes(api.Group("/banks"), patchGuard)
		NewTimerHandler(deps.Timers, reporter).RegisterRoutes(api.Group("/timers"), patchGuard)
		NewTreeHandler(deps.Trees, reporter).RegisterRoutes(api.Group("/trees"), patchGuard)

		if deps.Users != nil {
			userHandler := NewUserHandler(deps.Users, reporter)
			users := api.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
			}
		}
	}

	return r, nil
}
