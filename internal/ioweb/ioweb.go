// Package ioweb serves solution lifecycle operations over REST.
package ioweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fayvad/fbs/internal/iointegration"
	"github.com/fayvad/fbs/pkg/apigen"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/fayvad/fbs/pkg/discovery"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Service is the part of iointegration.Service exposed over REST.
type Service interface {
	Phase1MetadataDiscovery(ctx context.Context) (*iointegration.Phase1Result, error)
	Phase2CompleteSetup(
		ctx context.Context, req iointegration.SetupRequest,
	) (*iointegration.SetupResult, error)
	SolutionOperations(
		ctx context.Context, solution, op string,
	) (*iointegration.OperationResult, error)
	MigrateSolutionSchema(
		ctx context.Context, solution string,
	) (*iointegration.MigrationReport, error)
	RefreshDiscovery(ctx context.Context, domain, kind string) (*discovery.Result, error)
	CachedDiscovery(
		ctx context.Context, domain, kind, name string,
	) (*discovery.Result, error)
	GenerateAPIs(
		ctx context.Context, solution, domain string, models []string,
	) (*apigen.Spec, error)
	ListSolutions(ctx context.Context) ([]iointegration.SolutionSummary, error)
	SolutionStatus(ctx context.Context, name string) (*iointegration.Status, error)
	SolutionDiscoveries(
		ctx context.Context, name string,
	) ([]iointegration.DiscoverySummary, error)
}

// NewRouter creates gin engine with all routes of the API.
func NewRouter(cfg *config.Config, svc Service) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsHandler(cfg), ErrorHandler())

	h := handler{svc: svc}
	r.GET("/health/", h.health)

	r.GET("/discoveries/:domain/:type/", h.cachedDiscovery)
	r.POST("/discoveries/:domain/:type/", h.refreshDiscovery)

	r.GET("/phase1/metadata/", h.phase1)
	r.POST("/phase2/setup/", h.setup)

	sol := r.Group("/solutions")
	{
		sol.GET("/", h.listSolutions)
		sol.POST("/setup/", h.setup)
		sol.GET("/:name/status/", h.status)
		sol.POST("/:name/migrate/", h.migrate)
		sol.GET("/:name/discoveries/", h.discoveries)
		sol.POST("/:name/operations/", h.operation)
		sol.GET("/:name/apis/", h.apis)
	}
	return r
}

// Run serves the API until the context is canceled.
func Run(ctx context.Context, cfg *config.Config, svc Service) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting REST server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServerError(srv.Addr, err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down REST server")
	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func corsHandler(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.Server.AllowOrigins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("solution_name", func(fl validator.FieldLevel) bool {
		return schema.ValidSolutionName(fl.Field().String())
	})
}
