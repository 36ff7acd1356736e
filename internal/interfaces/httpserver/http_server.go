package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	mediaapidocs "recipehub/media-api/docs/swagger"
	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/infrastructure/auth"
	"recipehub/media-api/internal/infrastructure/database"
	"recipehub/media-api/internal/infrastructure/storage"
	"recipehub/media-api/internal/interfaces/httpserver/handlers"
	"recipehub/media-api/internal/interfaces/httpserver/middlewares"
	v1 "recipehub/media-api/internal/interfaces/httpserver/routes/v1"
)

const readinessTimeout = 3 * time.Second

// Dependencies are the collaborators the HTTP layer serves.
type Dependencies struct {
	Service  handlers.MediaService
	Backends *storage.Backends
	DB       *gorm.DB
	Auth     *auth.Validator
}

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, deps Dependencies) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	mediaapidocs.SwaggerInfo.BasePath = "/"

	engine := gin.New()
	engine.Use(gin.Recovery(), middlewares.RequestID(), middlewares.RequestLogger(log))

	handlerProvider := handlers.NewProvider(deps.Service, log)
	routeProvider := v1.NewRoutes(handlerProvider, deps.Auth.Middleware())
	registerCoreRoutes(engine, cfg, deps)
	routeProvider.Register(engine)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Handler exposes the engine for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("media-api HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, deps Dependencies) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": cfg.ServiceName, "status": "ok"})
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		checks := gin.H{}
		ready := true
		record := func(name string, err error) {
			if err != nil {
				ready = false
				checks[name] = err.Error()
				return
			}
			checks[name] = "ok"
		}

		if deps.DB != nil {
			record("database", database.Ping(ctx, deps.DB))
		}
		if deps.Backends != nil {
			for name, err := range deps.Backends.Health(ctx) {
				record("storage_"+name, err)
			}
		}
		if !deps.Auth.Ready() {
			record("auth", errors.New("jwks not loaded"))
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "checks": checks})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Backends != nil {
		engine.Static("/v1/files", deps.Backends.Local.Root())
	}
}
