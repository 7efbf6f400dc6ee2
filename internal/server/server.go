package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"csemotors/web/internal/config"
	"csemotors/web/internal/handlers"
	"csemotors/web/internal/view"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
	cfg    *config.AppConfig
}

// NewRouter builds the gin engine with every route and the global middleware
// chain. Unknown paths render the 404 page.
func NewRouter(cfg *config.AppConfig, renderer *view.Renderer, handlerSet handlers.HandlerSet) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.RedirectFixedPath = true
	engine.HTMLRender = renderer
	engine.MaxMultipartMemory = cfg.HTTP.MaxUploadMB << 20

	engine.StaticFS("/css", view.Static("css"))

	engine.Use(handlerSet.Middleware()...)
	handlerSet.Routes(engine)
	engine.NoRoute(handlerSet.NotFound)

	return engine
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, renderer *view.Renderer, handlerSet handlers.HandlerSet) *HTTPServer {
	engine := NewRouter(cfg, renderer, handlerSet)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
		cfg:    cfg,
	}
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
