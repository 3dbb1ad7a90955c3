package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/api/auth"
	"github.com/yatube/yatube/internal/api/handler"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/gravatar"
	"github.com/yatube/yatube/internal/media"
	"github.com/yatube/yatube/internal/static"
	"github.com/yatube/yatube/web/templates"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	db           database.DB
	avatars      *gravatar.Resolver
	media        *media.Store
	authn        *auth.Authenticator
	oidcProvider *auth.OIDCProvider
	handler      *handler.Handler
}

// New builds the web server with the embedded templates.
func New(ctx context.Context, cfg *config.Config, db database.DB, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	avatars := gravatar.New(cfg.Gravatar)
	tmpl, err := templates.Load(templates.Funcs(avatars))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return newServer(ctx, cfg, db, tmpl, debug)
}

func newServer(ctx context.Context, cfg *config.Config, db database.DB, renderer handler.Renderer, debug bool) (*Server, error) {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := media.New(cfg.Media)
	if err != nil {
		return nil, err
	}

	var oidcProvider *auth.OIDCProvider
	if cfg.Auth.OIDC != nil && cfg.Auth.OIDC.Enabled {
		oidcProvider, err = auth.NewOIDCProvider(ctx, cfg.Auth.OIDC, db)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
	}

	attempts := cache.NewLoginAttempts(cache.NewStore(cfg.Cache), cfg.Auth.MaxLoginAttempts, cfg.Auth.Lockout)
	authn := auth.NewAuthenticator(db, attempts)

	s := &Server{
		cfg:          cfg,
		ginEngine:    gin.New(),
		db:           db,
		avatars:      gravatar.New(cfg.Gravatar),
		media:        store,
		authn:        authn,
		oidcProvider: oidcProvider,
		handler:      handler.New(db, renderer, store, authn, oidcProvider, cfg),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(
		requestID(),
		requestLogger(),
		s.handler.Recovery(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})),
		auth.Sessions(s.cfg.SessionKey, s.cfg.SessionMaxAge),
		auth.LoadUser(s.db, s.avatars),
	)

	h := s.handler

	s.ginEngine.StaticFS("/static", http.FS(static.Assets()))
	s.ginEngine.Static("/media", s.media.Root())

	s.ginEngine.GET("/", h.Index)
	s.ginEngine.GET("/group/:slug/", h.GroupPosts)
	s.ginEngine.GET("/profile/:username/", h.Profile)
	s.ginEngine.GET("/posts/:id/", h.PostDetail)

	protected := s.ginEngine.Group("/")
	protected.Use(auth.RequireAuth())
	protected.GET("/create/", h.PostCreate)
	protected.POST("/create/", h.PostCreate)
	protected.GET("/posts/:id/edit/", h.PostEdit)
	protected.POST("/posts/:id/edit/", h.PostEdit)

	authGroup := s.ginEngine.Group("/auth")
	authGroup.GET("/signup/", h.Signup)
	authGroup.POST("/signup/", h.Signup)
	authGroup.GET("/login/", h.Login)
	authGroup.POST("/login/", h.Login)
	authGroup.GET("/logout/", h.Logout)
	if s.oidcProvider != nil {
		authGroup.GET("/oidc/login/", s.oidcProvider.Login)
		authGroup.GET("/oidc/callback/", s.oidcProvider.Callback)
	}

	s.ginEngine.NoRoute(h.NotFound)
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting web server", "listen", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}
