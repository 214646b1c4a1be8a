// Package httpapi exposes the archive over HTTP. Browsing is public;
// submitting records, requesting upload URLs, and logging out require a
// session token in the Authorization header.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"thesisarchive/internal/logging"
	"thesisarchive/internal/server/config"
	"thesisarchive/internal/server/models"
	"thesisarchive/internal/server/services"
)

// Identity is the slice of IdentityService the HTTP layer needs.
type Identity interface {
	Register(ctx context.Context, email, password, displayName string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string, persistent bool) (string, error)
	CheckSession(ctx context.Context, token string) (*models.Account, error)
	Logout(ctx context.Context, token string) error
}

// Theses is the slice of ThesisService the HTTP layer needs.
type Theses interface {
	Create(ctx context.Context, token string, input *services.ThesisInput) (int64, error)
	Get(ctx context.Context, id int64) (*models.Thesis, error)
	List(ctx context.Context) ([]*models.Thesis, error)
}

// FileStore hands out presigned URLs for thesis files.
type FileStore interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

// Server wires the services into a gin router and owns the HTTP listener.
type Server struct {
	config   *config.Config
	logger   logging.Logger
	identity Identity
	theses   Theses
	files    FileStore
	db       *sql.DB
	router   *gin.Engine
	httpSrv  *http.Server
}

// NewServer builds the router and registers all routes.
func NewServer(cfg *config.Config, logger logging.Logger, identity Identity, theses Theses, files FileStore, db *sql.DB) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		config:   cfg,
		logger:   logger,
		identity: identity,
		theses:   theses,
		files:    files,
		db:       db,
		router:   r,
	}
	s.registerRoutes()
	return s
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts listening and blocks until the listener stops.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.config.EndpointAddrHTTP,
		Handler: s.router,
	}

	s.logger.Info(ctx, "http server listening", "addr", s.config.EndpointAddrHTTP)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	api.GET("/ping", s.handlePing)

	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)

	api.GET("/theses", s.handleListTheses)
	api.GET("/theses/:id", s.handleGetThesis)
	api.GET("/theses/:id/attachment", s.handleGetAttachment)

	authed := api.Group("/")
	authed.Use(s.authRequired())
	authed.POST("/theses", s.handleCreateThesis)
	authed.POST("/theses/upload-url", s.handleUploadURL)
}

func (s *Server) handlePing(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
