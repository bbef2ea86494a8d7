// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/application"
	"github.com/Agnesa14/SkillCast/internal/auth"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/firebase"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/middleware"
	"github.com/Agnesa14/SkillCast/internal/notification"
	platformES "github.com/Agnesa14/SkillCast/internal/platform/elasticsearch"
	"github.com/Agnesa14/SkillCast/internal/scheduler"
	"github.com/Agnesa14/SkillCast/internal/shared"
	"github.com/Agnesa14/SkillCast/internal/user"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	authHandler         *auth.Handler
	userHandler         *user.Handler
	jobHandler          *job.Handler
	applicationHandler  *application.Handler
	notificationHandler *notification.Handler

	postingExpiryJob *scheduler.PostingExpiryJob

	authMW gin.HandlerFunc

	// ESClient and AppLogger are exposed for startup tasks such as
	// creating the search index before serving traffic.
	ESClient  *platformES.ESClientWrapper
	AppLogger *zap.Logger
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	jobHandler *job.Handler,
	applicationHandler *application.Handler,
	notificationHandler *notification.Handler,
	postingExpiryJob *scheduler.PostingExpiryJob,
	firebaseService *firebase.Service,
	profileService shared.ProfileService,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, profileService, logger.Named("AuthMiddleware"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "SkillCast API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	// Signup, login and password reset must work without a token.
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("", authMW)
	userHandler.RegisterRoutes(protected)
	jobHandler.RegisterRoutes(protected)
	applicationHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected.Group("/notifications"))

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		logger:              logger,
		authHandler:         authHandler,
		userHandler:         userHandler,
		jobHandler:          jobHandler,
		applicationHandler:  applicationHandler,
		notificationHandler: notificationHandler,
		postingExpiryJob:    postingExpiryJob,
		authMW:              authMW,
		ESClient:            esClient,
		AppLogger:           logger,
	}, nil
}

func (s *Server) Start() error {
	if s.postingExpiryJob != nil {
		if err := s.postingExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start posting expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Posting expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.postingExpiryJob != nil {
		s.postingExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
