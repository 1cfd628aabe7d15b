// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/config"
	"parking_share_backend/internal/favorite"
	"parking_share_backend/internal/firebase"
	"parking_share_backend/internal/jobs"
	"parking_share_backend/internal/middleware"
	"parking_share_backend/internal/notification"
	"parking_share_backend/internal/parking"
	"parking_share_backend/internal/platform/database"
	"parking_share_backend/internal/review"
	"parking_share_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server holds the HTTP server and its background scheduler.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	scheduler  *jobs.Scheduler
}

// NewServer wires the router, middleware stack and module routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	firebaseService *firebase.Service,
	userService user.Service,
	userHandler *user.Handler,
	parkingHandler *parking.Handler,
	favoriteHandler *favorite.Handler,
	reviewHandler *review.Handler,
	notificationHandler *notification.Handler,
	scheduler *jobs.Scheduler,
	db *gorm.DB,
) (*Server, error) {
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	resolver := middleware.UserResolver(
		func(ctx context.Context, firebaseUID, email, displayName string) (uuid.UUID, string, error) {
			u, err := userService.GetOrProvision(ctx, firebaseUID, email, displayName)
			if err != nil {
				return uuid.Nil, "", err
			}
			return u.ID, u.Role, nil
		})
	authMW := middleware.AuthMiddleware(firebaseService, resolver, logger)
	adminMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Parking Share API is healthy!"})
	})

	// Stored images are served straight off disk.
	router.Static("/uploads/parkings", cfg.ImageStoragePath)

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, authMW)
	parkingHandler.RegisterRoutes(v1, authMW, adminMW)
	favoriteHandler.RegisterRoutes(v1, authMW)
	reviewHandler.RegisterRoutes(v1, authMW)
	notificationHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		cfg:        cfg,
		logger:     logger,
		scheduler:  scheduler,
	}, nil
}

// Start launches the background scheduler and serves HTTP until shutdown.
func (s *Server) Start() error {
	s.scheduler.Start()

	s.logger.Info("HTTP server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("ginMode", s.cfg.GinMode))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("HTTP server failed", zap.Error(err))
		return err
	}
	return nil
}

// Shutdown stops the scheduler and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	jobCtx := s.scheduler.Stop()
	select {
	case <-jobCtx.Done():
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for background jobs to finish")
	}
	return s.httpServer.Shutdown(ctx)
}
