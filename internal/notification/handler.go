// File: internal/notification/handler.go
package notification

import (
	"parking_share_backend/internal/common"
	"parking_share_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes notification endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new notification handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("NotificationHandler")}
}

// RegisterRoutes mounts the notification routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	notifications := rg.Group("/notifications")
	notifications.Use(authMW)
	{
		notifications.GET("", h.list)
		notifications.GET("/unread-count", h.unreadCount)
		notifications.PATCH("/:id/read", h.markRead)
		notifications.PATCH("/read-all", h.markAllRead)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	query := &common.PaginationQuery{Page: page, PageSize: pageSize}

	responses, pagination, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Notifications retrieved successfully.", responses, pagination)
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Unread count retrieved successfully.", gin.H{"unread_count": count})
}

func (h *Handler) markRead(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid notification ID format."))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Notification marked as read.", nil)
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "All notifications marked as read.", nil)
}
