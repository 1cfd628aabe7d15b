// File: internal/favorite/handler.go
package favorite

import (
	"parking_share_backend/internal/common"
	"parking_share_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes favorite endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new favorite handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("FavoriteHandler")}
}

// RegisterRoutes mounts the favorite routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	favorites := rg.Group("/favorites")
	favorites.Use(authMW)
	{
		favorites.POST("/:parkingId/toggle", h.toggle)
		favorites.GET("/ids", h.listIDs)
		favorites.GET("", h.listParkings)
	}
}

func (h *Handler) toggle(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	parkingID, err := uuid.Parse(c.Param("parkingId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	resp, err := h.service.Toggle(c.Request.Context(), userID, parkingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	message := "Added to favorites."
	if !resp.Favorited {
		message = "Removed from favorites."
	}
	common.RespondOK(c, message, resp)
}

func (h *Handler) listIDs(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	ids, err := h.service.ListIDs(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite IDs retrieved successfully.", gin.H{"parking_ids": ids})
}

func (h *Handler) listParkings(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses, err := h.service.ListParkings(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorites retrieved successfully.", responses)
}
