// File: internal/user/handler.go
package user

import (
	"errors"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler exposes user profile endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("UserHandler")}
}

// RegisterRoutes mounts the user routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMW)
	{
		users.GET("/me", h.me)
		users.PUT("/me", h.updateMe)
	}
}

func (h *Handler) me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToUserResponse(u))
}

func (h *Handler) updateMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", ToUserResponse(u))
}
