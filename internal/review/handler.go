// File: internal/review/handler.go
package review

import (
	"errors"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes review endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new review handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("ReviewHandler")}
}

// RegisterRoutes mounts the review routes. Reading reviews is public;
// writing requires authentication.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/parkings/:id/reviews", h.listForParking)

	authed := rg.Group("")
	authed.Use(authMW)
	{
		authed.POST("/parkings/:id/reviews", h.submit)
		authed.DELETE("/reviews/:id", h.delete)
	}
}

func (h *Handler) listForParking(c *gin.Context) {
	parkingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	responses, err := h.service.ListForParking(c.Request.Context(), parkingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Reviews retrieved successfully.", responses)
}

func (h *Handler) submit(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	parkingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, parkingID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Review saved successfully.", resp)
}

func (h *Handler) delete(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid review ID format."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, reviewID, middleware.IsAdminRequest(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
