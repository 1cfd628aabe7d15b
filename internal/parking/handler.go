// File: internal/parking/handler.go
package parking

import (
	"errors"
	"strconv"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/geo"
	"parking_share_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes the parking listing endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new parking handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("ParkingHandler")}
}

// RegisterRoutes mounts the public, authenticated and admin parking routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	parkings := rg.Group("/parkings")
	{
		parkings.GET("", h.list)

		authed := parkings.Group("")
		authed.Use(authMW)
		{
			authed.GET("/mine", h.listMine)
			authed.POST("", h.create)
			authed.PUT("/:id", h.update)
			authed.DELETE("/:id", h.delete)
			authed.POST("/:id/verify", h.verify)
		}

		admin := parkings.Group("/admin")
		admin.Use(authMW, adminMW)
		{
			admin.GET("", h.listAdmin)
			admin.PATCH("/:id/status", h.updateStatus)
			admin.PATCH("/:id/category", h.updateCategory)
		}

		parkings.GET("/:id", h.getByID)
	}
}

func bindViewQuery(c *gin.Context) (ViewQuery, error) {
	var q ViewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, common.ErrBadRequest.WithDetails("Invalid query parameters: " + err.Error())
	}
	return q, nil
}

func (h *Handler) list(c *gin.Context) {
	q, err := bindViewQuery(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses, err := h.service.ListView(c.Request.Context(), q, false)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Parking listings retrieved successfully.", responses)
}

func (h *Handler) listAdmin(c *gin.Context) {
	q, err := bindViewQuery(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses, err := h.service.ListView(c.Request.Context(), q, true)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Parking listings retrieved successfully.", responses)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	// Identity is optional here; anonymous requests simply cannot see
	// their own pending listings.
	requesterID, _ := middleware.GetUserIDFromContext(c)
	isAdmin := middleware.IsAdminRequest(c)

	var origin *geo.Point
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			origin = &geo.Point{Lat: lat, Lng: lng}
		}
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, requesterID, isAdmin, origin)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Parking listing retrieved successfully.", resp)
}

func (h *Handler) listMine(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Your listings retrieved successfully.", responses)
}

func (h *Handler) create(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req CreateParkingRequest
	if err := c.ShouldBind(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Expected a multipart form."))
		return
	}
	images := form.File["images"]

	resp, err := h.service.Create(c.Request.Context(), userID, middleware.IsAdminRequest(c), req, images)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Parking listing submitted successfully.", resp)
}

func (h *Handler) update(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	var req UpdateParkingRequest
	if err := c.ShouldBind(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, userID, middleware.IsAdminRequest(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Parking listing updated successfully.", resp)
}

func (h *Handler) delete(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID, middleware.IsAdminRequest(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) verify(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Thanks for verifying this spot.", resp)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	var req AdminUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing status updated successfully.", resp)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid parking ID format."))
		return
	}

	var req AdminUpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.UpdateCategory(c.Request.Context(), id, req.Category)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing category updated successfully.", resp)
}
