package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/media"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	media *media.Processor
}

func NewServiceHandler(db *gorm.DB, media *media.Processor) *ServiceHandler {
	return &ServiceHandler{db: db, media: media}
}

type ServiceRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	DurationMin    int     `json:"duration_min" binding:"required,gt=0"`
	Price          float64 `json:"price"`
	PricePerPerson bool    `json:"price_per_person"`
	Category       string  `json:"category"`
	Active         *bool   `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var services []models.Service
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Price must be zero or positive.")
		return
	}

	svc := models.Service{
		BusinessID:     businessID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		PricePerPerson: req.PricePerPerson,
		Category:       req.Category,
		Active:         true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var svc models.Service
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Price must be zero or positive.")
		return
	}

	svc.Name = strings.TrimSpace(req.Name)
	svc.Description = req.Description
	svc.DurationMin = req.DurationMin
	svc.Price = req.Price
	svc.PricePerPerson = req.PricePerPerson
	svc.Category = req.Category
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not save the service.")
		return
	}

	c.JSON(http.StatusOK, svc)
}

// Deactivate flips Active off instead of deleting: historical
// appointments keep pointing at the row for price and duration lookups.
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not save the service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadImage(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Size > maxUploadBytes {
		httperr.BadRequest(c, "invalid_upload", "Missing or oversized file.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_upload", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	key, err := h.media.StoreServiceImage(c.Request.Context(), businessID, svc.ID, f)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_image") {
			httperr.BadRequest(c, "invalid_image", "The file is not a supported image.")
			return
		}
		httperr.Internal(c, "failed_to_store_image", "Could not store the image.")
		return
	}

	svc.ImageKey = key
	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not save the service.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_key": key})
}
