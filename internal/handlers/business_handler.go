package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/media"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	"github.com/ateliersoft/studio-scheduler/internal/timezone"
)

// maxUploadBytes caps image uploads at 8 MiB.
const maxUploadBytes = 8 << 20

type BusinessHandler struct {
	db    *gorm.DB
	media *media.Processor
}

func NewBusinessHandler(db *gorm.DB, media *media.Processor) *BusinessHandler {
	return &BusinessHandler{db: db, media: media}
}

type UpdateBusinessRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *BusinessHandler) GetMyBusiness(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "business_not_found", "Business not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_business", "Could not load business data.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

func (h *BusinessHandler) UpdateMyBusiness(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "business_not_found", "Business not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_business", "Could not load business data.")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil && *req.Name != "" {
		biz.Name = *req.Name
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone identifier.")
			return
		}
		biz.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive minutes.")
			return
		}
		biz.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Could not save business settings.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

// UploadLogo accepts a multipart "file" field, normalizes it to webp
// and stores the object key on the business.
func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
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

	key, err := h.media.StoreLogo(c.Request.Context(), businessID, f)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_image") {
			httperr.BadRequest(c, "invalid_image", "The file is not a supported image.")
			return
		}
		httperr.Internal(c, "failed_to_store_logo", "Could not store the logo.")
		return
	}

	biz.LogoKey = key
	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Could not save business settings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_key": key})
}
