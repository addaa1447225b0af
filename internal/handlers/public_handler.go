package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/cache"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	createUC       *usecase.CreateAppointment
	availabilityUC *usecase.GetAvailability
	cache          *cache.ScheduleCache
}

func NewPublicHandler(
	db *gorm.DB,
	createUC *usecase.CreateAppointment,
	availabilityUC *usecase.GetAvailability,
	scheduleCache *cache.ScheduleCache,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		createUC:       createUC,
		availabilityUC: availabilityUC,
		cache:          scheduleCache,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var biz models.Business
	if err := h.db.Where("slug = ?", slug).First(&biz).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("business_id = ? AND active = true", biz.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": biz,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and service are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	biz, owner, ok := h.lookupBusiness(c, slug)
	if !ok {
		return
	}

	slots, err := h.availabilityUC.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			BusinessID: biz.ID,
			UserID:     owner.ID,
			ServiceID:  uint(serviceID),
			Date:       dateStr,
		},
	)
	if err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.BadRequest(c, "service_not_found", "Invalid service.")
			return
		}
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		httperr.Internal(c, "availability_failed", "Could not compute time slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	slug := c.Param("slug")

	biz, owner, ok := h.lookupBusiness(c, slug)
	if !ok {
		return
	}

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		BusinessID: biz.ID,
		UserID:     owner.ID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
		Participants: []usecase.ParticipantInput{
			{
				Name:  req.ClientName,
				Phone: req.ClientPhone,
				Email: req.ClientEmail,
			},
		},
		Notes:  req.Notes,
		Public: true,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), biz.ID)
	c.JSON(http.StatusCreated, ap)
}

func (h *PublicHandler) lookupBusiness(
	c *gin.Context,
	slug string,
) (*models.Business, *models.User, bool) {

	var biz models.Business
	if err := h.db.Where("slug = ?", slug).First(&biz).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return nil, nil, false
	}

	var owner models.User
	if err := h.db.
		Where("business_id = ? AND role = ?", biz.ID, "owner").
		First(&owner).Error; err != nil {
		httperr.BadRequest(c, "owner_not_found", "Business has no owner account.")
		return nil, nil, false
	}

	return &biz, &owner, true
}
