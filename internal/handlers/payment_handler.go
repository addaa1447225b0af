package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	"github.com/ateliersoft/studio-scheduler/internal/payments"
)

type PaymentHandler struct {
	db      *gorm.DB
	gateway *payments.Gateway
}

func NewPaymentHandler(db *gorm.DB, gateway *payments.Gateway) *PaymentHandler {
	return &PaymentHandler{db: db, gateway: gateway}
}

type DepositLinkRequest struct {
	// Amount overrides the default deposit of half the booking price.
	Amount     *float64 `json:"amount"`
	PayerEmail string   `json:"payer_email"`
}

// CreateDepositLink builds a hosted checkout link for a booking
// deposit. Returns 503 when no payment gateway is configured.
func (h *PaymentHandler) CreateDepositLink(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	if h.gateway == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "payments_disabled", "No payment gateway configured.")
		return
	}

	var req DepositLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Clients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND business_id = ?", c.Param("id"), businessID).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}
	if ap.Blocked {
		httperr.BadRequest(c, "invalid_state", "Blocked time cannot be charged.")
		return
	}

	var svc *models.Service
	if ap.ServiceID != nil {
		var s models.Service
		if err := h.db.
			Where("id = ? AND business_id = ?", *ap.ServiceID, businessID).
			First(&s).Error; err == nil {
			svc = &s
		}
	}

	amount := domain.ResolvePrice(&ap, svc) / 2
	if req.Amount != nil {
		amount = *req.Amount
	}

	serviceName := "Booking deposit"
	if svc != nil {
		serviceName = svc.Name + " deposit"
	}

	link, err := h.gateway.CreateDepositLink(c.Request.Context(), payments.DepositInput{
		Reference:   ap.Reference,
		ServiceName: serviceName,
		Amount:      amount,
		PayerEmail:  req.PayerEmail,
	})
	if err != nil {
		if httperr.IsBusiness(err, "invalid_amount") {
			httperr.BadRequest(c, "invalid_amount", "Deposit amount must be positive.")
			return
		}
		httperr.Internal(c, "failed_to_create_payment_link", "Could not create the payment link.")
		return
	}

	c.JSON(http.StatusCreated, link)
}
