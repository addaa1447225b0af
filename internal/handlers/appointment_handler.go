package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ateliersoft/studio-scheduler/internal/cache"
	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/httpresp"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC   *usecase.CreateAppointment
	updateUC   *usecase.UpdateAppointment
	deleteUC   *usecase.DeleteAppointment
	completeUC *usecase.CompleteOccurrence
	cancelUC   *usecase.CancelOccurrence
	listDayUC  *usecase.ListScheduleForDate
	rangeUC    *usecase.ListScheduleForRange
	monthUC    *usecase.ListScheduleForMonth

	cache *cache.ScheduleCache
}

func NewAppointmentHandler(
	createUC *usecase.CreateAppointment,
	updateUC *usecase.UpdateAppointment,
	deleteUC *usecase.DeleteAppointment,
	completeUC *usecase.CompleteOccurrence,
	cancelUC *usecase.CancelOccurrence,
	listDayUC *usecase.ListScheduleForDate,
	rangeUC *usecase.ListScheduleForRange,
	monthUC *usecase.ListScheduleForMonth,
	scheduleCache *cache.ScheduleCache,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:   createUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
		listDayUC:  listDayUC,
		rangeUC:    rangeUC,
		monthUC:    monthUC,
		cache:      scheduleCache,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ParticipantRequest struct {
	ClientID uint   `json:"client_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type RecurrenceRequest struct {
	Frequency  string `json:"frequency" binding:"required"`
	Interval   int    `json:"interval"`
	DaysOfWeek []int  `json:"days_of_week"`
	EndDate    string `json:"end_date"`
}

type CreateAppointmentRequest struct {
	ServiceID uint `json:"service_id"`
	Blocked   bool `json:"blocked"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Participants []ParticipantRequest `json:"participants"`

	NumberOfPeople *int     `json:"number_of_people"`
	OverridePrice  *float64 `json:"override_price"`

	Recurrence *RecurrenceRequest `json:"recurrence"`

	Notes string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Date *string `json:"date"`
	Time *string `json:"time"`

	ServiceID *uint `json:"service_id"`

	NumberOfPeople *int     `json:"number_of_people"`
	OverridePrice  *float64 `json:"override_price"`
	ClearOverride  bool     `json:"clear_override"`

	Recurrence      *RecurrenceRequest `json:"recurrence"`
	ClearRecurrence bool               `json:"clear_recurrence"`

	Participants []ParticipantRequest `json:"participants"`

	Notes *string `json:"notes"`
}

func toRecurrence(r *RecurrenceRequest) *models.Recurrence {
	if r == nil {
		return nil
	}
	return &models.Recurrence{
		Frequency:  r.Frequency,
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		EndDate:    r.EndDate,
	}
}

func toParticipants(reqs []ParticipantRequest) []usecase.ParticipantInput {
	if reqs == nil {
		return nil
	}
	out := make([]usecase.ParticipantInput, 0, len(reqs))
	for _, p := range reqs {
		out = append(out, usecase.ParticipantInput{
			ClientID: p.ClientID,
			Name:     p.Name,
			Phone:    p.Phone,
			Email:    p.Email,
		})
	}
	return out
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		BusinessID:     businessID,
		UserID:         userID,
		ServiceID:      req.ServiceID,
		Blocked:        req.Blocked,
		Date:           req.Date,
		Time:           req.Time,
		Participants:   toParticipants(req.Participants),
		NumberOfPeople: req.NumberOfPeople,
		OverridePrice:  req.OverridePrice,
		Recurrence:     toRecurrence(req.Recurrence),
		Notes:          req.Notes,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), usecase.UpdateAppointmentInput{
		BusinessID:      businessID,
		UserID:          userID,
		AppointmentID:   uint(id),
		Date:            req.Date,
		Time:            req.Time,
		ServiceID:       req.ServiceID,
		NumberOfPeople:  req.NumberOfPeople,
		OverridePrice:   req.OverridePrice,
		ClearOverride:   req.ClearOverride,
		Recurrence:      toRecurrence(req.Recurrence),
		ClearRecurrence: req.ClearRecurrence,
		Participants:    toParticipants(req.Participants),
		Notes:           req.Notes,
	})
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), businessID, userID, uint(id)); err != nil {
		writeScheduleError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.Status(http.StatusNoContent)
}

// ======================================================
// COMPLETE / CANCEL
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(businessID, userID, id uint, date string) (*models.Appointment, error) {
		return h.completeUC.Execute(c.Request.Context(), businessID, userID, id, date)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(businessID, userID, id uint, date string) (*models.Appointment, error) {
		return h.cancelUC.Execute(c.Request.Context(), businessID, userID, id, date)
	})
}

// transition handles the shared complete/cancel plumbing. The optional
// "date" query selects which occurrence of a series is affected.
func (h *AppointmentHandler) transition(
	c *gin.Context,
	apply func(businessID, userID, id uint, date string) (*models.Appointment, error),
) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := apply(businessID, userID, uint(id), c.Query("date"))
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), businessID)
	c.JSON(http.StatusOK, ap)
}

// ======================================================
// SCHEDULE VIEWS
// ======================================================

func (h *AppointmentHandler) ScheduleForDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	entries, err := h.listDayUC.Execute(
		c.Request.Context(),
		businessID,
		date,
		parseStatusFilter(c.Query("status")),
	)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.List(c, entries)
}

func (h *AppointmentHandler) ScheduleForRange(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "Query parameters from and to are required.")
		return
	}

	days, err := h.rangeUC.Execute(
		c.Request.Context(),
		businessID,
		from,
		to,
		parseStatusFilter(c.Query("status")),
	)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	httpresp.List(c, days)
}

func (h *AppointmentHandler) ScheduleForMonth(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	days, err := h.monthUC.Execute(
		c.Request.Context(),
		businessID,
		year,
		month,
		parseStatusFilter(c.Query("status")),
	)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"days":  days,
	})
}

// ======================================================
// HELPERS
// ======================================================

// parseStatusFilter reads a comma separated status list; unknown values
// are dropped and an empty result means no filtering.
func parseStatusFilter(raw string) []domain.Status {
	if raw == "" || raw == "all" {
		return nil
	}

	known := map[string]domain.Status{
		"confirmed": domain.StatusConfirmed,
		"pending":   domain.StatusPending,
		"completed": domain.StatusCompleted,
		"cancelled": domain.StatusCancelled,
		"blocked":   domain.StatusBlocked,
	}

	var out []domain.Status
	for _, part := range strings.Split(raw, ",") {
		if s, ok := known[strings.TrimSpace(part)]; ok {
			out = append(out, s)
		}
	}
	return out
}

var scheduleErrorStatus = map[string]int{
	"invalid_request":        http.StatusBadRequest,
	"invalid_date":           http.StatusBadRequest,
	"invalid_date_or_time":   http.StatusBadRequest,
	"invalid_range":          http.StatusBadRequest,
	"invalid_month":          http.StatusBadRequest,
	"invalid_recurrence":     http.StatusBadRequest,
	"invalid_amount":         http.StatusBadRequest,
	"range_too_large":        http.StatusBadRequest,
	"missing_client":         http.StatusBadRequest,
	"too_soon":               http.StatusBadRequest,
	"outside_working_hours":  http.StatusBadRequest,
	"time_conflict":          http.StatusConflict,
	"invalid_state":          http.StatusConflict,
	"not_an_occurrence":      http.StatusConflict,
	"service_not_found":      http.StatusNotFound,
	"client_not_found":       http.StatusNotFound,
	"appointment_not_found":  http.StatusNotFound,
	"snapshot_not_found":     http.StatusNotFound,
}

// writeScheduleError maps business error codes onto HTTP statuses;
// anything unrecognized is a 500.
func writeScheduleError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		status, ok := scheduleErrorStatus[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		httperr.Write(c, status, be.Code, "")
		return
	}

	if httperr.IsExclusionConflict(err) || httperr.IsUniqueViolation(err) {
		httperr.Write(c, http.StatusConflict, "time_conflict", "")
		return
	}

	httperr.Internal(c, "internal_error", "Unexpected error.")
}
