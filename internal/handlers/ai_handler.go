package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/ai"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

type AIHandler struct {
	db        *gorm.DB
	client    *ai.Client
	listDayUC *usecase.ListScheduleForDate
}

func NewAIHandler(
	db *gorm.DB,
	client *ai.Client,
	listDayUC *usecase.ListScheduleForDate,
) *AIHandler {
	return &AIHandler{
		db:        db,
		client:    client,
		listDayUC: listDayUC,
	}
}

// DailyBriefing summarizes one resolved day for the owner. Returns 503
// when no completion API is configured.
func (h *AIHandler) DailyBriefing(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	if h.client == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "ai_disabled", "No completion API configured.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.Internal(c, "business_not_found", "Business not found.")
		return
	}

	entries, err := h.listDayUC.Execute(c.Request.Context(), businessID, date, nil)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	text, err := h.client.SummarizeDay(c.Request.Context(), biz.Name, usecase.DaySchedule{
		Date:    date,
		Entries: entries,
	})
	if err != nil {
		httperr.Internal(c, "ai_failed", "Could not generate the briefing.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"briefing": text,
	})
}
