package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersoft/studio-scheduler/internal/export"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

type ReportHandler struct {
	revenueUC *usecase.GetRevenueReport
	rangeUC   *usecase.ListScheduleForRange
}

func NewReportHandler(
	revenueUC *usecase.GetRevenueReport,
	rangeUC *usecase.ListScheduleForRange,
) *ReportHandler {
	return &ReportHandler{
		revenueUC: revenueUC,
		rangeUC:   rangeUC,
	}
}

func (h *ReportHandler) Revenue(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "Query parameters from and to are required.")
		return
	}

	report, err := h.revenueUC.Execute(c.Request.Context(), businessID, from, to)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) RevenueCSV(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "Query parameters from and to are required.")
		return
	}

	report, err := h.revenueUC.Execute(c.Request.Context(), businessID, from, to)
	if err != nil {
		writeScheduleError(c, err)
		return
	}

	writeCSVHeaders(c, fmt.Sprintf("revenue_%s_%s.csv", from, to))
	if err := export.WriteRevenueCSV(c.Writer, report); err != nil {
		httperr.Internal(c, "failed_to_export", "Could not write the CSV.")
	}
}

func (h *ReportHandler) ScheduleCSV(c *gin.Context) {
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

	writeCSVHeaders(c, fmt.Sprintf("schedule_%s_%s.csv", from, to))
	if err := export.WriteScheduleCSV(c.Writer, days); err != nil {
		httperr.Internal(c, "failed_to_export", "Could not write the CSV.")
	}
}

func writeCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
}
