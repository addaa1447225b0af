package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/snapshot"
)

type SnapshotHandler struct {
	snapshots *snapshot.Service
}

func NewSnapshotHandler(snapshots *snapshot.Service) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

type CreateSnapshotRequest struct {
	Label string `json:"label"`
}

func (h *SnapshotHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	row, err := h.snapshots.Create(c.Request.Context(), businessID, req.Label)
	if err != nil {
		httperr.Internal(c, "failed_to_create_snapshot", "Could not create the snapshot.")
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *SnapshotHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	rows, err := h.snapshots.List(c.Request.Context(), businessID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_snapshots", "Could not list snapshots.")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *SnapshotHandler) Download(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	key := c.Param("key")

	payload, err := h.snapshots.Download(c.Request.Context(), businessID, key)
	if err != nil {
		if httperr.IsBusiness(err, "snapshot_not_found") {
			httperr.NotFound(c, "snapshot_not_found", "Snapshot not found.")
			return
		}
		httperr.Internal(c, "failed_to_download_snapshot", "Could not download the snapshot.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key+".json"))
	c.Data(http.StatusOK, "application/json", payload)
}
