package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
	"github.com/ateliersoft/studio-scheduler/internal/httperr"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/models"
)

type ExpenseHandler struct {
	db *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{db: db}
}

type ExpenseRequest struct {
	Date        string  `json:"date" binding:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

func (h *ExpenseHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	q := h.db.Where("business_id = ?", businessID)

	from := c.Query("from")
	to := c.Query("to")
	if from != "" && to != "" {
		q = q.Where("date >= ? AND date <= ?", from, to)
	}

	var expenses []models.Expense
	if err := q.
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_expenses", "Could not list expenses.")
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if _, ok := domain.ParseDate(req.Date); !ok {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	exp := models.Expense{
		BusinessID:  businessID,
		Date:        req.Date,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}

	if err := h.db.Create(&exp).Error; err != nil {
		httperr.Internal(c, "failed_to_create_expense", "Could not create the expense.")
		return
	}

	c.JSON(http.StatusCreated, exp)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var exp models.Expense
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&exp).Error; err != nil {
		httperr.NotFound(c, "expense_not_found", "Expense not found.")
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if _, ok := domain.ParseDate(req.Date); !ok {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	exp.Date = req.Date
	exp.Category = req.Category
	exp.Description = req.Description
	exp.Amount = req.Amount

	if err := h.db.Save(&exp).Error; err != nil {
		httperr.Internal(c, "failed_to_update_expense", "Could not save the expense.")
		return
	}

	c.JSON(http.StatusOK, exp)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.Expense{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_expense", "Could not delete the expense.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "expense_not_found", "Expense not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
