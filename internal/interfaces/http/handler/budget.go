package handler

import (
	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles budget and encumbrance API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *accountingapp.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *accountingapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// Create handles POST /budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	var req accountingapp.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, budget)
}

// Check handles POST /budgets/check
func (h *BudgetHandler) Check(c *gin.Context) {
	var req accountingapp.CheckBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.budgetService.CheckBudget(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateEncumbrance handles POST /budgets/encumbrances
func (h *BudgetHandler) CreateEncumbrance(c *gin.Context) {
	var req accountingapp.CreateEncumbranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	enc, err := h.budgetService.CreateEncumbrance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, enc)
}

// ReleaseEncumbrance handles POST /budgets/encumbrances/:id/release
func (h *BudgetHandler) ReleaseEncumbrance(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid encumbrance id")
		return
	}

	enc, err := h.budgetService.ReleaseEncumbrance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enc)
}

// Deactivate handles POST /budgets/:id/deactivate
func (h *BudgetHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid budget id")
		return
	}

	budget, err := h.budgetService.DeactivateBudget(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

// Get handles GET /budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid budget id")
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, budget)
}

type encumbranceListQuery struct {
	SourceType string `form:"source_type" binding:"required"`
	SourceID   string `form:"source_id" binding:"required,uuid"`
}

// ListEncumbrances handles GET /budgets/encumbrances
func (h *BudgetHandler) ListEncumbrances(c *gin.Context) {
	var q encumbranceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	sourceID, err := uuid.Parse(q.SourceID)
	if err != nil {
		h.BadRequest(c, "Invalid source id")
		return
	}

	encumbrances, err := h.budgetService.ListEncumbrancesBySource(c.Request.Context(), q.SourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, encumbrances)
}
