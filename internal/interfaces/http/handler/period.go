package handler

import (
	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/gin-gonic/gin"
)

// PeriodHandler handles accounting period API endpoints
type PeriodHandler struct {
	BaseHandler
	periodService *accountingapp.AccountingPeriodService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *accountingapp.AccountingPeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// Create handles POST /periods
func (h *PeriodHandler) Create(c *gin.Context) {
	var req accountingapp.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, period)
}

// Update handles PUT /periods/:id
func (h *PeriodHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid period id")
		return
	}

	var req accountingapp.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	period, err := h.periodService.UpdatePeriod(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Lock handles POST /periods/:id/lock
func (h *PeriodHandler) Lock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid period id")
		return
	}
	actor, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	period, err := h.periodService.LockPeriod(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Unlock handles POST /periods/:id/unlock
func (h *PeriodHandler) Unlock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid period id")
		return
	}

	period, err := h.periodService.UnlockPeriod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Delete handles DELETE /periods/:id
func (h *PeriodHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid period id")
		return
	}

	if err := h.periodService.DeletePeriod(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /periods/:id
func (h *PeriodHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid period id")
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// List handles GET /periods
func (h *PeriodHandler) List(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periods)
}
