package handler

import (
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JournalEntryHandler handles journal entry API endpoints
type JournalEntryHandler struct {
	BaseHandler
	entryService *accountingapp.JournalEntryService
}

// NewJournalEntryHandler creates a new JournalEntryHandler
func NewJournalEntryHandler(entryService *accountingapp.JournalEntryService) *JournalEntryHandler {
	return &JournalEntryHandler{entryService: entryService}
}

// ReverseEntryRequest represents a request to reverse a posted entry
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BatchPostRequest represents a request to post several entries
type BatchPostRequest struct {
	EntryIDs []uuid.UUID `json:"entry_ids" binding:"required,min=1"`
}

// Create handles POST /journal-entries
func (h *JournalEntryHandler) Create(c *gin.Context) {
	var req accountingapp.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.entryService.CreateJournalEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Update handles PUT /journal-entries/:id
func (h *JournalEntryHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry id")
		return
	}

	var req accountingapp.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.entryService.UpdateJournalEntry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Post handles POST /journal-entries/:id/post
func (h *JournalEntryHandler) Post(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry id")
		return
	}
	actor, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.entryService.PostJournalEntry(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Reverse handles POST /journal-entries/:id/reverse
func (h *JournalEntryHandler) Reverse(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry id")
		return
	}
	actor, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	reversal, err := h.entryService.ReverseJournalEntry(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reversal)
}

// BatchPost handles POST /journal-entries/batch-post
func (h *JournalEntryHandler) BatchPost(c *gin.Context) {
	actor, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req BatchPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.entryService.PostJournalEntries(c.Request.Context(), req.EntryIDs, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete handles DELETE /journal-entries/:id
func (h *JournalEntryHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry id")
		return
	}

	if err := h.entryService.DeleteJournalEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /journal-entries/:id
func (h *JournalEntryHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid journal entry id")
		return
	}

	entry, err := h.entryService.GetJournalEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List handles GET /journal-entries
func (h *JournalEntryHandler) List(c *gin.Context) {
	filter, err := parseEntryFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.entryService.ListJournalEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

type entryListQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=draft posted"`
	Reference string `form:"reference"`
	FromDate  string `form:"from_date"`
	ToDate    string `form:"to_date"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func parseEntryFilter(c *gin.Context) (accounting.JournalEntryFilter, error) {
	var q entryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return accounting.JournalEntryFilter{}, err
	}

	filter := accounting.JournalEntryFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Status != "" {
		status := accounting.EntryStatus(q.Status)
		filter.Status = &status
	}
	if q.Reference != "" {
		filter.Reference = &q.Reference
	}
	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			return accounting.JournalEntryFilter{}, err
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			return accounting.JournalEntryFilter{}, err
		}
		filter.ToDate = &to
	}
	if q.AccountID != "" {
		accountID, err := uuid.Parse(q.AccountID)
		if err != nil {
			return accounting.JournalEntryFilter{}, err
		}
		filter.AccountID = &accountID
	}
	return filter, nil
}
