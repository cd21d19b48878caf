package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts chart of accounts routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.PUT("/:id", h.Update)
		accounts.DELETE("/:id", h.Delete)
	}
}

// RegisterRoutes mounts journal entry routes
func (h *JournalEntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.List)
		entries.POST("/post-batch", h.BatchPost)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
		entries.POST("/:id/post", h.Post)
		entries.POST("/:id/reverse", h.Reverse)
	}
}

// RegisterRoutes mounts accounting period routes
func (h *PeriodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/periods")
	{
		periods.POST("", h.Create)
		periods.GET("", h.List)
		periods.GET("/:id", h.Get)
		periods.PUT("/:id", h.Update)
		periods.DELETE("/:id", h.Delete)
		periods.POST("/:id/lock", h.Lock)
		periods.POST("/:id/unlock", h.Unlock)
	}
}

// RegisterRoutes mounts budget and encumbrance routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.Create)
		budgets.POST("/check", h.Check)
		budgets.GET("/encumbrances", h.ListEncumbrances)
		budgets.POST("/encumbrances", h.CreateEncumbrance)
		budgets.POST("/encumbrances/:id/release", h.ReleaseEncumbrance)
		budgets.GET("/:id", h.Get)
		budgets.POST("/:id/deactivate", h.Deactivate)
	}
}

// RegisterRoutes mounts financial report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.TrialBalance)
		reports.GET("/balance-sheet", h.BalanceSheet)
		reports.GET("/profit-loss", h.ProfitAndLoss)
	}
}
