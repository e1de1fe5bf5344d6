package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/models/reports"
)

// GetDashboardSummary handles GET /dashboard/summary.
func (a *API) GetDashboardSummary(c *gin.Context) {
	summary, err := reports.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Dashboard summary retrieved successfully", summary)
}

// GetBalanceEvolution handles GET /dashboard/balance-evolution.
func (a *API) GetBalanceEvolution(c *gin.Context) {
	months, err := queryInt(c, "months", 6)
	if err != nil {
		respondError(c, err)
		return
	}

	evolution, err := reports.GetBalanceEvolution(c.Request.Context(), months)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Balance evolution retrieved successfully", evolution)
}

// GetTopExpenseCategories handles GET /dashboard/top-expense-categories.
func (a *API) GetTopExpenseCategories(c *gin.Context) {
	limit, err := queryInt(c, "limit", 5)
	if err != nil {
		respondError(c, err)
		return
	}

	categories, err := reports.GetTopExpenseCategories(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Top expense categories retrieved successfully", gin.H{"categories": categories})
}

// GetRecentTransactions handles GET /dashboard/recent-transactions.
func (a *API) GetRecentTransactions(c *gin.Context) {
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		respondError(c, err)
		return
	}

	transactions, err := reports.GetRecentTransactions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Recent transactions retrieved successfully", gin.H{"transactions": transactions})
}

// GetPeriodStats handles GET /dashboard/period-stats.
func (a *API) GetPeriodStats(c *gin.Context) {
	stats, err := reports.GetPeriodStats(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Period statistics retrieved successfully", stats)
}
