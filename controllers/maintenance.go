package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/utils"
)

// RecalculateBalances handles POST /internal/recalculate-balances. A redis
// lock keeps concurrent invocations (or other instances) from folding the
// same ledgers twice.
func (a *API) RecalculateBalances(c *gin.Context) {
	if a.Calculator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "service not ready"})
		return
	}

	release, err := utils.MaintenanceLock(c.Request.Context(), "balance-recalculation", 10*time.Minute, "controllers", "RecalculateBalances")
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "A balance recalculation is already in progress"})
		return
	}
	defer release()

	a.Calculator.RecalculateAllUsers(c.Request.Context())
	respond(c, http.StatusOK, "Balance recalculation completed", nil)
}
