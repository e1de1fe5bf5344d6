package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/models"
	"github.com/mmfintech/bytebank_backend/models/reports"
	"github.com/mmfintech/bytebank_backend/utils"
)

func pathInt(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value < 1 {
		return 0, utils.NewValidationError(map[string]string{name: "must be a positive integer"})
	}
	return value, nil
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationError(map[string]string{name: "must be an integer"})
	}
	return value, nil
}

func statementOptionsFromQuery(c *gin.Context) (models.StatementOptions, error) {
	var opts models.StatementOptions
	var err error
	if opts.Page, err = queryInt(c, "page", 0); err != nil {
		return opts, err
	}
	if opts.Limit, err = queryInt(c, "limit", 0); err != nil {
		return opts, err
	}
	opts.Sort = c.Query("sort")
	opts.Order = c.Query("order")
	return opts, nil
}

// scheduleRecalc refreshes the account's cached balance after a ledger
// mutation, inline when synchronous recalculation is enabled.
func (a *API) scheduleRecalc(c *gin.Context, userId int, accountId int, lastTransactionId *int) {
	if a.Calculator == nil || accountId == 0 {
		return
	}
	if config.SyncBalanceRecalc() {
		if err := a.Calculator.RecalcNow(c.Request.Context(), userId, accountId, lastTransactionId); err != nil {
			config.GetLogger().Error("synchronous balance recalculation failed: " + err.Error())
		}
		return
	}
	a.Calculator.EnqueueRecalc(userId, accountId, lastTransactionId)
}

// GetAccounts handles GET /account. The result carries the user's accounts
// together with their most recent transactions.
func (a *API) GetAccounts(c *gin.Context) {
	ctx := c.Request.Context()
	accounts, err := models.GetAccounts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	recent, err := reports.GetRecentTransactions(ctx, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Accounts retrieved successfully", gin.H{
		"account":      accounts,
		"transactions": recent,
	})
}

// CreateAccount handles POST /account. A positive initial balance also
// books an opening transaction.
func (a *API) CreateAccount(c *gin.Context) {
	var input models.NewAccount
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	account, openingTransaction, err := models.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	if openingTransaction != nil {
		a.scheduleRecalc(c, account.UserId, account.ID, &openingTransaction.ID)
	}

	respond(c, http.StatusCreated, "Account created successfully", gin.H{
		"id":             account.ID,
		"type":           account.Type,
		"userId":         account.UserId,
		"name":           account.Name,
		"description":    account.Description,
		"initialBalance": input.InitialBalance,
		"createdAt":      account.CreatedAt,
	})
}

// CreateTransaction handles POST /account/transaction.
func (a *API) CreateTransaction(c *gin.Context) {
	var input models.NewTransaction
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	transaction, err := models.CreateTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	a.scheduleRecalc(c, transaction.UserId, transaction.AccountId, &transaction.ID)

	respond(c, http.StatusCreated, "Transaction created successfully", transaction)
}

// GetStatement handles GET /account/:accountId/statement.
func (a *API) GetStatement(c *gin.Context) {
	accountId, err := pathInt(c, "accountId")
	if err != nil {
		respondError(c, err)
		return
	}
	opts, err := statementOptionsFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	transactions, pagination, err := models.GetStatement(c.Request.Context(), accountId, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Statement retrieved successfully", gin.H{"transactions": transactions}, pagination, gin.H{
		"filters": gin.H{"sort": opts.Sort, "order": opts.Order},
	})
}

// ExportStatement handles GET /account/:accountId/statement/export.
func (a *API) ExportStatement(c *gin.Context) {
	accountId, err := pathInt(c, "accountId")
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=statement.xlsx")
	if err := reports.ExportStatementExcel(c.Request.Context(), c.Writer, accountId); err != nil {
		respondError(c, err)
	}
}

// GetBalance handles GET /account/:accountId/balance.
func (a *API) GetBalance(c *gin.Context) {
	accountId, err := pathInt(c, "accountId")
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := models.GetAccountBalance(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Balance retrieved successfully", balance)
}

// GetTransactionsByCategory handles GET /account/transactions/category/:category.
func (a *API) GetTransactionsByCategory(c *gin.Context) {
	category := c.Param("category")
	opts, err := statementOptionsFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	transactions, pagination, err := models.GetTransactionsByCategory(c.Request.Context(), category, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Transactions retrieved successfully", gin.H{"transactions": transactions}, pagination, gin.H{
		"category": category,
	})
}

// GetTransaction handles GET /account/transaction/:transactionId.
func (a *API) GetTransaction(c *gin.Context) {
	transactionId, err := pathInt(c, "transactionId")
	if err != nil {
		respondError(c, err)
		return
	}

	transaction, err := models.GetTransaction(c.Request.Context(), transactionId)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Transaction retrieved successfully", transaction)
}

// UpdateTransaction handles PUT /account/transaction/:transactionId.
func (a *API) UpdateTransaction(c *gin.Context) {
	transactionId, err := pathInt(c, "transactionId")
	if err != nil {
		respondError(c, err)
		return
	}
	var input models.UpdateTransactionInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	transaction, previousAccountId, err := models.UpdateTransaction(c.Request.Context(), transactionId, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	a.scheduleRecalc(c, transaction.UserId, transaction.AccountId, &transaction.ID)
	if previousAccountId != 0 && previousAccountId != transaction.AccountId {
		// The old account's balance no longer includes this transaction.
		a.scheduleRecalc(c, transaction.UserId, previousAccountId, nil)
	}

	respond(c, http.StatusOK, "Transaction updated successfully", transaction)
}

// DeleteTransaction handles DELETE /account/transaction/:transactionId.
func (a *API) DeleteTransaction(c *gin.Context) {
	transactionId, err := pathInt(c, "transactionId")
	if err != nil {
		respondError(c, err)
		return
	}

	deleted, err := models.DeleteTransaction(c.Request.Context(), transactionId)
	if err != nil {
		respondError(c, err)
		return
	}
	a.scheduleRecalc(c, deleted.UserId, deleted.AccountId, nil)

	respond(c, http.StatusOK, "Transaction deleted successfully", gin.H{"deletedTransaction": deleted})
}

// GetCategorySuggestions handles GET /account/category-suggestions.
func (a *API) GetCategorySuggestions(c *gin.Context) {
	description := c.Query("description")
	if description == "" {
		respondError(c, utils.NewValidationError(map[string]string{"description": "description is required"}))
		return
	}
	transactionType := c.DefaultQuery("type", string(models.TransactionTypeExpense))

	respond(c, http.StatusOK, "Category suggestions retrieved successfully", gin.H{
		"detectedCategory": utils.DetectCategory(description, transactionType),
		"suggestions":      utils.SuggestCategories(description, transactionType),
		"categories":       utils.AllCategories(),
		"description":      description,
		"type":             transactionType,
	})
}
