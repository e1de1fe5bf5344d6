package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/models"
	"github.com/mmfintech/bytebank_backend/utils"
	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

type MonthlyDetail struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

type CategoryDetail struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type SummaryResponse struct {
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	TotalExpense      decimal.Decimal  `json:"totalExpense"`
	NetBalance        decimal.Decimal  `json:"netBalance"`
	TransactionCount  int              `json:"transactionCount"`
	MonthlyData       []MonthlyDetail  `json:"monthlyData"`
	CategoryBreakdown []CategoryDetail `json:"categoryBreakdown"`
}

type BalancePoint struct {
	Date          string          `json:"date"`
	Balance       decimal.Decimal `json:"balance"`
	TransactionId int             `json:"transactionId"`
	Description   string          `json:"description"`
}

type BalanceEvolutionResponse struct {
	Evolution      []BalancePoint  `json:"evolution"`
	MonthlyBalance []MonthlyDetail `json:"monthlyBalance"`
}

type PeriodStatsResponse struct {
	Period             string          `json:"period"`
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	Net                decimal.Decimal `json:"net"`
	TransactionCount   int             `json:"transactionCount"`
	AverageTransaction decimal.Decimal `json:"averageTransaction"`
}

// BuildSummary folds a user's transactions into totals, the last six months
// of activity and a per-category breakdown.
func BuildSummary(transactions []*models.Transaction) *SummaryResponse {
	response := &SummaryResponse{
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		NetBalance:        decimal.Zero,
		TransactionCount:  len(transactions),
		MonthlyData:       []MonthlyDetail{},
		CategoryBreakdown: []CategoryDetail{},
	}

	for _, t := range transactions {
		if t.Type == models.TransactionTypeIncome {
			response.TotalIncome = response.TotalIncome.Add(t.Amount)
		} else {
			response.TotalExpense = response.TotalExpense.Add(t.Amount)
		}
	}
	response.NetBalance = response.TotalIncome.Sub(response.TotalExpense)
	response.MonthlyData = BuildMonthlyData(transactions, 6)
	response.CategoryBreakdown = BuildCategoryBreakdown(transactions)

	return response
}

// BuildMonthlyData groups transactions by calendar month and keeps the most
// recent months of activity.
func BuildMonthlyData(transactions []*models.Transaction, months int) []MonthlyDetail {
	byMonth := map[string]*MonthlyDetail{}
	for _, t := range transactions {
		month := t.Date.Format("2006-01")
		detail, ok := byMonth[month]
		if !ok {
			detail = &MonthlyDetail{Month: month, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
			byMonth[month] = detail
		}
		if t.Type == models.TransactionTypeIncome {
			detail.Income = detail.Income.Add(t.Amount)
		} else {
			detail.Expense = detail.Expense.Add(t.Amount)
		}
		detail.Count++
	}

	results := make([]MonthlyDetail, 0, len(byMonth))
	for _, detail := range byMonth {
		detail.Net = detail.Income.Sub(detail.Expense)
		results = append(results, *detail)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Month < results[j].Month
	})

	if months > 0 && len(results) > months {
		results = results[len(results)-months:]
	}
	return results
}

// BuildCategoryBreakdown totals transactions per category, highest first.
// Transactions without a category count under Uncategorized.
func BuildCategoryBreakdown(transactions []*models.Transaction) []CategoryDetail {
	byCategory := map[string]*CategoryDetail{}
	for _, t := range transactions {
		category := t.Category
		if category == "" {
			category = utils.CategoryUncategorized
		}
		detail, ok := byCategory[category]
		if !ok {
			detail = &CategoryDetail{Category: category, Income: decimal.Zero, Expense: decimal.Zero, Total: decimal.Zero}
			byCategory[category] = detail
		}
		if t.Type == models.TransactionTypeIncome {
			detail.Income = detail.Income.Add(t.Amount)
		} else {
			detail.Expense = detail.Expense.Add(t.Amount)
		}
		detail.Total = detail.Total.Add(t.Amount)
		detail.Count++
	}

	results := make([]CategoryDetail, 0, len(byCategory))
	for _, detail := range byCategory {
		results = append(results, *detail)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].Total.Equal(results[j].Total) {
			return results[i].Total.GreaterThan(results[j].Total)
		}
		return results[i].Category < results[j].Category
	})
	return results
}

// BuildBalanceEvolution walks transactions in date order and emits one
// running-balance point per transaction. The window cap of months*30 points
// is an approximation of a month count, not a calendar boundary.
func BuildBalanceEvolution(transactions []*models.Transaction, months int) *BalanceEvolutionResponse {
	if months <= 0 {
		months = 6
	}

	ordered := make([]*models.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	running := decimal.Zero
	var points []BalancePoint
	for _, t := range ordered {
		running = running.Add(t.SignedAmount())
		points = append(points, BalancePoint{
			Date:          t.Date.Format("2006-01-02"),
			Balance:       running,
			TransactionId: t.ID,
			Description:   t.Description,
		})
	}

	maxPoints := months * 30
	if len(points) > maxPoints {
		points = points[len(points)-maxPoints:]
	}
	if points == nil {
		points = []BalancePoint{}
	}

	return &BalanceEvolutionResponse{
		Evolution:      points,
		MonthlyBalance: BuildMonthlyData(ordered, months),
	}
}

// BuildTopExpenseCategories ranks expense categories by total spent.
func BuildTopExpenseCategories(transactions []*models.Transaction, limit int) []CategoryDetail {
	if limit <= 0 {
		limit = 5
	}

	var expenses []*models.Transaction
	for _, t := range transactions {
		if t.Type == models.TransactionTypeExpense {
			expenses = append(expenses, t)
		}
	}

	results := BuildCategoryBreakdown(expenses)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// BuildRecentTransactions returns the newest transactions first.
func BuildRecentTransactions(transactions []*models.Transaction, limit int) []*models.Transaction {
	if limit <= 0 {
		limit = 10
	}

	ordered := make([]*models.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	if ordered == nil {
		ordered = []*models.Transaction{}
	}
	return ordered
}

// BuildPeriodStats totals transactions inside [start, end] and derives the
// average transaction size.
func BuildPeriodStats(transactions []*models.Transaction, period string, start, end time.Time) *PeriodStatsResponse {
	response := &PeriodStatsResponse{
		Period:             period,
		StartDate:          start.Format("2006-01-02"),
		EndDate:            end.Format("2006-01-02"),
		TotalIncome:        decimal.Zero,
		TotalExpense:       decimal.Zero,
		Net:                decimal.Zero,
		AverageTransaction: decimal.Zero,
	}

	total := decimal.Zero
	for _, t := range transactions {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		response.TransactionCount++
		total = total.Add(t.Amount)
		if t.Type == models.TransactionTypeIncome {
			response.TotalIncome = response.TotalIncome.Add(t.Amount)
		} else {
			response.TotalExpense = response.TotalExpense.Add(t.Amount)
		}
	}
	response.Net = response.TotalIncome.Sub(response.TotalExpense)
	if response.TransactionCount > 0 {
		response.AverageTransaction = total.Div(decimal.NewFromInt(int64(response.TransactionCount))).Round(4)
	}
	return response
}

func fetchUserTransactions(ctx context.Context) ([]*models.Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	db := config.GetDB()
	return models.GetTransactionsForUser(ctx, db, userId)
}

func GetDashboardSummary(ctx context.Context) (*SummaryResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard_summary", started, nil)

	var cacheKey string
	if reportCacheEnabled() {
		if userId, ok := utils.GetUserIdFromContext(ctx); ok && userId != 0 {
			cacheKey = "DashboardSummary:" + fmt.Sprint(userId)
			var cached SummaryResponse
			if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
				return &cached, nil
			}
		}
	}

	transactions, err := fetchUserTransactions(ctx)
	if err != nil {
		return nil, err
	}
	summary := BuildSummary(transactions)
	if cacheKey != "" {
		_ = cacheSet(cacheKey, summary, reportCacheTTL())
	}
	return summary, nil
}

func GetBalanceEvolution(ctx context.Context, months int) (*BalanceEvolutionResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "balance_evolution", started, map[string]any{"months": months})

	transactions, err := fetchUserTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBalanceEvolution(transactions, months), nil
}

func GetTopExpenseCategories(ctx context.Context, limit int) ([]CategoryDetail, error) {
	transactions, err := fetchUserTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTopExpenseCategories(transactions, limit), nil
}

func GetRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	transactions, err := fetchUserTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRecentTransactions(transactions, limit), nil
}

// GetPeriodStats reports totals for the current month, quarter or year.
func GetPeriodStats(ctx context.Context, period string) (*PeriodStatsResponse, error) {
	var start, end time.Time
	switch period {
	case "", "month":
		period = "month"
		start, end = utils.GetThisMonthRange()
	case "quarter":
		start, end = utils.GetThisQuarterRange()
	case "year":
		start, end = utils.GetThisYearRange()
	default:
		return nil, utils.NewValidationError(map[string]string{"period": "must be one of month, quarter, year"})
	}

	transactions, err := fetchUserTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPeriodStats(transactions, period, start, end), nil
}
