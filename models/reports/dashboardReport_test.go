package reports

import (
	"testing"
	"time"

	"github.com/mmfintech/bytebank_backend/models"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func sampleLedger() []*models.Transaction {
	return []*models.Transaction{
		{ID: 1, AccountId: 1, Type: models.TransactionTypeIncome, Amount: amount("3000"), Category: utils.CategorySalary, Date: day("2026-06-01")},
		{ID: 2, AccountId: 1, Type: models.TransactionTypeExpense, Amount: amount("800"), Category: utils.CategoryFixedExpenses, Date: day("2026-06-05")},
		{ID: 3, AccountId: 1, Type: models.TransactionTypeExpense, Amount: amount("200"), Category: utils.CategoryFood, Date: day("2026-07-02")},
		{ID: 4, AccountId: 1, Type: models.TransactionTypeIncome, Amount: amount("3000"), Category: utils.CategorySalary, Date: day("2026-07-01")},
		{ID: 5, AccountId: 1, Type: models.TransactionTypeExpense, Amount: amount("150"), Category: "", Date: day("2026-07-10")},
	}
}

func TestBuildSummary(t *testing.T) {
	summary := BuildSummary(sampleLedger())

	if !summary.TotalIncome.Equal(amount("6000")) {
		t.Fatalf("total income = %s, want 6000", summary.TotalIncome)
	}
	if !summary.TotalExpense.Equal(amount("1150")) {
		t.Fatalf("total expense = %s, want 1150", summary.TotalExpense)
	}
	if !summary.NetBalance.Equal(amount("4850")) {
		t.Fatalf("net balance = %s, want 4850", summary.NetBalance)
	}
	if summary.TransactionCount != 5 {
		t.Fatalf("transaction count = %d, want 5", summary.TransactionCount)
	}
	if len(summary.MonthlyData) != 2 {
		t.Fatalf("monthly data months = %d, want 2", len(summary.MonthlyData))
	}
	june := summary.MonthlyData[0]
	if june.Month != "2026-06" || !june.Net.Equal(amount("2200")) {
		t.Fatalf("june = %+v", june)
	}
	if !june.Income.Equal(amount("3000")) || !june.Expense.Equal(amount("800")) || june.Count != 2 {
		t.Fatalf("june bucket = %+v, want income 3000 expense 800 count 2", june)
	}
	july := summary.MonthlyData[1]
	if july.Month != "2026-07" || july.Count != 3 {
		t.Fatalf("july bucket = %+v, want count 3", july)
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := BuildSummary(nil)
	if !summary.TotalIncome.IsZero() || !summary.TotalExpense.IsZero() || summary.TransactionCount != 0 {
		t.Fatalf("empty summary = %+v", summary)
	}
	if summary.MonthlyData == nil || summary.CategoryBreakdown == nil {
		t.Fatal("empty summary must render empty slices, not null")
	}
}

func TestBuildCategoryBreakdown_UncategorizedFallback(t *testing.T) {
	breakdown := BuildCategoryBreakdown(sampleLedger())

	if breakdown[0].Category != utils.CategorySalary || !breakdown[0].Total.Equal(amount("6000")) {
		t.Fatalf("top category = %+v", breakdown[0])
	}
	if !breakdown[0].Income.Equal(amount("6000")) || !breakdown[0].Expense.IsZero() || breakdown[0].Count != 2 {
		t.Fatalf("salary bucket = %+v, want income 6000 expense 0 count 2", breakdown[0])
	}

	var uncategorized *CategoryDetail
	for i := range breakdown {
		if breakdown[i].Category == utils.CategoryUncategorized {
			uncategorized = &breakdown[i]
		}
	}
	if uncategorized == nil || !uncategorized.Total.Equal(amount("150")) || uncategorized.Count != 1 {
		t.Fatalf("uncategorized bucket = %+v", uncategorized)
	}
	if !uncategorized.Expense.Equal(amount("150")) || !uncategorized.Income.IsZero() {
		t.Fatalf("uncategorized split = %+v, want expense 150 income 0", uncategorized)
	}
}

func TestBuildMonthlyData_KeepsMostRecentMonths(t *testing.T) {
	var ledger []*models.Transaction
	for m := 1; m <= 9; m++ {
		ledger = append(ledger, &models.Transaction{
			Type:   models.TransactionTypeExpense,
			Amount: amount("10"),
			Date:   time.Date(2026, time.Month(m), 15, 0, 0, 0, 0, time.UTC),
		})
	}

	months := BuildMonthlyData(ledger, 6)
	if len(months) != 6 {
		t.Fatalf("months = %d, want 6", len(months))
	}
	if months[0].Month != "2026-04" || months[5].Month != "2026-09" {
		t.Fatalf("window = %s..%s, want 2026-04..2026-09", months[0].Month, months[5].Month)
	}
}

func TestBuildBalanceEvolution(t *testing.T) {
	evolution := BuildBalanceEvolution(sampleLedger(), 6)

	points := evolution.Evolution
	if len(points) != 5 {
		t.Fatalf("evolution points = %d, want 5", len(points))
	}
	last := points[len(points)-1]
	if last.Date != "2026-07-10" || !last.Balance.Equal(amount("4850")) {
		t.Fatalf("final point = %+v", last)
	}

	// Running balance is cumulative in date order regardless of input order.
	if !points[0].Balance.Equal(amount("3000")) {
		t.Fatalf("first point = %+v", points[0])
	}
}

func TestBuildBalanceEvolution_Empty(t *testing.T) {
	evolution := BuildBalanceEvolution(nil, 0)
	if evolution.Evolution == nil || len(evolution.Evolution) != 0 {
		t.Fatalf("empty evolution = %+v", evolution.Evolution)
	}
}

func TestBuildTopExpenseCategories(t *testing.T) {
	top := BuildTopExpenseCategories(sampleLedger(), 2)
	if len(top) != 2 {
		t.Fatalf("top categories = %d, want 2", len(top))
	}
	if top[0].Category != utils.CategoryFixedExpenses || !top[0].Total.Equal(amount("800")) {
		t.Fatalf("top expense = %+v", top[0])
	}
	for _, detail := range top {
		if detail.Category == utils.CategorySalary {
			t.Fatal("income categories must not appear in expense ranking")
		}
	}
}

func TestBuildRecentTransactions(t *testing.T) {
	recent := BuildRecentTransactions(sampleLedger(), 3)
	if len(recent) != 3 {
		t.Fatalf("recent = %d, want 3", len(recent))
	}
	if recent[0].ID != 5 {
		t.Fatalf("newest first: got id %d, want 5", recent[0].ID)
	}
	if !recent[0].Date.After(recent[1].Date) && !recent[0].Date.Equal(recent[1].Date) {
		t.Fatal("recent transactions must be sorted newest first")
	}
}

func TestBuildPeriodStats(t *testing.T) {
	start := day("2026-07-01")
	end := day("2026-07-31")
	stats := BuildPeriodStats(sampleLedger(), "month", start, end)

	if stats.TransactionCount != 3 {
		t.Fatalf("count = %d, want 3", stats.TransactionCount)
	}
	if !stats.TotalIncome.Equal(amount("3000")) || !stats.TotalExpense.Equal(amount("350")) {
		t.Fatalf("stats = %+v", stats)
	}
	if !stats.Net.Equal(amount("2650")) {
		t.Fatalf("net = %s, want 2650", stats.Net)
	}
	// (3000 + 200 + 150) / 3
	if !stats.AverageTransaction.Equal(amount("1116.6667")) {
		t.Fatalf("average = %s, want 1116.6667", stats.AverageTransaction)
	}
}

func TestBuildPeriodStats_EmptyWindow(t *testing.T) {
	stats := BuildPeriodStats(sampleLedger(), "month", day("2020-01-01"), day("2020-01-31"))
	if stats.TransactionCount != 0 || !stats.AverageTransaction.IsZero() {
		t.Fatalf("empty window stats = %+v", stats)
	}
}
