package models

import (
	"errors"
	"testing"

	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSignedAmount(t *testing.T) {
	income := &Transaction{Type: TransactionTypeIncome, Amount: amount("150.25")}
	if !income.SignedAmount().Equal(amount("150.25")) {
		t.Fatalf("income signed amount = %s", income.SignedAmount())
	}

	expense := &Transaction{Type: TransactionTypeExpense, Amount: amount("40.75")}
	if !expense.SignedAmount().Equal(amount("-40.75")) {
		t.Fatalf("expense signed amount = %s", expense.SignedAmount())
	}
}

func TestFoldBalance(t *testing.T) {
	transactions := []*Transaction{
		{AccountId: 1, Type: TransactionTypeIncome, Amount: amount("1000")},
		{AccountId: 1, Type: TransactionTypeExpense, Amount: amount("250.50")},
		{AccountId: 2, Type: TransactionTypeIncome, Amount: amount("9999")},
		{AccountId: 0, Type: TransactionTypeIncome, Amount: amount("77")},
	}

	got := FoldBalance(transactions, 1)
	if !got.Equal(amount("749.50")) {
		t.Fatalf("balance for account 1 = %s, want 749.50", got)
	}

	// Unlinked transactions (account id zero) never contribute.
	if got := FoldBalance(transactions, 0); !got.IsZero() {
		t.Fatalf("balance for account 0 = %s, want 0", got)
	}

	if got := FoldBalance(nil, 1); !got.IsZero() {
		t.Fatalf("balance of empty ledger = %s, want 0", got)
	}
}

func TestFoldBalance_CreateThenDeleteIsZero(t *testing.T) {
	ledger := []*Transaction{
		{ID: 1, AccountId: 3, Type: TransactionTypeIncome, Amount: amount("500")},
		{ID: 2, AccountId: 3, Type: TransactionTypeExpense, Amount: amount("120")},
	}
	if got := FoldBalance(ledger, 3); !got.Equal(amount("380")) {
		t.Fatalf("balance = %s, want 380", got)
	}

	// Physical delete removes the rows from the fold input entirely.
	if got := FoldBalance(nil, 3); !got.IsZero() {
		t.Fatalf("balance after deleting everything = %s, want 0", got)
	}
}

func TestStatementOptionsNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      StatementOptions
		want    StatementOptions
		wantErr error
	}{
		{
			name: "defaults",
			in:   StatementOptions{},
			want: StatementOptions{Page: 1, Limit: 10, Sort: "date", Order: "desc"},
		},
		{
			name: "explicit values kept",
			in:   StatementOptions{Page: 3, Limit: 25, Sort: "amount", Order: "asc"},
			want: StatementOptions{Page: 3, Limit: 25, Sort: "amount", Order: "asc"},
		},
		{
			name:    "page below one",
			in:      StatementOptions{Page: -1, Limit: 10},
			wantErr: utils.ErrorInvalidPagination,
		},
		{
			name:    "limit above cap",
			in:      StatementOptions{Page: 1, Limit: 101},
			wantErr: utils.ErrorInvalidPagination,
		},
		{
			name:    "limit below one",
			in:      StatementOptions{Page: 1, Limit: -5},
			wantErr: utils.ErrorInvalidPagination,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.in
			err := opts.Normalize()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts != tc.want {
				t.Fatalf("normalized = %+v, want %+v", opts, tc.want)
			}
		})
	}
}

func TestStatementOptionsNormalize_RejectsUnknownSortAndOrder(t *testing.T) {
	opts := StatementOptions{Sort: "user_id"}
	var validationErr *utils.ValidationError
	if err := opts.Normalize(); !errors.As(err, &validationErr) {
		t.Fatalf("sort=user_id err = %v, want validation error", err)
	}

	opts = StatementOptions{Order: "sideways"}
	if err := opts.Normalize(); !errors.As(err, &validationErr) {
		t.Fatalf("order=sideways err = %v, want validation error", err)
	}
}

func TestUpdateInputApply(t *testing.T) {
	existing := &Transaction{
		ID:          7,
		UserId:      1,
		AccountId:   1,
		Type:        TransactionTypeExpense,
		Amount:      amount("50"),
		Description: "Supermercado",
		Category:    utils.CategoryFood,
		Tags:        []string{"food"},
	}
	date := existing.Date

	newAccount := 2
	newAmount := amount("75")
	input := &UpdateTransactionInput{
		AccountId: &newAccount,
		Amount:    &newAmount,
		Tags:      []string{"food", "weekly", "food"},
	}
	input.apply(existing)

	if existing.AccountId != 2 {
		t.Fatalf("account id = %d, want 2", existing.AccountId)
	}
	if !existing.Amount.Equal(amount("75")) {
		t.Fatalf("amount = %s, want 75", existing.Amount)
	}
	if existing.Category != utils.CategoryFood {
		t.Fatalf("category changed to %q without a description or type change", existing.Category)
	}
	if existing.Date != date {
		t.Fatal("update must not change the stored date")
	}
	if len(existing.Tags) != 2 {
		t.Fatalf("tags = %v, want duplicates removed", existing.Tags)
	}
}

func TestUpdateInputApply_RedetectsCategory(t *testing.T) {
	existing := &Transaction{
		Type:        TransactionTypeExpense,
		Description: "Supermercado",
		Category:    utils.CategoryFood,
	}

	description := "Uber para o aeroporto"
	input := &UpdateTransactionInput{Description: &description}
	input.apply(existing)
	if existing.Category != utils.CategoryTransport {
		t.Fatalf("category = %q, want %q after description change", existing.Category, utils.CategoryTransport)
	}

	explicit := "Custom"
	input = &UpdateTransactionInput{Description: &description, Category: &explicit}
	input.apply(existing)
	if existing.Category != "Custom" {
		t.Fatalf("explicit category = %q, want Custom", existing.Category)
	}
}
