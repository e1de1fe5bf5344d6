package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type Transaction struct {
	ID          int             `gorm:"primary_key" json:"id"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	AccountId   int             `gorm:"index" json:"account_id"`
	Type        TransactionType `gorm:"type:enum('income', 'expense');not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"index;size:100" json:"category"`
	Account     string          `gorm:"size:100" json:"account"`
	Notes       string          `gorm:"type:text" json:"notes"`
	Tags        []string        `gorm:"serializer:json" json:"tags"`
	// Legacy client fields. Value always mirrors Amount.
	From  string          `gorm:"size:100" json:"from"`
	To    string          `gorm:"size:100" json:"to"`
	Value decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"value"`
	Attachment  *Attachment     `gorm:"embedded;embeddedPrefix:attachment_" json:"attachment,omitempty"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTransaction struct {
	AccountId   int             `json:"accountId"`
	Type        TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	Notes       string          `json:"notes"`
	Tags        []string        `json:"tags"`
	From        string          `json:"from"`
	To          string          `json:"to"`
}

// UpdateTransactionInput carries the updatable fields. Nil means keep the
// current value. The transaction date is never changed by an update.
type UpdateTransactionInput struct {
	AccountId   *int             `json:"accountId"`
	Type        *TransactionType `json:"type" binding:"omitempty,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Account     *string          `json:"account"`
	Notes       *string          `json:"notes"`
	Tags        []string         `json:"tags"`
	From        *string          `json:"from"`
	To          *string          `json:"to"`
}

// apply copies the provided fields onto the existing record. The category is
// re-detected when the description or type changes without an explicit
// category. The stored date is never touched.
func (input *UpdateTransactionInput) apply(existing *Transaction) {
	if input.AccountId != nil {
		existing.AccountId = *input.AccountId
	}
	if input.Type != nil {
		existing.Type = *input.Type
	}
	if input.Amount != nil {
		existing.Amount = *input.Amount
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Account != nil {
		existing.Account = *input.Account
	}
	if input.Notes != nil {
		existing.Notes = *input.Notes
	}
	if input.Tags != nil {
		existing.Tags = utils.UniqueSlice(input.Tags)
	}
	if input.From != nil {
		existing.From = *input.From
	}
	if input.To != nil {
		existing.To = *input.To
	}
	if input.Category != nil && *input.Category != "" {
		existing.Category = *input.Category
	} else if input.Description != nil || input.Type != nil {
		existing.Category = utils.DetectCategory(existing.Description, string(existing.Type))
	}
}

// BeforeSave keeps the legacy value column in sync with the amount.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Value = t.Amount
	return nil
}

// SignedAmount is the transaction's contribution to an account balance:
// income adds, expense subtracts.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// FoldBalance computes an account balance from a user's transactions.
// Only transactions linked to the given account contribute.
func FoldBalance(transactions []*Transaction, accountId int) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		if t.AccountId == 0 || t.AccountId != accountId {
			continue
		}
		balance = balance.Add(t.SignedAmount())
	}
	return balance
}

var statementSortColumns = map[string]bool{
	"date":        true,
	"amount":      true,
	"description": true,
	"type":        true,
	"category":    true,
}

type StatementOptions struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

// Normalize applies defaults and validates page/limit/sort/order.
func (o *StatementOptions) Normalize() error {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Limit == 0 {
		o.Limit = 10
	}
	if o.Page < 1 || o.Limit < 1 || o.Limit > 100 {
		return utils.ErrorInvalidPagination
	}
	if o.Sort == "" {
		o.Sort = "date"
	}
	if !statementSortColumns[o.Sort] {
		return utils.NewValidationError(map[string]string{"sort": "must be one of date, amount, description, type, category"})
	}
	if o.Order == "" {
		o.Order = "desc"
	}
	if o.Order != "asc" && o.Order != "desc" {
		return utils.NewValidationError(map[string]string{"order": "must be asc or desc"})
	}
	return nil
}

func CreateTransaction(ctx context.Context, input *NewTransaction) (*Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if input.AccountId != 0 {
		if _, err := GetAccountById(ctx, input.AccountId); err != nil {
			return nil, err
		}
	}

	category := input.Category
	if category == "" {
		category = utils.DetectCategory(input.Description, string(input.Type))
	}

	transaction := Transaction{
		UserId:      userId,
		AccountId:   input.AccountId,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    category,
		Account:     input.Account,
		Notes:       input.Notes,
		Tags:        utils.UniqueSlice(input.Tags),
		From:        input.From,
		To:          input.To,
		Date:        time.Now(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// GetStatement returns one page of the user's transactions for an account.
func GetStatement(ctx context.Context, accountId int, opts StatementOptions) ([]*Transaction, *Pagination, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, nil, utils.ErrorUnauthorized
	}
	if err := opts.Normalize(); err != nil {
		return nil, nil, err
	}
	if _, err := GetAccountById(ctx, accountId); err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND account_id = ?", userId, accountId)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var results []*Transaction
	if err := query.
		Order(opts.Sort + " " + opts.Order).
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&results).Error; err != nil {
		return nil, nil, err
	}

	return results, NewPagination(opts.Page, opts.Limit, total), nil
}

// GetTransactionsByCategory returns one page of the user's transactions in a
// category, across all accounts. Not found when the category has no rows.
func GetTransactionsByCategory(ctx context.Context, category string, opts StatementOptions) ([]*Transaction, *Pagination, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, nil, utils.ErrorUnauthorized
	}
	if err := opts.Normalize(); err != nil {
		return nil, nil, err
	}

	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND category = ?", userId, category)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	if total == 0 {
		return nil, nil, utils.ErrorRecordNotFound
	}

	var results []*Transaction
	if err := query.
		Order(opts.Sort + " " + opts.Order).
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&results).Error; err != nil {
		return nil, nil, err
	}

	return results, NewPagination(opts.Page, opts.Limit, total), nil
}

func GetTransaction(ctx context.Context, transactionId int) (*Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	db := config.GetDB()
	var result Transaction
	if err := db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionId, userId).Take(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// UpdateTransaction applies the provided fields and returns the updated
// record together with the account id it was linked to before the update,
// so callers can refresh both balances when the transaction moved.
func UpdateTransaction(ctx context.Context, transactionId int, input *UpdateTransactionInput) (*Transaction, int, error) {
	existing, err := GetTransaction(ctx, transactionId)
	if err != nil {
		return nil, 0, err
	}
	previousAccountId := existing.AccountId

	if input.AccountId != nil && *input.AccountId != 0 {
		if _, err := GetAccountById(ctx, *input.AccountId); err != nil {
			return nil, 0, err
		}
	}
	input.apply(existing)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, 0, err
	}
	return existing, previousAccountId, nil
}

func DeleteTransaction(ctx context.Context, transactionId int) (*Transaction, error) {
	existing, err := GetTransaction(ctx, transactionId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Transaction{}, existing.ID).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// GetTransactionsForUser loads all of a user's transactions, oldest first.
// This is the input for balance folds and dashboard aggregations.
func GetTransactionsForUser(ctx context.Context, db *gorm.DB, userId int) ([]*Transaction, error) {
	var results []*Transaction
	if err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("date ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
