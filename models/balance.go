package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Balance is the cached per-account balance, maintained by the balance
// calculator after every transaction mutation.
type Balance struct {
	ID                int             `gorm:"primary_key" json:"id"`
	UserId            int             `gorm:"uniqueIndex:idx_balance_user_account;not null" json:"user_id"`
	AccountId         int             `gorm:"uniqueIndex:idx_balance_user_account;not null" json:"account_id"`
	CurrentBalance    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_balance"`
	LastCalculatedAt  time.Time       `json:"last_calculated_at"`
	LastTransactionId *int            `json:"last_transaction_id"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertBalance stores a freshly computed balance for an account.
func UpsertBalance(ctx context.Context, db *gorm.DB, userId int, accountId int, amount decimal.Decimal, lastTransactionId *int) (*Balance, error) {
	balance := Balance{
		UserId:            userId,
		AccountId:         accountId,
		CurrentBalance:    amount,
		LastCalculatedAt:  time.Now(),
		LastTransactionId: lastTransactionId,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_balance", "last_calculated_at", "last_transaction_id", "updated_at"}),
	}).Create(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetCachedBalance returns the stored balance row for an account, or
// utils.ErrorRecordNotFound when none has been computed yet.
func GetCachedBalance(ctx context.Context, db *gorm.DB, userId int, accountId int) (*Balance, error) {
	var balance Balance
	err := db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userId, accountId).
		Take(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// ComputeAccountBalance folds all of the user's transactions into the current
// balance of one account.
func ComputeAccountBalance(ctx context.Context, db *gorm.DB, userId int, accountId int) (decimal.Decimal, error) {
	transactions, err := GetTransactionsForUser(ctx, db, userId)
	if err != nil {
		return decimal.Zero, err
	}
	return FoldBalance(transactions, accountId), nil
}

// GetAccountBalance serves the read path: the cached row when present,
// otherwise a fresh fold persisted before returning.
func GetAccountBalance(ctx context.Context, accountId int) (*Balance, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	if _, err := GetAccountById(ctx, accountId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	cached, err := GetCachedBalance(ctx, db, userId, accountId)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, err
	}

	amount, err := ComputeAccountBalance(ctx, db, userId, accountId)
	if err != nil {
		return nil, err
	}
	return UpsertBalance(ctx, db, userId, accountId, amount, nil)
}
