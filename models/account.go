package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountTypeDebit      AccountType = "Debit"
	AccountTypeCredit     AccountType = "Credit"
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeInvestment AccountType = "Investment"
)

type Account struct {
	ID          int         `gorm:"primary_key" json:"id"`
	UserId      int         `gorm:"index;not null" json:"user_id"`
	Type        AccountType `gorm:"type:enum('Debit', 'Credit', 'Savings', 'Investment');default:'Debit';size:20;not null" json:"type"`
	Name        string      `gorm:"size:100;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Type           AccountType     `json:"type" binding:"required,oneof=Debit Credit Savings Investment"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// CreateAccount creates an account for the session user. A positive initial
// balance is recorded as a regular opening income transaction so the ledger
// stays the single source of truth.
func CreateAccount(ctx context.Context, input *NewAccount) (*Account, *Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, nil, utils.ErrorUnauthorized
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("%s Account", input.Type)
	}
	description := input.Description
	if description == "" {
		description = fmt.Sprintf("%s account", input.Type)
	}

	account := Account{
		UserId:      userId,
		Type:        input.Type,
		Name:        name,
		Description: description,
	}

	var opening *Transaction
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		if input.InitialBalance.IsPositive() {
			opening = &Transaction{
				UserId:      userId,
				AccountId:   account.ID,
				Type:        TransactionTypeIncome,
				Amount:      input.InitialBalance,
				Description: fmt.Sprintf("Opening balance for %s", name),
				Category:    utils.CategoryOpeningBalance,
				Account:     name,
				Notes:       "Account opening transaction",
				Tags:        []string{"opening-balance", "account-opening"},
				Date:        time.Now(),
			}
			if err := tx.Create(opening).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &account, opening, nil
}

func GetAccounts(ctx context.Context) ([]*Account, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	db := config.GetDB()
	var results []*Account
	if err := db.WithContext(ctx).Where("user_id = ?", userId).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetAccountById(ctx context.Context, accountId int) (*Account, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	db := config.GetDB()
	var result Account
	if err := db.WithContext(ctx).Where("id = ? AND user_id = ?", accountId, userId).Take(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetAccountIdsForUser lists the account ids owned by a user. Used by the
// balance calculator which runs outside a request context.
func GetAccountIdsForUser(ctx context.Context, db *gorm.DB, userId int) ([]int, error) {
	var ids []int
	if err := db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ?", userId).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
