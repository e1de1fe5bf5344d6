package workflow

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mmfintech/bytebank_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BalanceStore is the persistence surface the calculator needs. Tests swap
// in an in-memory implementation.
type BalanceStore interface {
	TransactionsForUser(ctx context.Context, userId int) ([]*models.Transaction, error)
	AccountIdsForUser(ctx context.Context, userId int) ([]int, error)
	SaveBalance(ctx context.Context, userId int, accountId int, amount decimal.Decimal, lastTransactionId *int) error
	UserIds(ctx context.Context) ([]int, error)
}

type gormBalanceStore struct {
	db *gorm.DB
}

func (s *gormBalanceStore) TransactionsForUser(ctx context.Context, userId int) ([]*models.Transaction, error) {
	return models.GetTransactionsForUser(ctx, s.db, userId)
}

func (s *gormBalanceStore) AccountIdsForUser(ctx context.Context, userId int) ([]int, error) {
	return models.GetAccountIdsForUser(ctx, s.db, userId)
}

func (s *gormBalanceStore) SaveBalance(ctx context.Context, userId int, accountId int, amount decimal.Decimal, lastTransactionId *int) error {
	_, err := models.UpsertBalance(ctx, s.db, userId, accountId, amount, lastTransactionId)
	return err
}

func (s *gormBalanceStore) UserIds(ctx context.Context) ([]int, error) {
	var ids []int
	err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error
	return ids, err
}

type recalcJob struct {
	UserId            int
	AccountId         int
	LastTransactionId *int
}

// BalanceCalculator keeps cached account balances in sync with the
// transaction ledger. Single-account recalculations run off a bounded queue
// so transaction writes never wait on a fold; full recalculations are
// guarded so only one runs at a time process-wide.
type BalanceCalculator struct {
	Store  BalanceStore
	Logger *logrus.Logger

	PollInterval time.Duration

	queue          chan recalcJob
	fullRecalcBusy int32
}

func NewBalanceCalculator(db *gorm.DB, logger *logrus.Logger) *BalanceCalculator {
	return NewBalanceCalculatorWithStore(&gormBalanceStore{db: db}, logger)
}

func NewBalanceCalculatorWithStore(store BalanceStore, logger *logrus.Logger) *BalanceCalculator {
	return &BalanceCalculator{
		Store:        store,
		Logger:       logger,
		PollInterval: time.Hour,
		queue:        make(chan recalcJob, 256),
	}
}

// Run consumes queued recalculations until the context is cancelled.
func (c *BalanceCalculator) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-c.queue:
			c.recalcAccount(ctx, job)
		}
	}
}

// RunPeriodic refreshes every user's balances on a fixed interval.
func (c *BalanceCalculator) RunPeriodic(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RecalculateAllUsers(ctx)
		}
	}
}

// EnqueueRecalc schedules a background recalculation of one account after a
// transaction mutation. When the queue is full the fold runs on its own
// goroutine instead of blocking the request path.
func (c *BalanceCalculator) EnqueueRecalc(userId int, accountId int, lastTransactionId *int) {
	if accountId == 0 {
		return
	}
	job := recalcJob{UserId: userId, AccountId: accountId, LastTransactionId: lastTransactionId}
	select {
	case c.queue <- job:
	default:
		go c.recalcAccount(context.Background(), job)
	}
}

// RecalcNow recalculates one account synchronously.
func (c *BalanceCalculator) RecalcNow(ctx context.Context, userId int, accountId int, lastTransactionId *int) error {
	transactions, err := c.Store.TransactionsForUser(ctx, userId)
	if err != nil {
		return err
	}
	balance := models.FoldBalance(transactions, accountId)
	return c.Store.SaveBalance(ctx, userId, accountId, balance, lastTransactionId)
}

// recalcAccount is the background path. Errors are logged and swallowed so a
// failed fold never surfaces on the request that triggered it; the next
// mutation or periodic pass repairs the cache.
func (c *BalanceCalculator) recalcAccount(ctx context.Context, job recalcJob) {
	if err := c.RecalcNow(ctx, job.UserId, job.AccountId, job.LastTransactionId); err != nil {
		if c.Logger != nil {
			c.Logger.WithFields(logrus.Fields{
				"field":      "BalanceCalculator",
				"user_id":    job.UserId,
				"account_id": job.AccountId,
			}).Error("balance recalculation failed: " + err.Error())
		}
	}
}

// RecalculateAllBalances refolds every account of one user. Only one full
// recalculation runs at a time in the process; concurrent calls return
// false without doing any work.
func (c *BalanceCalculator) RecalculateAllBalances(ctx context.Context, userId int) (bool, error) {
	if !atomic.CompareAndSwapInt32(&c.fullRecalcBusy, 0, 1) {
		return false, nil
	}
	defer atomic.StoreInt32(&c.fullRecalcBusy, 0)

	accountIds, err := c.Store.AccountIdsForUser(ctx, userId)
	if err != nil {
		return true, err
	}
	transactions, err := c.Store.TransactionsForUser(ctx, userId)
	if err != nil {
		return true, err
	}
	for _, accountId := range accountIds {
		balance := models.FoldBalance(transactions, accountId)
		if err := c.Store.SaveBalance(ctx, userId, accountId, balance, nil); err != nil {
			return true, err
		}
	}
	return true, nil
}

// RecalculateAllUsers walks every user and refreshes their balances. Errors
// are per-user: one failing user does not stop the sweep.
func (c *BalanceCalculator) RecalculateAllUsers(ctx context.Context) {
	userIds, err := c.Store.UserIds(ctx)
	if err != nil {
		if c.Logger != nil {
			c.Logger.WithFields(logrus.Fields{
				"field": "BalanceCalculator",
			}).Error("periodic recalculation failed to list users: " + err.Error())
		}
		return
	}
	for _, userId := range userIds {
		if _, err := c.RecalculateAllBalances(ctx, userId); err != nil {
			if c.Logger != nil {
				c.Logger.WithFields(logrus.Fields{
					"field":   "BalanceCalculator",
					"user_id": userId,
				}).Error("periodic recalculation failed: " + err.Error())
			}
		}
	}
}
