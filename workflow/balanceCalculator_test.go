package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmfintech/bytebank_backend/models"
	"github.com/shopspring/decimal"
)

// fakeBalanceStore keeps the ledger and computed balances in memory so the
// calculator's scheduling semantics can be tested without a database.
type fakeBalanceStore struct {
	mu           sync.Mutex
	transactions map[int][]*models.Transaction
	accounts     map[int][]int
	balances     map[[2]int]decimal.Decimal
	saves        int

	enterFetch chan struct{}
	blockFetch chan struct{}
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{
		transactions: map[int][]*models.Transaction{},
		accounts:     map[int][]int{},
		balances:     map[[2]int]decimal.Decimal{},
	}
}

func (s *fakeBalanceStore) TransactionsForUser(ctx context.Context, userId int) ([]*models.Transaction, error) {
	if s.enterFetch != nil {
		s.enterFetch <- struct{}{}
		<-s.blockFetch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[userId], nil
}

func (s *fakeBalanceStore) AccountIdsForUser(ctx context.Context, userId int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userId], nil
}

func (s *fakeBalanceStore) SaveBalance(ctx context.Context, userId int, accountId int, amount decimal.Decimal, lastTransactionId *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[[2]int{userId, accountId}] = amount
	s.saves++
	return nil
}

func (s *fakeBalanceStore) UserIds(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int
	for id := range s.accounts {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeBalanceStore) balance(userId, accountId int) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[[2]int{userId, accountId}]
}

func (s *fakeBalanceStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRecalcNow_FoldsLedgerIntoBalance(t *testing.T) {
	store := newFakeBalanceStore()
	store.accounts[1] = []int{10}
	store.transactions[1] = []*models.Transaction{
		{ID: 1, AccountId: 10, Type: models.TransactionTypeIncome, Amount: dec("1000")},
		{ID: 2, AccountId: 10, Type: models.TransactionTypeExpense, Amount: dec("300.25")},
		{ID: 3, AccountId: 99, Type: models.TransactionTypeIncome, Amount: dec("5000")},
	}

	c := NewBalanceCalculatorWithStore(store, nil)
	if err := c.RecalcNow(context.Background(), 1, 10, nil); err != nil {
		t.Fatalf("RecalcNow: %v", err)
	}

	if got := store.balance(1, 10); !got.Equal(dec("699.75")) {
		t.Fatalf("balance = %s, want 699.75", got)
	}
}

func TestRecalcNow_EmptyLedgerIsZero(t *testing.T) {
	store := newFakeBalanceStore()
	store.accounts[1] = []int{10}

	c := NewBalanceCalculatorWithStore(store, nil)
	if err := c.RecalcNow(context.Background(), 1, 10, nil); err != nil {
		t.Fatalf("RecalcNow: %v", err)
	}
	if got := store.balance(1, 10); !got.IsZero() {
		t.Fatalf("balance = %s, want 0", got)
	}
}

func TestEnqueueRecalc_ProcessedByWorker(t *testing.T) {
	store := newFakeBalanceStore()
	store.transactions[1] = []*models.Transaction{
		{ID: 1, AccountId: 10, Type: models.TransactionTypeIncome, Amount: dec("42")},
	}

	c := NewBalanceCalculatorWithStore(store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.EnqueueRecalc(1, 10, nil)

	deadline := time.After(2 * time.Second)
	for store.saveCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("queued recalculation was never processed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := store.balance(1, 10); !got.Equal(dec("42")) {
		t.Fatalf("balance = %s, want 42", got)
	}
}

func TestEnqueueRecalc_IgnoresUnlinkedTransactions(t *testing.T) {
	c := NewBalanceCalculatorWithStore(newFakeBalanceStore(), nil)
	// Must not push a job for account id zero.
	c.EnqueueRecalc(1, 0, nil)
	select {
	case job := <-c.queue:
		t.Fatalf("unexpected job queued: %+v", job)
	default:
	}
}

func TestRecalculateAllBalances_SecondConcurrentCallIsNoop(t *testing.T) {
	store := newFakeBalanceStore()
	store.accounts[1] = []int{10}
	store.accounts[2] = []int{20}
	store.enterFetch = make(chan struct{})
	store.blockFetch = make(chan struct{})

	c := NewBalanceCalculatorWithStore(store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.RecalculateAllBalances(context.Background(), 1)
		done <- err
	}()

	// Wait until the first run holds the guard inside the ledger fetch.
	<-store.enterFetch

	// A concurrent run reports not-ran without touching the store, even for
	// a different user.
	ran, err := c.RecalculateAllBalances(context.Background(), 2)
	if err != nil {
		t.Fatalf("concurrent call: %v", err)
	}
	if ran {
		t.Fatal("second concurrent full recalculation must be a no-op")
	}

	close(store.blockFetch)
	if err := <-done; err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Guard released: a later call runs again.
	store.enterFetch = nil
	ran, err = c.RecalculateAllBalances(context.Background(), 2)
	if err != nil || !ran {
		t.Fatalf("post-release call ran=%v err=%v", ran, err)
	}
}

func TestRecalculateAllBalances_RefoldsEveryAccount(t *testing.T) {
	store := newFakeBalanceStore()
	store.accounts[1] = []int{10, 11}
	store.transactions[1] = []*models.Transaction{
		{ID: 1, AccountId: 10, Type: models.TransactionTypeIncome, Amount: dec("100")},
		{ID: 2, AccountId: 11, Type: models.TransactionTypeExpense, Amount: dec("60")},
		{ID: 3, AccountId: 11, Type: models.TransactionTypeIncome, Amount: dec("200")},
	}

	c := NewBalanceCalculatorWithStore(store, nil)
	ran, err := c.RecalculateAllBalances(context.Background(), 1)
	if err != nil || !ran {
		t.Fatalf("ran=%v err=%v", ran, err)
	}

	if got := store.balance(1, 10); !got.Equal(dec("100")) {
		t.Fatalf("account 10 = %s, want 100", got)
	}
	if got := store.balance(1, 11); !got.Equal(dec("140")) {
		t.Fatalf("account 11 = %s, want 140", got)
	}
}

func TestRecalcNow_DeterministicUnderConcurrency(t *testing.T) {
	for run := 0; run < 100; run++ {
		store := newFakeBalanceStore()
		store.transactions[1] = []*models.Transaction{
			{ID: 1, AccountId: 10, Type: models.TransactionTypeIncome, Amount: dec("500")},
			{ID: 2, AccountId: 10, Type: models.TransactionTypeExpense, Amount: dec("125.50")},
		}
		c := NewBalanceCalculatorWithStore(store, nil)

		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.RecalcNow(context.Background(), 1, 10, nil)
			}()
		}
		wg.Wait()

		if got := store.balance(1, 10); !got.Equal(dec("374.50")) {
			t.Fatalf("run=%d balance = %s, want 374.50", run, got)
		}
	}
}
