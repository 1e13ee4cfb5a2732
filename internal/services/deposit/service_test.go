package deposit

import (
	"context"
	"sync"
	"testing"
	"time"

	"pulsa/internal/models"
	"pulsa/internal/repositories"
	"pulsa/internal/services/gateway"
	"pulsa/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(id)
}

func (r *fakeUserRepo) GetByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByIDForUpdate(id uint) (*models.User, error) {
	return r.lookup(id)
}

func (r *fakeUserRepo) UpdateBalance(id uint, balance decimal.Decimal, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Balance = balance
	u.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) ExecuteInTransaction(fn func(tx repositories.UserRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

func (r *fakeUserRepo) lookup(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) balance(id uint) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].Balance
}

type fakeLedger struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Transaction
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[uint]*models.Transaction)}
}

func (l *fakeLedger) Create(tx *models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	tx.ID = l.nextID
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	copy := *tx
	l.rows[tx.ID] = &copy
	return nil
}

func (l *fakeLedger) Update(tx *models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx.UpdatedAt = time.Now()
	copy := *tx
	l.rows[tx.ID] = &copy
	return nil
}

func (l *fakeLedger) GetByID(id uint) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, ok := l.rows[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copy := *tx
	return &copy, nil
}

func (l *fakeLedger) ListByUser(context.Context, uint, int, int) ([]models.Transaction, error) {
	return nil, nil
}

func (l *fakeLedger) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

func (l *fakeLedger) sumCompleted(kind models.TransactionKind) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := decimal.Zero
	for _, tx := range l.rows {
		if tx.Kind == kind && tx.Status == models.StatusCompleted {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

type fakeCache struct{}

func (fakeCache) Get(context.Context, string, interface{}) error { return assert.AnError }
func (fakeCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (fakeCache) GetDecimal(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, assert.AnError
}
func (fakeCache) SetDecimal(context.Context, string, decimal.Decimal, time.Duration) error {
	return nil
}
func (fakeCache) Delete(context.Context, string) error     { return nil }
func (fakeCache) DeleteMany(context.Context, string) error { return nil }

// stubPayments is a deterministic PaymentMethodGateway.
type stubPayments struct {
	charge func(ctx context.Context, userID uint, amount decimal.Decimal) (gateway.Charge, error)
}

func (s *stubPayments) Charge(ctx context.Context, userID uint, amount decimal.Decimal) (gateway.Charge, error) {
	return s.charge(ctx, userID, amount)
}

func approving(ref string) *stubPayments {
	return &stubPayments{charge: func(context.Context, uint, decimal.Decimal) (gateway.Charge, error) {
		return gateway.Charge{Success: true, Reference: ref}, nil
	}}
}

func declining() *stubPayments {
	return &stubPayments{charge: func(context.Context, uint, decimal.Decimal) (gateway.Charge, error) {
		return gateway.Charge{Success: false}, nil
	}}
}

type harness struct {
	users  *fakeUserRepo
	ledger *fakeLedger
	wallet wallet.Service
	svc    Service
}

func newHarness(t *testing.T, payments gateway.PaymentMethodGateway, cfg Config, users ...*models.User) *harness {
	t.Helper()
	userRepo := newFakeUserRepo(users...)
	ledger := newFakeLedger()
	walletSvc := wallet.NewService(userRepo, fakeCache{}, wallet.Config{}, nil)
	svc := NewService(userRepo, ledger, walletSvc, payments, cfg)
	return &harness{users: userRepo, ledger: ledger, wallet: walletSvc, svc: svc}
}

// --- tests ---

func TestDeposit(t *testing.T) {
	t.Run("charged deposit credits the wallet", func(t *testing.T) {
		h := newHarness(t, approving("ch_1"), Config{Refs: func() string { return "dep-1" }},
			&models.User{ID: 1, Balance: decimal.NewFromInt(300)})

		tx, err := h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(200), models.MethodExternalGateway)
		require.NoError(t, err)

		assert.Equal(t, models.StatusCompleted, tx.Status)
		assert.Equal(t, models.KindDeposit, tx.Kind)
		assert.Equal(t, "dep-1", tx.ExternalPaymentReference)
		assert.Equal(t, "ch_1", tx.GatewayReference)
		assert.True(t, h.users.balance(1).Equal(decimal.NewFromInt(500)),
			"balance must reflect the deposit once completed")
	})

	t.Run("declined charge finalizes failed without credit", func(t *testing.T) {
		h := newHarness(t, declining(), Config{}, &models.User{ID: 1, Balance: decimal.NewFromInt(300)})

		tx, err := h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(200), models.MethodExternalGateway)
		require.NoError(t, err)

		assert.Equal(t, models.StatusFailed, tx.Status)
		assert.True(t, h.users.balance(1).Equal(decimal.NewFromInt(300)))
	})

	t.Run("gateway timeout finalizes failed", func(t *testing.T) {
		slow := &stubPayments{charge: func(ctx context.Context, _ uint, _ decimal.Decimal) (gateway.Charge, error) {
			<-ctx.Done()
			return gateway.Charge{}, ctx.Err()
		}}
		h := newHarness(t, slow, Config{GatewayTimeout: 20 * time.Millisecond},
			&models.User{ID: 1, Balance: decimal.NewFromInt(300)})

		tx, err := h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(200), models.MethodExternalGateway)
		require.NoError(t, err)

		assert.Equal(t, models.StatusFailed, tx.Status)
		assert.True(t, h.users.balance(1).Equal(decimal.NewFromInt(300)))
	})

	t.Run("invalid amount creates no ledger row", func(t *testing.T) {
		h := newHarness(t, approving("x"), Config{}, &models.User{ID: 1})

		_, err := h.svc.Deposit(context.Background(), 1, decimal.Zero, models.MethodExternalGateway)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(-5), models.MethodExternalGateway)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Zero(t, h.ledger.total())
	})

	t.Run("unknown user creates no ledger row", func(t *testing.T) {
		h := newHarness(t, approving("x"), Config{})

		_, err := h.svc.Deposit(context.Background(), 9, decimal.NewFromInt(10), models.MethodExternalGateway)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Zero(t, h.ledger.total())
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("debits the wallet", func(t *testing.T) {
		h := newHarness(t, approving("x"), Config{}, &models.User{ID: 1, Balance: decimal.NewFromInt(500)})

		tx, err := h.svc.Withdraw(context.Background(), 1, decimal.NewFromInt(150), models.MethodExternalGateway)
		require.NoError(t, err)

		assert.Equal(t, models.StatusCompleted, tx.Status)
		assert.Equal(t, models.KindWithdrawal, tx.Kind)
		assert.True(t, h.users.balance(1).Equal(decimal.NewFromInt(350)))
	})

	t.Run("insufficient balance creates no ledger row", func(t *testing.T) {
		h := newHarness(t, approving("x"), Config{}, &models.User{ID: 1, Balance: decimal.NewFromInt(100)})

		_, err := h.svc.Withdraw(context.Background(), 1, decimal.NewFromInt(101), models.MethodExternalGateway)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Zero(t, h.ledger.total())
		assert.True(t, h.users.balance(1).Equal(decimal.NewFromInt(100)))
	})
}

// Depositing A and reading the balance back must show old_balance + A as
// soon as the transaction is completed.
func TestDepositRoundTrip(t *testing.T) {
	h := newHarness(t, approving("ch"), Config{}, &models.User{ID: 1, Balance: decimal.NewFromInt(1234)})

	tx, err := h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(766), models.MethodExternalGateway)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, tx.Status)

	balance, err := h.wallet.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2000)))
}

// The ledger reconciles the balance exactly: completed deposits minus
// completed withdrawals equals the observed balance delta.
func TestLedgerReconciliation(t *testing.T) {
	h := newHarness(t, approving("ch"), Config{}, &models.User{ID: 1, Balance: decimal.NewFromInt(10000)})
	initial := decimal.NewFromInt(10000)

	deposits := []int64{500, 1200, 42}
	for _, a := range deposits {
		_, err := h.svc.Deposit(context.Background(), 1, decimal.NewFromInt(a), models.MethodExternalGateway)
		require.NoError(t, err)
	}
	withdrawals := []int64{300, 7}
	for _, a := range withdrawals {
		_, err := h.svc.Withdraw(context.Background(), 1, decimal.NewFromInt(a), models.MethodExternalGateway)
		require.NoError(t, err)
	}

	final := h.users.balance(1)
	depositSum := h.ledger.sumCompleted(models.KindDeposit)
	withdrawalSum := h.ledger.sumCompleted(models.KindWithdrawal)

	assert.True(t, final.Sub(initial).Equal(depositSum.Sub(withdrawalSum)),
		"balance delta %s must equal deposits %s minus withdrawals %s", final.Sub(initial), depositSum, withdrawalSum)
}
