package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pulsa/internal/models"
	"pulsa/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository. ExecuteInTransaction holds a
// single lock for the duration of the callback, which models the row lock
// the real implementation takes.
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

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
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

// fakeCache is a CacheRepository that never hits.
type fakeCache struct{}

func (fakeCache) Get(context.Context, string, interface{}) error { return errCacheMiss }
func (fakeCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (fakeCache) GetDecimal(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, errCacheMiss
}
func (fakeCache) SetDecimal(context.Context, string, decimal.Decimal, time.Duration) error {
	return nil
}
func (fakeCache) Delete(context.Context, string) error     { return nil }
func (fakeCache) DeleteMany(context.Context, string) error { return nil }

var errCacheMiss = assert.AnError

func newTestService(repo repositories.UserRepository) Service {
	return NewService(repo, fakeCache{}, Config{}, nil)
}

func TestCredit(t *testing.T) {
	t.Run("increases balance and returns it", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(500)})
		svc := newTestService(repo)

		got, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(250))
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(750)))
		assert.True(t, repo.balance(1).Equal(decimal.NewFromInt(750)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1})
		svc := newTestService(repo)

		_, err := svc.Credit(context.Background(), 1, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = svc.Credit(context.Background(), 1, decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		_, err := svc.Credit(context.Background(), 42, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("touches updated_at", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1})
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := NewService(repo, fakeCache{}, Config{Now: func() time.Time { return now }}, nil)

		_, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, now, repo.users[1].UpdatedAt)
	})
}

func TestDebit(t *testing.T) {
	t.Run("decreases balance and returns it", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(500)})
		svc := newTestService(repo)

		got, err := svc.Debit(context.Background(), 1, decimal.NewFromInt(200))
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(300)))
	})

	t.Run("insufficient balance leaves balance untouched", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(99)})
		svc := newTestService(repo)

		_, err := svc.Debit(context.Background(), 1, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.True(t, repo.balance(1).Equal(decimal.NewFromInt(99)))
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(100)})
		svc := newTestService(repo)

		got, err := svc.Debit(context.Background(), 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		_, err := svc.Debit(context.Background(), 42, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestValidateBalance(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(50)})
	svc := newTestService(repo)

	assert.NoError(t, svc.ValidateBalance(context.Background(), 1, decimal.NewFromInt(50)))
	assert.ErrorIs(t, svc.ValidateBalance(context.Background(), 1, decimal.NewFromInt(51)), ErrInsufficientBalance)
	assert.ErrorIs(t, svc.ValidateBalance(context.Background(), 1, decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, svc.ValidateBalance(context.Background(), 9, decimal.NewFromInt(1)), ErrUserNotFound)
}

// Concurrent debits for the same user must serialize: with balance 100 and
// 25 debits of 10, exactly 10 succeed and the balance ends at zero.
func TestConcurrentDebits(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(100)})
	svc := newTestService(repo)
	amount := decimal.NewFromInt(10)

	const attempts = 25
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Debit(context.Background(), 1, amount)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 15, rejected)
	assert.True(t, repo.balance(1).IsZero())
}

func TestConcurrentMixedOperations(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 1, Balance: decimal.NewFromInt(1000)})
	svc := newTestService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(7))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Debit(context.Background(), 1, decimal.NewFromInt(3))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 1000 + 50*7 - 50*3 = 1200, no lost updates.
	assert.True(t, repo.balance(1).Equal(decimal.NewFromInt(1200)))
}
