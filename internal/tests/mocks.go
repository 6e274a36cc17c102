package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/redis"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount       int32
	UpdateRatingCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Rating = rating
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository. Debit
// applies the same balance >= amount guard as the conditional SQL update.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet // keyed by account number

	// Counters for verification
	CreditCallCount int32
	DebitCallCount  int32

	// Error injection
	CreateError error
	CreditError error
	DebitError  error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{wallets: make(map[string]*domain.Wallet)}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.AccountNumber] = wallet
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.AccountNumber] = wallet
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[accountNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (m *MockWalletRepository) GetAdmin(ctx context.Context) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.IsAdmin {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) Credit(ctx context.Context, accountNumber string, amount int64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[accountNumber]
	if !ok {
		return repository.ErrNotFound
	}
	w.Balance += amount
	return nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, accountNumber string, amount int64) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[accountNumber]
	if !ok {
		return repository.ErrNotFound
	}
	if w.Balance < amount {
		return repository.ErrInsufficientFunds
	}
	w.Balance -= amount
	return nil
}

// Balance returns an account's balance for test assertions.
func (m *MockWalletRepository) Balance(accountNumber string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[accountNumber]; ok {
		return w.Balance
	}
	return 0
}

// TotalBalance sums every wallet balance for conservation assertions.
func (m *MockWalletRepository) TotalBalance() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, w := range m.wallets {
		total += w.Balance
	}
	return total
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *tx
	m.transactions = append(m.transactions, &copy)
	return nil
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.IdempotencyKey == key {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountNumber string, kind domain.TransactionKind, start, end time.Time) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, tx := range m.transactions {
		if tx.FromAccount != accountNumber && tx.ToAccount != accountNumber {
			continue
		}
		if kind != "" && tx.Kind != kind {
			continue
		}
		if !start.IsZero() && tx.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && !tx.CreatedAt.Before(end) {
			continue
		}
		copy := *tx
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockTransactionRepository) BonusClaimedSince(ctx context.Context, accountNumber string, since time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.ToAccount == accountNumber &&
			tx.Kind == domain.TransactionKindBonus &&
			tx.Status == domain.TransactionStatusCompleted &&
			!tx.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// All returns every recorded transaction for test assertions.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		copy := *tx
		result = append(result, &copy)
	}
	return result
}

// CountByKind counts recorded transactions of one kind.
func (m *MockTransactionRepository) CountByKind(kind domain.TransactionKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, tx := range m.transactions {
		if tx.Kind == kind {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. The status
// transition methods hold the mutex across check and update, mirroring the
// atomicity of the conditional SQL updates.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount          int32
	AcceptRequestedCallCount int32
	CompleteCallCount        int32

	// Error injection
	CreateError   error
	CompleteError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{rides: make(map[string]*domain.Ride)}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) AcceptRequested(ctx context.Context, id, driverID string) (bool, error) {
	atomic.AddInt32(&m.AcceptRequestedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok || ride.Status != domain.RideStatusRequested {
		return false, nil
	}
	ride.Status = domain.RideStatusAccepted
	ride.DriverID = driverID
	return true, nil
}

func (m *MockRideRepository) StartAccepted(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok || ride.Status != domain.RideStatusAccepted {
		return false, nil
	}
	ride.Status = domain.RideStatusInProgress
	ride.StartedAt = startedAt
	return true, nil
}

func (m *MockRideRepository) CompleteInProgress(ctx context.Context, updated *domain.Ride) (bool, error) {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	if m.CompleteError != nil {
		return false, m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[updated.ID]
	if !ok || ride.Status != domain.RideStatusInProgress {
		return false, nil
	}
	ride.Status = domain.RideStatusCompleted
	ride.Fare = updated.Fare
	ride.CommissionAmount = updated.CommissionAmount
	ride.Distance = updated.Distance
	ride.Duration = updated.Duration
	ride.CompletedAt = updated.CompletedAt
	return true, nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return false, nil
	}
	if ride.Status != domain.RideStatusRequested && ride.Status != domain.RideStatusAccepted {
		return false, nil
	}
	ride.Status = domain.RideStatusCancelled
	return true, nil
}

func (m *MockRideRepository) CountCompletedByDriverSince(ctx context.Context, driverID string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.rides {
		if r.DriverID == driverID && r.Status == domain.RideStatusCompleted && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// GetRide returns a ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings []*domain.Rating

	CreateError error
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *rating
	m.ratings = append(m.ratings, &copy)
	return nil
}

func (m *MockRatingRepository) AverageForUser(ctx context.Context, userID string) (float64, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum, count int
	for _, r := range m.ratings {
		if r.RatedUserID == userID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// ──────────────────────────────────────────────
// MOCK SAVINGS REPOSITORIES
// ──────────────────────────────────────────────

// MockSavingsWalletRepository is a mock implementation of
// SavingsWalletRepository.
type MockSavingsWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.SavingsWallet // keyed by wallet ID

	CreditCallCount int32
	DebitCallCount  int32

	CreateError error
}

// NewMockSavingsWalletRepository creates a new mock savings wallet repository.
func NewMockSavingsWalletRepository() *MockSavingsWalletRepository {
	return &MockSavingsWalletRepository{wallets: make(map[string]*domain.SavingsWallet)}
}

// AddWallet adds a savings wallet to the mock repository.
func (m *MockSavingsWalletRepository) AddWallet(wallet *domain.SavingsWallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *MockSavingsWalletRepository) Create(ctx context.Context, wallet *domain.SavingsWallet) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockSavingsWalletRepository) GetByID(ctx context.Context, id string) (*domain.SavingsWallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *w
	return &copy, nil
}

func (m *MockSavingsWalletRepository) GetByDriverID(ctx context.Context, driverID string) (*domain.SavingsWallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.DriverID == driverID {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockSavingsWalletRepository) Credit(ctx context.Context, id string, amount int64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.Balance += amount
	return nil
}

func (m *MockSavingsWalletRepository) Debit(ctx context.Context, id string, amount int64) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if w.Balance < amount {
		return repository.ErrInsufficientFunds
	}
	w.Balance -= amount
	return nil
}

// Balance returns a savings wallet balance for test assertions.
func (m *MockSavingsWalletRepository) Balance(id string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w.Balance
	}
	return 0
}

// MockSavingsPlanRepository is a mock implementation of SavingsPlanRepository.
type MockSavingsPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.SavingsPlan

	CreateCallCount int32

	CreateError error
}

// NewMockSavingsPlanRepository creates a new mock savings plan repository.
func NewMockSavingsPlanRepository() *MockSavingsPlanRepository {
	return &MockSavingsPlanRepository{plans: make(map[string]*domain.SavingsPlan)}
}

// AddPlan adds a plan to the mock repository.
func (m *MockSavingsPlanRepository) AddPlan(plan *domain.SavingsPlan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
}

func (m *MockSavingsPlanRepository) Create(ctx context.Context, plan *domain.SavingsPlan) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *MockSavingsPlanRepository) GetByID(ctx context.Context, id string) (*domain.SavingsPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockSavingsPlanRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.SavingsPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.DriverID == driverID && p.Status == domain.SavingsPlanStatusActive {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockSavingsPlanRepository) ListByDriverID(ctx context.Context, driverID string) ([]*domain.SavingsPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.SavingsPlan
	for _, p := range m.plans {
		if p.DriverID == driverID {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockSavingsPlanRepository) UpdateStatus(ctx context.Context, id string, status domain.SavingsPlanStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *MockSavingsPlanRepository) CompleteExpired(ctx context.Context, driverID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.DriverID == driverID && p.Status == domain.SavingsPlanStatusActive && !now.Before(p.EndDate) {
			p.Status = domain.SavingsPlanStatusCompleted
		}
	}
	return nil
}

// GetPlan returns a plan for test assertions.
func (m *MockSavingsPlanRepository) GetPlan(id string) *domain.SavingsPlan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plans[id]
}

// ──────────────────────────────────────────────
// MOCK SETTINGS REPOSITORY
// ──────────────────────────────────────────────

// MockSettingsRepository is a mock implementation of SettingsRepository with
// the same version compare-and-swap semantics as the SQL implementation.
type MockSettingsRepository struct {
	mu       sync.Mutex
	settings *domain.PlatformSettings
}

// NewMockSettingsRepository creates a new mock settings repository seeded
// with the given bonus amount.
func NewMockSettingsRepository(bonusAmount int64) *MockSettingsRepository {
	return &MockSettingsRepository{
		settings: &domain.PlatformSettings{ID: 1, BonusAmount: bonusAmount, Version: 1},
	}
}

func (m *MockSettingsRepository) Init(ctx context.Context, bonusAmount int64) error {
	return nil
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *m.settings
	return &copy, nil
}

func (m *MockSettingsRepository) SetBonusAmount(ctx context.Context, amount int64, expectedVersion int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Version != expectedVersion {
		return false, nil
	}
	m.settings.BonusAmount = amount
	m.settings.Version++
	m.settings.UpdatedAt = time.Now()
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquirePlanLock(ctx context.Context, planID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[planID] {
		return false, nil
	}
	m.locks[planID] = true
	return true, nil
}

func (m *MockLockStore) ReleasePlanLock(ctx context.Context, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, planID)
	return nil
}

func (m *MockLockStore) AcquireBonusLock(ctx context.Context, driverID string, day time.Time, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := bonusLockKey(driverID, day)
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) ReleaseBonusLock(ctx context.Context, driverID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, bonusLockKey(driverID, day))
	return nil
}

func bonusLockKey(driverID string, day time.Time) string {
	return "bonus:" + driverID + ":" + day.Format("2006-01-02")
}

// MockWalletCache is an in-memory implementation of WalletCacheInterface.
type MockWalletCache struct {
	mu      sync.RWMutex
	wallets map[string]*redis.CachedWallet

	InvalidateCallCount int32
}

// NewMockWalletCache creates a new mock wallet cache.
func NewMockWalletCache() *MockWalletCache {
	return &MockWalletCache{wallets: make(map[string]*redis.CachedWallet)}
}

func (m *MockWalletCache) GetWallet(ctx context.Context, userID string) (*redis.CachedWallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, nil
	}
	copy := *w
	return &copy, nil
}

func (m *MockWalletCache) SetWallet(ctx context.Context, wallet *redis.CachedWallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.UserID] = wallet
	return nil
}

func (m *MockWalletCache) InvalidateWallet(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wallets, userID)
	return nil
}
