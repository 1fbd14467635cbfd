package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreditRepository is an in-memory ledger with the same semantics as the
// database-backed implementation: floor enforcement, cooldown under the same
// critical section, append-only transaction log.
type fakeCreditRepository struct {
	mu       sync.Mutex
	balances map[uuid.UUID]*model.CreditBalance
	ledger   []model.CreditTransaction
	nextID   uint
}

func newFakeCreditRepository() *fakeCreditRepository {
	return &fakeCreditRepository{balances: make(map[uuid.UUID]*model.CreditBalance)}
}

func (f *fakeCreditRepository) balanceLocked(userID uuid.UUID) *model.CreditBalance {
	if b, ok := f.balances[userID]; ok {
		return b
	}
	b := &model.CreditBalance{UserID: userID}
	f.balances[userID] = b
	return b
}

func (f *fakeCreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*model.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := *f.balanceLocked(userID)
	return &b, nil
}

func (f *fakeCreditRepository) ApplyTransaction(ctx context.Context, txn *model.CreditTransaction, enforceFloor bool) (*model.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := f.balanceLocked(txn.UserID)
	if enforceFloor && b.Balance+txn.Amount < 0 {
		return nil, apperror.ErrInsufficientCredits
	}

	b.Balance += txn.Amount
	if txn.Amount >= 0 {
		b.TotalEarned += txn.Amount
	} else {
		b.TotalSpent += -txn.Amount
	}

	f.nextID++
	txn.ID = f.nextID
	txn.BalanceAfter = b.Balance
	txn.CreatedAt = time.Now()
	f.ledger = append(f.ledger, *txn)

	result := *b
	return &result, nil
}

func (f *fakeCreditRepository) ApplyDailyLogin(ctx context.Context, userID uuid.UUID, amount int, cooldown time.Duration, description string) (*model.CreditBalance, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := f.balanceLocked(userID)
	now := time.Now()
	if b.LastDailyLoginRewardAt != nil && now.Sub(*b.LastDailyLoginRewardAt) < cooldown {
		result := *b
		return &result, false, nil
	}

	b.Balance += amount
	b.TotalEarned += amount
	b.LastDailyLoginRewardAt = &now

	f.nextID++
	f.ledger = append(f.ledger, model.CreditTransaction{
		ID:           f.nextID,
		UserID:       userID,
		Kind:         model.CreditKindEarn,
		Amount:       amount,
		BalanceAfter: b.Balance,
		Category:     model.CreditCategoryDailyLogin,
		Description:  description,
		CreatedAt:    now,
	})

	result := *b
	return &result, true, nil
}

func (f *fakeCreditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CreditTransaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []model.CreditTransaction
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].UserID == userID {
			mine = append(mine, f.ledger[i])
		}
	}

	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (f *fakeCreditRepository) userLedger(userID uuid.UUID) []model.CreditTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []model.CreditTransaction
	for _, txn := range f.ledger {
		if txn.UserID == userID {
			mine = append(mine, txn)
		}
	}
	return mine
}

type fakeNotificationService struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (f *fakeNotificationService) CreateNotification(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationService) MarkAsRead(id uuid.UUID) error               { return nil }
func (f *fakeNotificationService) MarkAllAsRead(userID uuid.UUID) error        { return nil }
func (f *fakeNotificationService) UnreadCount(userID uuid.UUID) (int64, error) { return 0, nil }

func (f *fakeNotificationService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

func newCreditServiceForTest() (CreditService, *fakeCreditRepository, *fakeNotificationService) {
	repo := newFakeCreditRepository()
	notifier := &fakeNotificationService{}
	return NewCreditService(repo, notifier, 10), repo, notifier
}

func TestAwardDailyLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()

	awarded, err := svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	assert.True(t, awarded)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.Balance)
	assert.Equal(t, 10, balance.TotalEarned)

	// Second login inside the cooldown window is a no-op
	awarded, err = svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	assert.False(t, awarded)

	balance, err = svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.Balance)
	assert.Len(t, repo.userLedger(userID), 1)
}

func TestAwardDailyLoginAfterCooldown(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()

	awarded, err := svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	require.True(t, awarded)

	// Age the previous reward past the cooldown
	repo.mu.Lock()
	old := time.Now().Add(-DailyLoginCooldown - time.Minute)
	repo.balances[userID].LastDailyLoginRewardAt = &old
	repo.mu.Unlock()

	awarded, err = svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	assert.True(t, awarded)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 20, balance.Balance)
}

func TestAwardProfileCompletionMilestones(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()

	// 0 -> 60 crosses 25 and 50
	total, err := svc.AwardProfileCompletionMilestones(ctx, userID, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	// 60 -> 100 crosses 75 and 100, but never re-awards 25 or 50
	total, err = svc.AwardProfileCompletionMilestones(ctx, userID, 60, 100)
	require.NoError(t, err)
	assert.Equal(t, 75, total)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance.Balance)
	assert.Len(t, repo.userLedger(userID), 4)

	// A decrease awards nothing
	total, err = svc.AwardProfileCompletionMilestones(ctx, userID, 100, 40)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestAwardContentInteraction(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()
	contentID := uuid.New()

	require.NoError(t, svc.AwardContentInteraction(ctx, userID, contentID, "save"))
	require.NoError(t, svc.AwardContentInteraction(ctx, userID, contentID, "share"))
	require.NoError(t, svc.AwardContentInteraction(ctx, userID, contentID, "comment"))
	require.NoError(t, svc.AwardContentInteraction(ctx, userID, contentID, "view"))

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2+5+3+1, balance.Balance)

	ledger := repo.userLedger(userID)
	require.Len(t, ledger, 4)
	assert.Equal(t, contentID.String(), ledger[0].Metadata["content_id"])
	assert.Equal(t, model.CreditCategoryContentInteraction, ledger[0].Category)
}

func TestDeductCreditsFloor(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()

	_, err := svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)

	err = svc.DeductCredits(ctx, userID, 25, model.CreditCategoryFeatureUsage, "premium analytics")
	assert.ErrorIs(t, err, apperror.ErrInsufficientCredits)

	// The failed spend must leave both the balance and the ledger untouched
	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.Balance)
	assert.Len(t, repo.userLedger(userID), 1)

	err = svc.DeductCredits(ctx, userID, 10, model.CreditCategoryFeatureUsage, "premium analytics")
	require.NoError(t, err)

	balance, err = svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Balance)
	assert.Equal(t, 10, balance.TotalSpent)
}

func TestDeductCreditsRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCreditServiceForTest()

	err := svc.DeductCredits(ctx, uuid.New(), 0, "", "noop")
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	err = svc.DeductCredits(ctx, uuid.New(), -5, "", "noop")
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)
}

func TestAdjustCreditsBypassesFloor(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()
	adminID := uuid.New()

	err := svc.AdjustCredits(ctx, userID, -30, "chargeback", adminID)
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, -30, balance.Balance)
	assert.Equal(t, 30, balance.TotalSpent)

	ledger := repo.userLedger(userID)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.CreditKindAdjustment, ledger[0].Kind)
	assert.Equal(t, adminID.String(), ledger[0].Metadata["admin_id"])

	err = svc.AdjustCredits(ctx, userID, 0, "noop", adminID)
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)
}

func TestCreditLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()
	adminID := uuid.New()

	require.NoError(t, svc.AwardContentInteraction(ctx, userID, uuid.New(), "save"))

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, balance.Balance)

	ledger := repo.userLedger(userID)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.CreditCategoryContentInteraction, ledger[0].Category)
	assert.Equal(t, 2, ledger[0].Amount)
	assert.Equal(t, 2, ledger[0].BalanceAfter)

	err = svc.DeductCredits(ctx, userID, 5, model.CreditCategoryFeatureUsage, "x")
	assert.ErrorIs(t, err, apperror.ErrInsufficientCredits)

	balance, err = svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, balance.Balance)

	require.NoError(t, svc.AdjustCredits(ctx, userID, -100, "penalty", adminID))

	balance, err = svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, -98, balance.Balance)
	assert.Equal(t, 100, balance.TotalSpent)
}

func TestLedgerInvariant(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCreditServiceForTest()
	userID := uuid.New()

	_, err := svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	_, err = svc.AwardProfileCompletionMilestones(ctx, userID, 0, 50)
	require.NoError(t, err)
	require.NoError(t, svc.AwardContentInteraction(ctx, userID, uuid.New(), "share"))
	require.NoError(t, svc.DeductCredits(ctx, userID, 12, model.CreditCategoryFeatureUsage, "boost"))
	require.NoError(t, svc.AdjustCredits(ctx, userID, -4, "correction", uuid.New()))

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, balance.TotalEarned-balance.TotalSpent, balance.Balance)

	// Replaying the ledger reproduces the balance, and every BalanceAfter
	// snapshot matches the running sum.
	running := 0
	for _, txn := range repo.userLedger(userID) {
		running += txn.Amount
		assert.Equal(t, running, txn.BalanceAfter)
	}
	assert.Equal(t, balance.Balance, running)
}

func TestCreditNotifications(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newCreditServiceForTest()
	userID := uuid.New()

	_, err := svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())

	// No reward, no notification
	_, err = svc.AwardDailyLogin(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())
}

func TestGetTransactionHistoryPagination(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCreditServiceForTest()
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.AwardContentInteraction(ctx, userID, uuid.New(), "save"))
	}

	res, err := svc.GetTransactionHistory(ctx, userID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, int64(5), res.Meta.Total)
	assert.Equal(t, 3, res.Meta.PageCount)

	res, err = svc.GetTransactionHistory(ctx, userID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, res.Data, 1)
}
