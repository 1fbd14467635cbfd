package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository interface {
	// GetBalance returns the user's balance, or a zero-valued balance if the
	// user has never earned or spent credits.
	GetBalance(ctx context.Context, userID uuid.UUID) (*model.CreditBalance, error)
	// ApplyTransaction atomically updates the balance row and appends the
	// ledger entry. txn.Amount is signed. With enforceFloor the write fails
	// with ErrInsufficientCredits when the balance would go negative, leaving
	// both rows untouched.
	ApplyTransaction(ctx context.Context, txn *model.CreditTransaction, enforceFloor bool) (*model.CreditBalance, error)
	// ApplyDailyLogin awards the daily login amount unless the cooldown since
	// the previous reward has not elapsed. The cooldown check happens under
	// the same row lock as the write, so concurrent logins award at most once.
	ApplyDailyLogin(ctx context.Context, userID uuid.UUID, amount int, cooldown time.Duration, description string) (*model.CreditBalance, bool, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CreditTransaction, int64, error)
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*model.CreditBalance, error) {
	var balance model.CreditBalance
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Balance rows are created lazily on the first credit event
			return &model.CreditBalance{UserID: userID}, nil
		}
		return nil, err
	}
	return &balance, nil
}

// lockBalance loads the balance row FOR UPDATE, creating it first if the user
// has no balance yet. The OnConflict DoNothing covers the create race between
// two concurrent first-time events.
func lockBalance(tx *gorm.DB, userID uuid.UUID) (*model.CreditBalance, error) {
	var balance model.CreditBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := model.CreditBalance{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, err
		}
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&balance).Error
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func applyToBalance(balance *model.CreditBalance, amount int) {
	balance.Balance += amount
	if amount >= 0 {
		balance.TotalEarned += amount
	} else {
		balance.TotalSpent += -amount
	}
}

func (r *creditRepository) ApplyTransaction(ctx context.Context, txn *model.CreditTransaction, enforceFloor bool) (*model.CreditBalance, error) {
	var result model.CreditBalance

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := lockBalance(tx, txn.UserID)
		if err != nil {
			return err
		}

		if enforceFloor && balance.Balance+txn.Amount < 0 {
			return apperror.ErrInsufficientCredits
		}

		applyToBalance(balance, txn.Amount)
		txn.BalanceAfter = balance.Balance
		txn.CreatedAt = time.Now()

		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		if err := tx.Save(balance).Error; err != nil {
			return err
		}

		result = *balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *creditRepository) ApplyDailyLogin(ctx context.Context, userID uuid.UUID, amount int, cooldown time.Duration, description string) (*model.CreditBalance, bool, error) {
	var (
		result  model.CreditBalance
		awarded bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := lockBalance(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		if balance.LastDailyLoginRewardAt != nil && now.Sub(*balance.LastDailyLoginRewardAt) < cooldown {
			// Cooldown still running: no-op, not an error
			result = *balance
			return nil
		}

		applyToBalance(balance, amount)
		balance.LastDailyLoginRewardAt = &now

		txn := &model.CreditTransaction{
			UserID:       userID,
			Kind:         model.CreditKindEarn,
			Amount:       amount,
			BalanceAfter: balance.Balance,
			Category:     model.CreditCategoryDailyLogin,
			Description:  description,
			CreatedAt:    now,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		if err := tx.Save(balance).Error; err != nil {
			return err
		}

		result = *balance
		awarded = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &result, awarded, nil
}

func (r *creditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CreditTransaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CreditTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
