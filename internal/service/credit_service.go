package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
)

const (
	DailyLoginCooldown = 20 * time.Hour

	CreditsInteractionSave    = 2
	CreditsInteractionShare   = 5
	CreditsInteractionComment = 3
	CreditsInteractionDefault = 1
)

type CreditService interface {
	// AwardDailyLogin credits the daily login reward unless one was already
	// granted within the cooldown window. Returns whether credits were
	// awarded; a cooldown no-op is not an error.
	AwardDailyLogin(ctx context.Context, userID uuid.UUID) (bool, error)
	// AwardProfileCompletionMilestones awards every milestone crossed by the
	// percentage increase. Returns the total credits granted.
	AwardProfileCompletionMilestones(ctx context.Context, userID uuid.UUID, oldPercentage, newPercentage int) (int, error)
	AwardContentInteraction(ctx context.Context, userID, contentID uuid.UUID, interactionType string) error
	// AdjustCredits applies a signed admin adjustment. No floor: a negative
	// adjustment may drive the balance below zero.
	AdjustCredits(ctx context.Context, userID uuid.UUID, amount int, description string, adminID uuid.UUID) error
	// DeductCredits spends credits; fails with ErrInsufficientCredits when
	// the balance does not cover the amount, leaving the balance unchanged.
	DeductCredits(ctx context.Context, userID uuid.UUID, amount int, category, description string) error
	GetBalance(ctx context.Context, userID uuid.UUID) (*model.CreditBalance, error)
	GetTransactionHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedTransactionResponse, error)
}

type creditService struct {
	repo                repository.CreditRepository
	notificationService NotificationService
	dailyLoginCredits   int
}

func NewCreditService(repo repository.CreditRepository, notificationService NotificationService, dailyLoginCredits int) CreditService {
	if dailyLoginCredits <= 0 {
		dailyLoginCredits = 10
	}
	return &creditService{
		repo:                repo,
		notificationService: notificationService,
		dailyLoginCredits:   dailyLoginCredits,
	}
}

func (s *creditService) AwardDailyLogin(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, awarded, err := s.repo.ApplyDailyLogin(ctx, userID, s.dailyLoginCredits, DailyLoginCooldown, "Daily login reward")
	if err != nil {
		return false, err
	}

	if awarded {
		s.notify(ctx, userID, "Daily reward earned",
			fmt.Sprintf("You earned %d credits for logging in today. Come back tomorrow!", s.dailyLoginCredits))
	}
	return awarded, nil
}

func (s *creditService) AwardProfileCompletionMilestones(ctx context.Context, userID uuid.UUID, oldPercentage, newPercentage int) (int, error) {
	total := 0
	for _, milestone := range MilestonesCrossed(oldPercentage, newPercentage) {
		txn := &model.CreditTransaction{
			UserID:      userID,
			Kind:        model.CreditKindEarn,
			Amount:      milestone.Credits,
			Category:    model.CreditCategoryProfileCompletion,
			Description: fmt.Sprintf("Profile %d%% complete", milestone.Threshold),
			Metadata:    map[string]string{"milestone": fmt.Sprintf("%d", milestone.Threshold)},
		}
		if _, err := s.repo.ApplyTransaction(ctx, txn, false); err != nil {
			return total, err
		}
		total += milestone.Credits

		s.notify(ctx, userID, "Profile milestone reached",
			fmt.Sprintf("Your profile is %d%% complete. You earned %d credits!", milestone.Threshold, milestone.Credits))
	}
	return total, nil
}

func interactionCredits(interactionType string) int {
	switch interactionType {
	case "save":
		return CreditsInteractionSave
	case "share":
		return CreditsInteractionShare
	case "comment":
		return CreditsInteractionComment
	default:
		return CreditsInteractionDefault
	}
}

func (s *creditService) AwardContentInteraction(ctx context.Context, userID, contentID uuid.UUID, interactionType string) error {
	amount := interactionCredits(interactionType)

	txn := &model.CreditTransaction{
		UserID:      userID,
		Kind:        model.CreditKindEarn,
		Amount:      amount,
		Category:    model.CreditCategoryContentInteraction,
		Description: fmt.Sprintf("Content interaction: %s", interactionType),
		Metadata: map[string]string{
			"content_id":       contentID.String(),
			"interaction_type": interactionType,
		},
	}
	if _, err := s.repo.ApplyTransaction(ctx, txn, false); err != nil {
		return err
	}

	s.notify(ctx, userID, "Credits earned",
		fmt.Sprintf("You earned %d credits for a %s.", amount, interactionType))
	return nil
}

func (s *creditService) AdjustCredits(ctx context.Context, userID uuid.UUID, amount int, description string, adminID uuid.UUID) error {
	if amount == 0 {
		return apperror.ErrInvalidAmount
	}

	txn := &model.CreditTransaction{
		UserID:      userID,
		Kind:        model.CreditKindAdjustment,
		Amount:      amount,
		Category:    model.CreditCategoryAdminAdjustment,
		Description: description,
		Metadata:    map[string]string{"admin_id": adminID.String()},
	}
	// Admin adjustments bypass the floor and may drive the balance negative
	if _, err := s.repo.ApplyTransaction(ctx, txn, false); err != nil {
		return err
	}

	verb := "added to"
	shown := amount
	if amount < 0 {
		verb = "removed from"
		shown = -amount
	}
	s.notify(ctx, userID, "Credit adjustment",
		fmt.Sprintf("An administrator %s your account: %d credits. %s", verb, shown, description))
	return nil
}

func (s *creditService) DeductCredits(ctx context.Context, userID uuid.UUID, amount int, category, description string) error {
	if amount <= 0 {
		return apperror.ErrInvalidAmount
	}
	if category == "" {
		category = model.CreditCategoryOther
	}

	txn := &model.CreditTransaction{
		UserID:      userID,
		Kind:        model.CreditKindSpend,
		Amount:      -amount,
		Category:    category,
		Description: description,
	}
	if _, err := s.repo.ApplyTransaction(ctx, txn, true); err != nil {
		return err
	}

	s.notify(ctx, userID, "Credits spent",
		fmt.Sprintf("You spent %d credits. %s", amount, description))
	return nil
}

func (s *creditService) GetBalance(ctx context.Context, userID uuid.UUID) (*model.CreditBalance, error) {
	return s.repo.GetBalance(ctx, userID)
}

func (s *creditService) GetTransactionHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedTransactionResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	transactions, total, err := s.repo.ListTransactions(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedTransactionResponse{
		Data: transactions,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

// notify is best-effort: a notification failure never rolls back the credit
// mutation it describes.
func (s *creditService) notify(ctx context.Context, userID uuid.UUID, title, message string) {
	if s.notificationService == nil {
		return
	}

	notification := &model.Notification{
		UserID:   userID,
		Type:     model.NotificationTypeCredit,
		Title:    title,
		Message:  message,
		Priority: model.NotificationPriorityNormal,
	}
	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to send credit notification to user %s: %v", userID, err)
	}
}
