package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/pkg/storage"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// UpdateProfile applies partial changes, recalculates the completion
	// percentage and awards any milestone crossed by the increase.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, fileName string) (*dto.ProfileResponse, error)
}

type profileService struct {
	userRepo            repository.UserRepository
	creditService       CreditService
	notificationService NotificationService
	imageStorage        storage.ImageStorage
}

func NewProfileService(
	userRepo repository.UserRepository,
	creditService CreditService,
	notificationService NotificationService,
	imageStorage storage.ImageStorage,
) ProfileService {
	return &profileService{
		userRepo:            userRepo,
		creditService:       creditService,
		notificationService: notificationService,
		imageStorage:        imageStorage,
	}
}

// CompletionPercentage scores a profile by the share of its fields that are
// filled in. The avatar counts as one field.
func CompletionPercentage(user *model.User, profile *model.Profile) int {
	if profile == nil {
		return 0
	}

	filled := 0
	total := 7

	if profile.FullName != "" {
		filled++
	}
	if notEmpty(profile.Bio) {
		filled++
	}
	if notEmpty(profile.Website) {
		filled++
	}
	if notEmpty(profile.Location) {
		filled++
	}
	if notEmpty(profile.Skills) {
		filled++
	}
	if len(profile.ContentSources) > 0 {
		filled++
	}
	if user != nil && notEmpty(user.AvatarURL) {
		filled++
	}

	return filled * 100 / total
}

func notEmpty(s *string) bool {
	return s != nil && *s != ""
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID.String())
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID}
	}
	oldPercentage := profile.CompletionPercentage

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.Website != nil {
		profile.Website = input.Website
	}
	if input.Location != nil {
		profile.Location = input.Location
	}
	if input.Skills != nil {
		profile.Skills = input.Skills
	}
	if input.ContentSources != nil {
		profile.ContentSources = input.ContentSources
	}
	if input.ContentCategories != nil {
		profile.ContentCategories = input.ContentCategories
	}

	profile.CompletionPercentage = CompletionPercentage(user, profile)

	if err := s.userRepo.Update(ctx, nil, profile); err != nil {
		return nil, err
	}
	user.Profile = profile

	awarded := s.awardMilestones(ctx, userID, oldPercentage, profile.CompletionPercentage)

	return &dto.ProfileResponse{User: user, Profile: profile, CreditsAwarded: awarded}, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader, fileName string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.imageStorage.UploadImage(ctx, file, "avatars", fmt.Sprintf("%s-%s", userID, fileName))
	if err != nil {
		return nil, err
	}

	oldAvatarURL := user.AvatarURL
	user.AvatarURL = &avatarURL

	profile := user.Profile
	oldPercentage := 0
	if profile != nil {
		oldPercentage = profile.CompletionPercentage
		profile.CompletionPercentage = CompletionPercentage(user, profile)
	}

	if err := s.userRepo.Update(ctx, user, profile); err != nil {
		return nil, err
	}

	if notEmpty(oldAvatarURL) {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.imageStorage.DeleteImage(cleanupCtx, *oldAvatarURL); err != nil {
			log.Printf("Failed to delete old avatar for user %s: %v", userID, err)
		}
	}

	awarded := 0
	if profile != nil {
		awarded = s.awardMilestones(ctx, userID, oldPercentage, profile.CompletionPercentage)
	}

	return &dto.ProfileResponse{User: user, Profile: profile, CreditsAwarded: awarded}, nil
}

// awardMilestones is best-effort: a reward failure never fails the profile
// update that triggered it.
func (s *profileService) awardMilestones(ctx context.Context, userID uuid.UUID, oldPercentage, newPercentage int) int {
	if s.creditService == nil || newPercentage <= oldPercentage {
		return 0
	}

	awarded, err := s.creditService.AwardProfileCompletionMilestones(ctx, userID, oldPercentage, newPercentage)
	if err != nil {
		log.Printf("Failed to award profile milestones to user %s: %v", userID, err)
	}
	return awarded
}
