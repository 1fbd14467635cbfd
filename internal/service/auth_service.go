package service

import (
	"context"
	"errors"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const RoleCreator = "creator"
const RoleAdmin = "admin"

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	// Login authenticates the user and triggers the daily login reward. The
	// reward is best-effort and surfaces in the response when granted.
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo      repository.UserRepository
	creditService CreditService
	jwtSecret     []byte
	jwtTTL        time.Duration
	dailyCredits  int
}

func NewAuthService(userRepo repository.UserRepository, creditService CreditService, jwtSecret string, jwtTTL time.Duration, dailyCredits int) AuthService {
	if jwtTTL <= 0 {
		jwtTTL = 24 * time.Hour
	}
	if dailyCredits <= 0 {
		dailyCredits = 10
	}
	return &authService{
		userRepo:      userRepo,
		creditService: creditService,
		jwtSecret:     []byte(jwtSecret),
		jwtTTL:        jwtTTL,
		dailyCredits:  dailyCredits,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(409, "email already registered", apperror.ErrDuplicateResource)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.New(409, "username already taken", apperror.ErrDuplicateResource)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  string(hash),
		AccountStatus: model.AccountStatusActive,
	}
	if role, err := s.userRepo.FindRoleByName(ctx, RoleCreator); err == nil {
		user.RoleID = &role.ID
	}

	profile := &model.Profile{FullName: input.FullName}
	profile.CompletionPercentage = CompletionPercentage(user, profile)

	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	user.Profile = profile

	token, expiresIn, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        user,
		Profile:     profile,
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if user.AccountStatus != model.AccountStatusActive {
		return nil, apperror.New(403, "account is "+user.AccountStatus, apperror.ErrForbidden)
	}

	token, expiresIn, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	response := &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        user,
		Profile:     user.Profile,
	}

	// Daily reward failure never blocks a login
	if s.creditService != nil {
		awarded, err := s.creditService.AwardDailyLogin(ctx, user.ID)
		if err != nil {
			log.Printf("Failed to award daily login reward to user %s: %v", user.ID, err)
		} else if awarded {
			reward := s.dailyCredits
			response.DailyReward = &reward
		}
	}

	return response, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.jwtTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.jwtTTL.Seconds()), nil
}
