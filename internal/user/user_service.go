package user

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"langlink/internal/common"
	"langlink/internal/config"
	"langlink/internal/dbmysql"
)

// OnboardingInput carries the profile fields a user completes before they
// become visible to recommendations.
type OnboardingInput struct {
	FullName         string `json:"full_name"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	Location         string `json:"location"`
}

type UserService interface {
	RegisterUser(ctx context.Context, fullName, email, password string) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
	OnboardUser(ctx context.Context, userID uint64, in OnboardingInput) (*dbmysql.User, error)

	// RecommendUsers returns onboarded users who are neither the given user
	// nor already their friend.
	RecommendUsers(ctx context.Context, userID uint64) ([]*dbmysql.User, error)

	ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
}

type userService struct {
	userRepo UserRepository
	cfg      *config.Config
}

func NewUserService(userRepo UserRepository, cfg *config.Config) UserService {
	return &userService{userRepo: userRepo, cfg: cfg}
}

func (s *userService) RegisterUser(ctx context.Context, fullName, email, password string) (*dbmysql.User, string, error) {
	if err := common.ValidateFullName(fullName); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &dbmysql.User{
		FullName:     fullName,
		Email:        common.NormalizeEmail(email),
		PasswordHash: hashed,
		ProfilePic:   randomAvatarURL(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", fmt.Errorf("%w: email already registered", common.ErrValidation)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, email, password string) (*dbmysql.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", common.ErrValidation)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *userService) OnboardUser(ctx context.Context, userID uint64, in OnboardingInput) (*dbmysql.User, error) {
	if in.FullName == "" || in.Bio == "" || in.NativeLanguage == "" || in.LearningLanguage == "" || in.Location == "" {
		return nil, fmt.Errorf("%w: all onboarding fields are required", common.ErrValidation)
	}
	if err := common.ValidateFullName(in.FullName); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = in.FullName
	user.Bio = in.Bio
	user.NativeLanguage = in.NativeLanguage
	user.LearningLanguage = in.LearningLanguage
	user.Location = in.Location
	user.IsOnboarded = true

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) RecommendUsers(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	friendIDs, err := s.userRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend ids: %w", err)
	}

	users, err := s.userRepo.ListCandidates(ctx, userID, friendIDs, true)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return users, nil
}

func (s *userService) ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	friends, err := s.userRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}

func (s *userService) issueToken(user *dbmysql.User) (string, error) {
	token, err := common.GenerateToken(
		[]byte(s.cfg.JWT.Secret),
		user.UserID,
		user.Email,
		time.Duration(s.cfg.JWT.ExpiryHours)*time.Hour,
	)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func randomAvatarURL() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.IntN(100)+1)
}
