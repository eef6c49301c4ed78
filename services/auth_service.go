package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, input LoginInput) (*models.Profile, error)
}

type RegisterInput struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	University string `json:"university"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	profileRepo repositories.ProfileRepository
	playerRepo  repositories.PlayerRepository
}

func NewAuthService(profileRepo repositories.ProfileRepository, playerRepo repositories.PlayerRepository) AuthService {
	return &authService{
		profileRepo: profileRepo,
		playerRepo:  playerRepo,
	}
}

// Register создаёт профиль с ролью PLAYER и сразу заводит запись игрока
// без команды — назначение в команду делает администратор отдельно.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Username:     input.Username,
		FullName:     input.FullName,
		University:   input.University,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RolePlayer,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProfileEmailConflict):
			return nil, ErrProfileEmailConflict
		case errors.Is(err, repositories.ErrProfileUsernameConflict):
			return nil, ErrProfileUsernameConflict
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	player := &models.Player{ProfileID: profile.ID}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player record: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}
