package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
)

type AdminService interface {
	RequestAccess(ctx context.Context, userID int) (*models.AdminRequest, error)
	GetOwnRequest(ctx context.Context, userID int) (*models.AdminRequest, error)
	ListRequests(ctx context.Context, callerID int, status *models.AdminRequestStatus) ([]models.AdminRequest, error)
	Approve(ctx context.Context, requestID, reviewerID int) (*models.AdminRequest, error)
	Reject(ctx context.Context, requestID, reviewerID int, reason *string) (*models.AdminRequest, error)
	RequireAdmin(ctx context.Context, userID int) error
}

type adminService struct {
	db          *sql.DB // для транзакции approve
	requestRepo repositories.AdminRequestRepository
	profileRepo repositories.ProfileRepository
}

func NewAdminService(
	db *sql.DB,
	requestRepo repositories.AdminRequestRepository,
	profileRepo repositories.ProfileRepository,
) AdminService {
	return &adminService{
		db:          db,
		requestRepo: requestRepo,
		profileRepo: profileRepo,
	}
}

// RequireAdmin проверяет роль по профилю в БД, а не по клиентским данным:
// JWT-клейму роли для мутаций не доверяем.
func (s *adminService) RequireAdmin(ctx context.Context, userID int) error {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load caller profile: %w", err)
	}
	if profile.Role != models.RoleAdmin {
		return ErrAdminRoleRequired
	}
	return nil
}

// RequestAccess заводит заявку PENDING. У пользователя может быть не больше
// одной открытой заявки одновременно.
func (s *adminService) RequestAccess(ctx context.Context, userID int) (*models.AdminRequest, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.Role == models.RoleAdmin {
		return nil, ErrAlreadyAdmin
	}

	pending, err := s.requestRepo.HasPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, ErrAdminRequestPending
	}

	request := &models.AdminRequest{
		UserID: userID,
		Status: models.AdminRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create admin request: %w", err)
	}
	return request, nil
}

func (s *adminService) GetOwnRequest(ctx context.Context, userID int) (*models.AdminRequest, error) {
	request, err := s.requestRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminRequestNotFound) {
			return nil, ErrAdminRequestNotFound
		}
		return nil, fmt.Errorf("failed to load admin request: %w", err)
	}
	return request, nil
}

func (s *adminService) ListRequests(ctx context.Context, callerID int, status *models.AdminRequestStatus) ([]models.AdminRequest, error) {
	if err := s.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin requests: %w", err)
	}
	return requests, nil
}

// Approve переводит заявку в APPROVED и повышает роль профиля до ADMIN в
// одной транзакции: либо применяются оба изменения, либо ни одного.
func (s *adminService) Approve(ctx context.Context, requestID, reviewerID int) (*models.AdminRequest, error) {
	if err := s.RequireAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	request, err := s.getPendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin approve transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := s.requestRepo.SetReviewed(ctx, tx, requestID, models.AdminRequestApproved, reviewerID, now, nil); err != nil {
		if errors.Is(err, repositories.ErrAdminRequestNotFound) {
			return nil, ErrAdminRequestReviewed
		}
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}
	if err := s.profileRepo.UpdateRole(ctx, tx, request.UserID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to promote profile %d: %w", request.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approve transaction: %w", err)
	}

	request.Status = models.AdminRequestApproved
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now
	return request, nil
}

func (s *adminService) Reject(ctx context.Context, requestID, reviewerID int, reason *string) (*models.AdminRequest, error) {
	if err := s.RequireAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	request, err := s.getPendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.requestRepo.SetReviewed(ctx, nil, requestID, models.AdminRequestRejected, reviewerID, now, reason); err != nil {
		if errors.Is(err, repositories.ErrAdminRequestNotFound) {
			return nil, ErrAdminRequestReviewed
		}
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	request.Status = models.AdminRequestRejected
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now
	if reason != nil {
		request.Reason = reason
	}
	return request, nil
}

func (s *adminService) getPendingRequest(ctx context.Context, requestID int) (*models.AdminRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminRequestNotFound) {
			return nil, ErrAdminRequestNotFound
		}
		return nil, fmt.Errorf("failed to load admin request: %w", err)
	}
	if request.Status != models.AdminRequestPending {
		return nil, ErrAdminRequestReviewed
	}
	return request, nil
}
