package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Samat21/unileague/models"
)

var ErrAdminRequestNotFound = errors.New("admin request not found")

type AdminRequestRepository interface {
	Create(ctx context.Context, request *models.AdminRequest) error
	GetByID(ctx context.Context, id int) (*models.AdminRequest, error)
	GetLatestByUserID(ctx context.Context, userID int) (*models.AdminRequest, error)
	HasPendingForUser(ctx context.Context, userID int) (bool, error)
	List(ctx context.Context, status *models.AdminRequestStatus) ([]models.AdminRequest, error)
	SetReviewed(ctx context.Context, exec SQLExecutor, id int, status models.AdminRequestStatus, reviewerID int, reviewedAt time.Time, reason *string) error
}

type postgresAdminRequestRepository struct {
	db *sql.DB
}

func NewPostgresAdminRequestRepository(db *sql.DB) AdminRequestRepository {
	return &postgresAdminRequestRepository{db: db}
}

func (r *postgresAdminRequestRepository) Create(ctx context.Context, request *models.AdminRequest) error {
	query := `
		INSERT INTO admin_requests (user_id, status, reason)
		VALUES ($1, $2, $3)
		RETURNING id, requested_at`

	return r.db.QueryRowContext(ctx, query,
		request.UserID, request.Status, request.Reason,
	).Scan(&request.ID, &request.RequestedAt)
}

func (r *postgresAdminRequestRepository) scanRequest(scanner interface{ Scan(...interface{}) error }) (*models.AdminRequest, error) {
	var req models.AdminRequest
	err := scanner.Scan(
		&req.ID, &req.UserID, &req.Status, &req.RequestedAt,
		&req.ReviewedBy, &req.ReviewedAt, &req.Reason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminRequestNotFound
		}
		return nil, fmt.Errorf("failed to scan admin request: %w", err)
	}
	return &req, nil
}

func (r *postgresAdminRequestRepository) GetByID(ctx context.Context, id int) (*models.AdminRequest, error) {
	query := `
		SELECT id, user_id, status, requested_at, reviewed_by, reviewed_at, reason
		FROM admin_requests
		WHERE id = $1`
	return r.scanRequest(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresAdminRequestRepository) GetLatestByUserID(ctx context.Context, userID int) (*models.AdminRequest, error) {
	query := `
		SELECT id, user_id, status, requested_at, reviewed_by, reviewed_at, reason
		FROM admin_requests
		WHERE user_id = $1
		ORDER BY requested_at DESC
		LIMIT 1`
	return r.scanRequest(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresAdminRequestRepository) HasPendingForUser(ctx context.Context, userID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admin_requests WHERE user_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, models.AdminRequestPending).Scan(&exists)
	return exists, err
}

func (r *postgresAdminRequestRepository) List(ctx context.Context, status *models.AdminRequestStatus) ([]models.AdminRequest, error) {
	query := `
		SELECT
			ar.id, ar.user_id, ar.status, ar.requested_at, ar.reviewed_by, ar.reviewed_at, ar.reason,
			p.id, p.username, p.full_name, p.university, p.email, p.role, p.created_at
		FROM admin_requests ar
		JOIN profiles p ON ar.user_id = p.id`

	args := make([]interface{}, 0, 1)
	if status != nil {
		query += ` WHERE ar.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY ar.requested_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.AdminRequest, 0)
	for rows.Next() {
		var req models.AdminRequest
		var user models.Profile
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.Status, &req.RequestedAt,
			&req.ReviewedBy, &req.ReviewedAt, &req.Reason,
			&user.ID, &user.Username, &user.FullName, &user.University,
			&user.Email, &user.Role, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		req.User = &user
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// SetReviewed переводит заявку из PENDING в терминальный статус. Условие
// status = PENDING в WHERE защищает от повторного ревью: для уже
// рассмотренной заявки вернётся ErrAdminRequestNotFound.
func (r *postgresAdminRequestRepository) SetReviewed(ctx context.Context, exec SQLExecutor, id int, status models.AdminRequestStatus, reviewerID int, reviewedAt time.Time, reason *string) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	query := `
		UPDATE admin_requests SET
			status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			reason = COALESCE($4, reason)
		WHERE id = $5 AND status = $6`

	result, err := executor.ExecContext(ctx, query,
		status, reviewerID, reviewedAt, reason, id, models.AdminRequestPending,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAdminRequestNotFound)
}
