package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Samat21/unileague/models"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileEmailConflict    = errors.New("profile email conflict")
	ErrProfileUsernameConflict = errors.New("profile username conflict")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateRole(ctx context.Context, exec SQLExecutor, id int, role models.ProfileRole) error
	Delete(ctx context.Context, id int) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (username, full_name, university, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		profile.Username,
		profile.FullName,
		profile.University,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
	).Scan(&profile.ID, &profile.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "profiles_email_key":
				return ErrProfileEmailConflict
			case "profiles_username_key":
				return ErrProfileUsernameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresProfileRepository) scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Username, &p.FullName, &p.University, &p.Email,
		&p.PasswordHash, &p.Role, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `
		SELECT id, username, full_name, university, email, password_hash, role, created_at
		FROM profiles
		WHERE id = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, username, full_name, university, email, password_hash, role, created_at
		FROM profiles
		WHERE email = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT id, username, full_name, university, email, password_hash, role, created_at
		FROM profiles
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.Username, &p.FullName, &p.University, &p.Email,
			&p.PasswordHash, &p.Role, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *postgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET
			username = $1,
			full_name = $2,
			university = $3,
			email = $4,
			password_hash = $5,
			role = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		profile.Username,
		profile.FullName,
		profile.University,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "profiles_email_key":
				return ErrProfileEmailConflict
			case "profiles_username_key":
				return ErrProfileUsernameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

// UpdateRole выполняется внутри транзакции одобрения админ-заявки,
// поэтому принимает SQLExecutor.
func (r *postgresProfileRepository) UpdateRole(ctx context.Context, exec SQLExecutor, id int, role models.ProfileRole) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE profiles SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
