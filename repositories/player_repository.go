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
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerProfileConflict = errors.New("profile already has a player record")
	ErrPlayerTeamInvalid     = errors.New("player team reference is invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error)
	UpdateTeam(ctx context.Context, exec SQLExecutor, playerID int, teamID *int) error
	UnassignByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (profile_id, team_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, player.ProfileID, player.TeamID).
		Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "players_profile_id_key" {
					return ErrPlayerProfileConflict
				}
			case "23503":
				if pqErr.Constraint == "players_team_id_fkey" {
					return ErrPlayerTeamInvalid
				}
			}
		}
		return err
	}
	return nil
}

// GetByID подтягивает профиль игрока одним запросом, команда может
// отсутствовать (team_id IS NULL).
func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT
			p.id, p.profile_id, p.team_id, p.created_at,
			pr.id, pr.username, pr.full_name, pr.university, pr.email, pr.role, pr.created_at
		FROM players p
		JOIN profiles pr ON p.profile_id = pr.id
		WHERE p.id = $1`

	var player models.Player
	var profile models.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID, &player.ProfileID, &player.TeamID, &player.CreatedAt,
		&profile.ID, &profile.Username, &profile.FullName, &profile.University,
		&profile.Email, &profile.Role, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player with profile: %w", err)
	}
	player.Profile = &profile
	return &player, nil
}

func (r *postgresPlayerRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		var profile models.Profile
		if err := rows.Scan(
			&player.ID, &player.ProfileID, &player.TeamID, &player.CreatedAt,
			&profile.ID, &profile.Username, &profile.FullName, &profile.University,
			&profile.Email, &profile.Role, &profile.CreatedAt,
		); err != nil {
			return nil, err
		}
		player.Profile = &profile
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `
		SELECT
			p.id, p.profile_id, p.team_id, p.created_at,
			pr.id, pr.username, pr.full_name, pr.university, pr.email, pr.role, pr.created_at
		FROM players p
		JOIN profiles pr ON p.profile_id = pr.id
		ORDER BY pr.full_name`
	return r.list(ctx, query)
}

func (r *postgresPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT
			p.id, p.profile_id, p.team_id, p.created_at,
			pr.id, pr.username, pr.full_name, pr.university, pr.email, pr.role, pr.created_at
		FROM players p
		JOIN profiles pr ON p.profile_id = pr.id
		WHERE p.team_id = $1
		ORDER BY pr.full_name`
	return r.list(ctx, query, teamID)
}

func (r *postgresPlayerRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, playerID int, teamID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE players SET team_id = $1 WHERE id = $2`, teamID, playerID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPlayerTeamInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// UnassignByTeamID — первый шаг каскадного удаления команды.
func (r *postgresPlayerRepository) UnassignByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE players SET team_id = NULL WHERE team_id = $1`, teamID)
	return err
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
