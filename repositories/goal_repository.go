package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Samat21/unileague/models"
	"github.com/lib/pq"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalMatchInvalid  = errors.New("goal match reference is invalid")
	ErrGoalPlayerInvalid = errors.New("goal player reference is invalid")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	List(ctx context.Context) ([]models.Goal, error)
	ListByMatchID(ctx context.Context, matchID int) ([]models.Goal, error)
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
	DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error
	DeleteByTeamMatches(ctx context.Context, exec SQLExecutor, teamID int) error
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (match_id, player_id, minute, own_goal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		goal.MatchID, goal.PlayerID, goal.Minute, goal.OwnGoal,
	).Scan(&goal.ID, &goal.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "goals_match_id_fkey":
				return ErrGoalMatchInvalid
			case "goals_player_id_fkey":
				return ErrGoalPlayerInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresGoalRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.MatchID, &g.PlayerID, &g.Minute, &g.OwnGoal, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *postgresGoalRepository) List(ctx context.Context) ([]models.Goal, error) {
	query := `
		SELECT id, match_id, player_id, minute, own_goal, created_at
		FROM goals
		ORDER BY match_id, minute`
	return r.list(ctx, query)
}

func (r *postgresGoalRepository) ListByMatchID(ctx context.Context, matchID int) ([]models.Goal, error) {
	query := `
		SELECT id, match_id, player_id, minute, own_goal, created_at
		FROM goals
		WHERE match_id = $1
		ORDER BY minute`
	return r.list(ctx, query, matchID)
}

func (r *postgresGoalRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM goals WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresGoalRepository) DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM goals WHERE player_id = $1`, playerID)
	return err
}

// DeleteByTeamMatches удаляет голы всех матчей команды — шаг каскада перед
// удалением самих матчей.
func (r *postgresGoalRepository) DeleteByTeamMatches(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM goals
		WHERE match_id IN (
			SELECT id FROM matches WHERE home_team_id = $1 OR away_team_id = $1
		)`
	_, err := executor.ExecContext(ctx, query, teamID)
	return err
}
