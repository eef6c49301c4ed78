package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Samat21/unileague/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team reference is invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
	ListByStatus(ctx context.Context, status models.MatchStatus) ([]models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
	UpdateScore(ctx context.Context, id int, homeScore, awayScore int) error
	ActivateDue(ctx context.Context, now time.Time) ([]int, error)
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	m.id, m.home_team_id, m.away_team_id, m.starts_at, m.venue, m.status,
	m.home_score, m.away_score, m.group_label, m.created_at,
	ht.id, ht.name, ht.university, ht.group_label,
	at.id, at.name, at.university, at.group_label`

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var home, away models.Team
	err := scanner.Scan(
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.StartsAt, &m.Venue, &m.Status,
		&m.HomeScore, &m.AwayScore, &m.GroupLabel, &m.CreatedAt,
		&home.ID, &home.Name, &home.University, &home.GroupLabel,
		&away.ID, &away.Name, &away.University, &away.GroupLabel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	m.HomeTeam = &home
	m.AwayTeam = &away
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (home_team_id, away_team_id, starts_at, venue, status, home_score, away_score, group_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.HomeTeamID, match.AwayTeamID, match.StartsAt, match.Venue,
		match.Status, match.HomeScore, match.AwayScore, match.GroupLabel,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams ht ON m.home_team_id = ht.id
		JOIN teams at ON m.away_team_id = at.id
		WHERE m.id = $1`
	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, errScan := scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams ht ON m.home_team_id = ht.id
		JOIN teams at ON m.away_team_id = at.id
		ORDER BY m.starts_at DESC`
	return r.list(ctx, query)
}

func (r *postgresMatchRepository) ListByStatus(ctx context.Context, status models.MatchStatus) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams ht ON m.home_team_id = ht.id
		JOIN teams at ON m.away_team_id = at.id
		WHERE m.status = $1
		ORDER BY m.starts_at DESC`
	return r.list(ctx, query, status)
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_team_id = $1,
			away_team_id = $2,
			starts_at = $3,
			venue = $4,
			status = $5,
			home_score = $6,
			away_score = $7,
			group_label = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		match.HomeTeamID, match.AwayTeamID, match.StartsAt, match.Venue,
		match.Status, match.HomeScore, match.AwayScore, match.GroupLabel,
		match.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateScore пишет обе половины счёта одним UPDATE: частично обновлённый
// счёт снаружи не наблюдаем.
func (r *postgresMatchRepository) UpdateScore(ctx context.Context, id int, homeScore, awayScore int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET home_score = $1, away_score = $2 WHERE id = $3`,
		homeScore, awayScore, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ActivateDue переводит в LIVE все UPCOMING матчи, чьё время начала уже
// наступило, и возвращает их id.
func (r *postgresMatchRepository) ActivateDue(ctx context.Context, now time.Time) ([]int, error) {
	query := `
		UPDATE matches SET status = $1
		WHERE status = $2 AND starts_at <= $3
		RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, models.MatchStatusLive, models.MatchStatusUpcoming, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM matches WHERE home_team_id = $1 OR away_team_id = $1`, teamID)
	return err
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
