package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Samat21/unileague/leaderboard"
	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
)

// AccessGuard отделяет проверку прав от бизнес-логики; реализуется AdminService.
type AccessGuard interface {
	RequireAdmin(ctx context.Context, userID int) error
}

type MatchService interface {
	Create(ctx context.Context, callerID int, input CreateMatchInput) (*models.Match, error)
	Update(ctx context.Context, callerID, matchID int, patch UpdateMatchInput) (*models.Match, error)
	Start(ctx context.Context, callerID, matchID int) (*models.Match, error)
	End(ctx context.Context, callerID, matchID int) (*models.Match, error)
	UpdateScore(ctx context.Context, callerID, matchID, homeScore, awayScore int) (*models.Match, error)
	RecordGoal(ctx context.Context, callerID int, input RecordGoalInput) (*models.Goal, error)
	Get(ctx context.Context, matchID int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
	ListGoals(ctx context.Context, matchID int) ([]models.Goal, error)
	Delete(ctx context.Context, callerID, matchID int) error
	AutoActivateDueMatches(ctx context.Context) error
}

type CreateMatchInput struct {
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
	StartsAt   time.Time `json:"starts_at"`
	Venue      string    `json:"venue"`
	GroupLabel *string   `json:"group_label,omitempty"`
}

type UpdateMatchInput struct {
	StartsAt   *time.Time          `json:"starts_at,omitempty"`
	Venue      *string             `json:"venue,omitempty"`
	GroupLabel *string             `json:"group_label,omitempty"`
	Status     *models.MatchStatus `json:"status,omitempty"`
	HomeScore  *int                `json:"home_score,omitempty"`
	AwayScore  *int                `json:"away_score,omitempty"`
}

type RecordGoalInput struct {
	MatchID  int  `json:"match_id"`
	PlayerID int  `json:"player_id"`
	Minute   int  `json:"minute"`
	OwnGoal  bool `json:"own_goal"`
}

type matchService struct {
	matchRepo  repositories.MatchRepository
	goalRepo   repositories.GoalRepository
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	access     AccessGuard
	hub        *leaderboard.Hub
	logger     *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	access AccessGuard,
	hub *leaderboard.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:  matchRepo,
		goalRepo:   goalRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		access:     access,
		hub:        hub,
		logger:     logger,
	}
}

func (s *matchService) Create(ctx context.Context, callerID int, input CreateMatchInput) (*models.Match, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if input.HomeTeamID == 0 || input.AwayTeamID == 0 || input.Venue == "" || input.StartsAt.IsZero() {
		return nil, ErrMatchFieldsRequired
	}
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrMatchTeamsIdentical
	}
	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to check team %d: %w", teamID, err)
		}
	}

	match := &models.Match{
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		StartsAt:   input.StartsAt,
		Venue:      input.Venue,
		Status:     models.MatchStatusUpcoming,
		GroupLabel: input.GroupLabel,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.hub.Broadcast(leaderboard.FeedLeaderboard, leaderboard.Event{
		Type:    leaderboard.EventMatchUpdated,
		Payload: map[string]int{"match_id": match.ID},
	})
	return s.Get(ctx, match.ID)
}

func (s *matchService) Update(ctx context.Context, callerID, matchID int, patch UpdateMatchInput) (*models.Match, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if patch.StartsAt != nil {
		match.StartsAt = *patch.StartsAt
	}
	if patch.Venue != nil {
		match.Venue = *patch.Venue
	}
	if patch.GroupLabel != nil {
		match.GroupLabel = patch.GroupLabel
	}
	if patch.Status != nil {
		if !isForwardTransition(match.Status, *patch.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrValidationFailed, match.Status, *patch.Status)
		}
		match.Status = *patch.Status
	}
	if patch.HomeScore != nil || patch.AwayScore != nil {
		if patch.HomeScore != nil {
			match.HomeScore = *patch.HomeScore
		}
		if patch.AwayScore != nil {
			match.AwayScore = *patch.AwayScore
		}
		if match.HomeScore < 0 || match.AwayScore < 0 {
			return nil, ErrMatchNegativeScore
		}
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match %d: %w", matchID, err)
	}

	s.broadcastMatch(matchID, leaderboard.EventMatchUpdated)
	return s.Get(ctx, matchID)
}

// Start переводит матч UPCOMING -> LIVE. Повторный Start уже идущего матча,
// чьё время начала прошло, — no-op (авто-свип мог опередить оператора).
func (s *matchService) Start(ctx context.Context, callerID, matchID int) (*models.Match, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case models.MatchStatusUpcoming:
		// ок, стартуем
	case models.MatchStatusLive:
		if !match.StartsAt.After(time.Now()) {
			return match, nil
		}
		return nil, ErrMatchAlreadyStarted
	case models.MatchStatusDone:
		return nil, ErrMatchAlreadyFinished
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusLive); err != nil {
		return nil, fmt.Errorf("failed to start match %d: %w", matchID, err)
	}
	s.broadcastMatch(matchID, leaderboard.EventMatchUpdated)
	return s.Get(ctx, matchID)
}

// End переводит матч LIVE -> DONE; счёт остаётся каким был выставлен.
// Завершение матча, который ещё не начался, отклоняется: у него нет счёта.
func (s *matchService) End(ctx context.Context, callerID, matchID int) (*models.Match, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case models.MatchStatusLive:
		// ок, завершаем
	case models.MatchStatusDone:
		return nil, ErrMatchAlreadyFinished
	default:
		return nil, ErrMatchNotLive
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusDone); err != nil {
		return nil, fmt.Errorf("failed to end match %d: %w", matchID, err)
	}
	s.broadcastMatch(matchID, leaderboard.EventMatchUpdated)
	return s.Get(ctx, matchID)
}

// UpdateScore перезаписывает обе половины счёта одним запросом. При ошибке
// валидации прежний счёт остаётся нетронутым.
func (s *matchService) UpdateScore(ctx context.Context, callerID, matchID, homeScore, awayScore int) (*models.Match, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrMatchNegativeScore
	}
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusLive && match.Status != models.MatchStatusDone {
		return nil, ErrMatchScoreNotEditable
	}

	if err := s.matchRepo.UpdateScore(ctx, matchID, homeScore, awayScore); err != nil {
		return nil, fmt.Errorf("failed to update score of match %d: %w", matchID, err)
	}
	s.broadcastMatch(matchID, leaderboard.EventScoreUpdated)
	return s.Get(ctx, matchID)
}

// RecordGoal пишет событие в журнал голов и НЕ трогает home_score/away_score:
// счёт ведётся отдельным полем, синхронизация — ответственность оператора.
func (s *matchService) RecordGoal(ctx context.Context, callerID int, input RecordGoalInput) (*models.Goal, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if input.MatchID == 0 || input.PlayerID == 0 {
		return nil, ErrGoalFieldsRequired
	}
	if input.Minute < 0 {
		return nil, fmt.Errorf("%w: minute cannot be negative", ErrValidationFailed)
	}
	if _, err := s.getMatch(ctx, input.MatchID); err != nil {
		return nil, err
	}
	if _, err := s.playerRepo.GetByID(ctx, input.PlayerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player %d: %w", input.PlayerID, err)
	}

	goal := &models.Goal{
		MatchID:  input.MatchID,
		PlayerID: input.PlayerID,
		Minute:   input.Minute,
		OwnGoal:  input.OwnGoal,
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to record goal: %w", err)
	}

	s.broadcastMatch(input.MatchID, leaderboard.EventGoalRecorded)
	return goal, nil
}

func (s *matchService) Get(ctx context.Context, matchID int) (*models.Match, error) {
	return s.getMatch(ctx, matchID)
}

// List возвращает матчи, предварительно выполнив авто-активацию: каждый
// UPCOMING матч с наступившим starts_at становится LIVE без ручного действия.
func (s *matchService) List(ctx context.Context) ([]models.Match, error) {
	if err := s.AutoActivateDueMatches(ctx); err != nil {
		// Свип не должен ломать чтение списка.
		s.logger.Warn("auto-activation sweep failed", slog.Any("error", err))
	}
	return s.matchRepo.List(ctx)
}

func (s *matchService) ListGoals(ctx context.Context, matchID int) ([]models.Goal, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.goalRepo.ListByMatchID(ctx, matchID)
}

// Delete удаляет матч и его голы, зависимые записи первыми.
func (s *matchService) Delete(ctx context.Context, callerID, matchID int) error {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return err
	}
	if err := s.goalRepo.DeleteByMatchID(ctx, nil, matchID); err != nil {
		return fmt.Errorf("failed to delete goals of match %d: %w", matchID, err)
	}
	if err := s.matchRepo.Delete(ctx, nil, matchID); err != nil {
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}
	s.broadcastMatch(matchID, leaderboard.EventMatchUpdated)
	return nil
}

func (s *matchService) AutoActivateDueMatches(ctx context.Context) error {
	ids, err := s.matchRepo.ActivateDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to auto-activate due matches: %w", err)
	}
	for _, id := range ids {
		s.logger.Info("match auto-activated", slog.Int("match_id", id))
		s.broadcastMatch(id, leaderboard.EventMatchUpdated)
	}
	return nil
}

func (s *matchService) getMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) broadcastMatch(matchID int, eventType string) {
	payload := map[string]int{"match_id": matchID}
	s.hub.Broadcast(leaderboard.FeedLeaderboard, leaderboard.Event{Type: eventType, Payload: payload})
	s.hub.Broadcast(fmt.Sprintf("match_%d", matchID), leaderboard.Event{Type: eventType, Payload: payload})
}

func isForwardTransition(current, next models.MatchStatus) bool {
	if current == next {
		return true
	}
	order := map[models.MatchStatus]int{
		models.MatchStatusUpcoming: 0,
		models.MatchStatusLive:     1,
		models.MatchStatusDone:     2,
	}
	return order[next] > order[current]
}
