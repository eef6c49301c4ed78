package services

import (
	"context"
	"fmt"

	"github.com/Samat21/unileague/leaderboard"
	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
	"golang.org/x/sync/errgroup"
)

// LeaderboardSnapshot — таблица и бомбардиры, пересчитанные из сырых строк.
// Материализованного представления нет: каждый запрос считает заново.
type LeaderboardSnapshot struct {
	Standings  []leaderboard.TeamRecord   `json:"standings"`
	TopScorers []leaderboard.ScorerRecord `json:"top_scorers"`
}

type LeaderboardService interface {
	Snapshot(ctx context.Context, scorersLimit int) (*LeaderboardSnapshot, error)
}

type leaderboardService struct {
	matchRepo   repositories.MatchRepository
	goalRepo    repositories.GoalRepository
	playerRepo  repositories.PlayerRepository
	profileRepo repositories.ProfileRepository
	teamRepo    repositories.TeamRepository
	matches     MatchService
}

func NewLeaderboardService(
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	playerRepo repositories.PlayerRepository,
	profileRepo repositories.ProfileRepository,
	teamRepo repositories.TeamRepository,
	matches MatchService,
) LeaderboardService {
	return &leaderboardService{
		matchRepo:   matchRepo,
		goalRepo:    goalRepo,
		playerRepo:  playerRepo,
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		matches:     matches,
	}
}

// Snapshot параллельно выгружает сущности и сводит их чистыми функциями
// пакета leaderboard. Перед чтением выполняется авто-активация матчей,
// как и при любом чтении списка матчей.
func (s *leaderboardService) Snapshot(ctx context.Context, scorersLimit int) (*LeaderboardSnapshot, error) {
	if err := s.matches.AutoActivateDueMatches(ctx); err != nil {
		return nil, err
	}

	var (
		matches  []models.Match
		goals    []models.Goal
		players  []models.Player
		profiles []models.Profile
		teams    []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		matches, err = s.matchRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.goalRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		players, err = s.playerRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		profiles, err = s.profileRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		teams, err = s.teamRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load leaderboard data: %w", err)
	}

	return &LeaderboardSnapshot{
		Standings:  leaderboard.ComputeStandings(matches),
		TopScorers: leaderboard.ComputeTopScorers(goals, players, profiles, teams, scorersLimit),
	}, nil
}
