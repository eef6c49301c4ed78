package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Samat21/unileague/leaderboard"
	"github.com/Samat21/unileague/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_Snapshot(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	goalRepo := newFakeGoalRepo()
	playerRepo := newFakePlayerRepo()
	profileRepo := newFakeProfileRepo()
	teamRepo := newFakeTeamRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	alpha := teamRepo.add(models.Team{Name: "Alpha"})
	bravo := teamRepo.add(models.Team{Name: "Bravo"})
	profile := profileRepo.add(models.Profile{FullName: "Ivan Petrov"})
	player := playerRepo.add(models.Player{ProfileID: profile.ID, TeamID: &alpha.ID})

	done := matchRepo.add(models.Match{
		HomeTeamID: alpha.ID, AwayTeamID: bravo.ID,
		Status:    models.MatchStatusDone,
		HomeScore: 2, AwayScore: 0,
		HomeTeam: &models.Team{ID: alpha.ID, Name: alpha.Name},
		AwayTeam: &models.Team{ID: bravo.ID, Name: bravo.Name},
	})
	require.NoError(t, goalRepo.Create(context.Background(), &models.Goal{MatchID: done.ID, PlayerID: player.ID, Minute: 15}))
	require.NoError(t, goalRepo.Create(context.Background(), &models.Goal{MatchID: done.ID, PlayerID: player.ID, Minute: 80}))

	matchService := NewMatchService(matchRepo, goalRepo, teamRepo, playerRepo, allowAllGuard{}, leaderboard.NewHub(), logger)
	service := NewLeaderboardService(matchRepo, goalRepo, playerRepo, profileRepo, teamRepo, matchService)

	snapshot, err := service.Snapshot(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, snapshot.Standings, 2)
	assert.Equal(t, "Alpha", snapshot.Standings[0].TeamName)
	assert.Equal(t, 3, snapshot.Standings[0].Points)
	assert.Equal(t, "Bravo", snapshot.Standings[1].TeamName)
	assert.Equal(t, 0, snapshot.Standings[1].Points)

	require.Len(t, snapshot.TopScorers, 1)
	assert.Equal(t, "Ivan Petrov", snapshot.TopScorers[0].PlayerName)
	assert.Equal(t, 2, snapshot.TopScorers[0].Goals)
	assert.Equal(t, "Alpha", snapshot.TopScorers[0].TeamName)
}

// Снимок, как и список матчей, сначала активирует просроченные UPCOMING-матчи.
func TestLeaderboardService_SnapshotActivatesDueMatches(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	due := matchRepo.add(models.Match{
		HomeTeamID: 1, AwayTeamID: 2,
		Status:   models.MatchStatusUpcoming,
		StartsAt: time.Now().Add(-time.Minute),
	})

	matchService := NewMatchService(matchRepo, newFakeGoalRepo(), newFakeTeamRepo(), newFakePlayerRepo(), allowAllGuard{}, leaderboard.NewHub(), logger)
	service := NewLeaderboardService(matchRepo, newFakeGoalRepo(), newFakePlayerRepo(), newFakeProfileRepo(), newFakeTeamRepo(), matchService)

	snapshot, err := service.Snapshot(context.Background(), 0)
	require.NoError(t, err)
	// LIVE-матч активирован, но в таблицу не попадает до завершения.
	assert.Empty(t, snapshot.Standings)

	stored, err := matchRepo.GetByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusLive, stored.Status)
}
