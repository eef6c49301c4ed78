package services

import (
	"context"
	"testing"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playerServiceFixture struct {
	service    PlayerService
	playerRepo *fakePlayerRepo
	goalRepo   *fakeGoalRepo
	teamRepo   *fakeTeamRepo
}

func newPlayerServiceFixture(t *testing.T) *playerServiceFixture {
	t.Helper()
	f := &playerServiceFixture{
		playerRepo: newFakePlayerRepo(),
		goalRepo:   newFakeGoalRepo(),
		teamRepo:   newFakeTeamRepo(),
	}
	f.service = NewPlayerService(f.playerRepo, f.goalRepo, f.teamRepo, allowAllGuard{})
	return f
}

func TestPlayerService_AssignPlayers(t *testing.T) {
	f := newPlayerServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})
	p1 := f.playerRepo.add(models.Player{ProfileID: 10})
	p2 := f.playerRepo.add(models.Player{ProfileID: 11, TeamID: &team.ID})

	err := f.service.AssignPlayers(context.Background(), 1, []PlayerAssignment{
		{ID: p1.ID, TeamID: &team.ID},
		{ID: p2.ID, TeamID: nil}, // отвязка
	})
	require.NoError(t, err)

	assigned, err := f.playerRepo.GetByID(context.Background(), p1.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.TeamID)
	assert.Equal(t, team.ID, *assigned.TeamID)

	unassigned, err := f.playerRepo.GetByID(context.Background(), p2.ID)
	require.NoError(t, err)
	assert.Nil(t, unassigned.TeamID)
}

// Первая ошибка прерывает пакет; уже применённые перестановки остаются.
func TestPlayerService_AssignPlayersStopsOnFirstError(t *testing.T) {
	f := newPlayerServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})
	p1 := f.playerRepo.add(models.Player{ProfileID: 10})
	p3 := f.playerRepo.add(models.Player{ProfileID: 12})

	unknownTeam := 999
	err := f.service.AssignPlayers(context.Background(), 1, []PlayerAssignment{
		{ID: p1.ID, TeamID: &team.ID},
		{ID: 777, TeamID: &unknownTeam},
		{ID: p3.ID, TeamID: &team.ID},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.Contains(t, err.Error(), "assignment 2")

	applied, getErr := f.playerRepo.GetByID(context.Background(), p1.ID)
	require.NoError(t, getErr)
	assert.NotNil(t, applied.TeamID)

	skipped, getErr := f.playerRepo.GetByID(context.Background(), p3.ID)
	require.NoError(t, getErr)
	assert.Nil(t, skipped.TeamID)
}

func TestPlayerService_AssignPlayersSkipsZeroIDs(t *testing.T) {
	f := newPlayerServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})

	err := f.service.AssignPlayers(context.Background(), 1, []PlayerAssignment{
		{ID: 0, TeamID: &team.ID},
	})
	assert.NoError(t, err)
}

func TestPlayerService_DeleteRemovesGoalsFirst(t *testing.T) {
	f := newPlayerServiceFixture(t)
	player := f.playerRepo.add(models.Player{ProfileID: 10})
	require.NoError(t, f.goalRepo.Create(context.Background(), &models.Goal{MatchID: 1, PlayerID: player.ID}))

	require.NoError(t, f.service.Delete(context.Background(), 1, player.ID))

	_, err := f.playerRepo.GetByID(context.Background(), player.ID)
	assert.ErrorIs(t, err, repositories.ErrPlayerNotFound)

	goals, err := f.goalRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestPlayerService_DeleteUnknownPlayer(t *testing.T) {
	f := newPlayerServiceFixture(t)

	err := f.service.Delete(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
