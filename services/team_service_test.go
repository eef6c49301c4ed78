package services

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
	"github.com/Samat21/unileague/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

// Обёртки над заглушками, фиксирующие порядок шагов каскадного удаления.

type orderedPlayerRepo struct {
	*fakePlayerRepo
	log *[]string
}

func (r *orderedPlayerRepo) UnassignByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	*r.log = append(*r.log, "unassign_players")
	return r.fakePlayerRepo.UnassignByTeamID(ctx, exec, teamID)
}

type orderedGoalRepo struct {
	*fakeGoalRepo
	log *[]string
}

func (r *orderedGoalRepo) DeleteByTeamMatches(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	*r.log = append(*r.log, "delete_goals")
	return r.fakeGoalRepo.DeleteByTeamMatches(ctx, exec, teamID)
}

type orderedMatchRepo struct {
	*fakeMatchRepo
	log *[]string
}

func (r *orderedMatchRepo) DeleteByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	*r.log = append(*r.log, "delete_matches")
	return r.fakeMatchRepo.DeleteByTeamID(ctx, exec, teamID)
}

type orderedTeamRepo struct {
	*fakeTeamRepo
	log *[]string
}

func (r *orderedTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	*r.log = append(*r.log, "delete_team")
	return r.fakeTeamRepo.Delete(ctx, exec, id)
}

type teamServiceFixture struct {
	service    TeamService
	teamRepo   *fakeTeamRepo
	playerRepo *fakePlayerRepo
	uploader   *fakeUploader
	log        []string
}

func newTeamServiceFixture(t *testing.T) *teamServiceFixture {
	t.Helper()
	f := &teamServiceFixture{
		teamRepo:   newFakeTeamRepo(),
		playerRepo: newFakePlayerRepo(),
		uploader:   &fakeUploader{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewTeamService(
		&orderedTeamRepo{f.teamRepo, &f.log},
		&orderedPlayerRepo{f.playerRepo, &f.log},
		&orderedMatchRepo{newFakeMatchRepo(), &f.log},
		&orderedGoalRepo{newFakeGoalRepo(), &f.log},
		allowAllGuard{},
		f.uploader,
		logger,
	)
	return f
}

func TestTeamService_CreateTrimsName(t *testing.T) {
	f := newTeamServiceFixture(t)

	team, err := f.service.Create(context.Background(), 1, CreateTeamInput{Name: "  Alpha  ", University: "KBTU"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", team.Name)
}

func TestTeamService_CreateRejectsBlankName(t *testing.T) {
	f := newTeamServiceFixture(t)

	_, err := f.service.Create(context.Background(), 1, CreateTeamInput{Name: "   "})
	assert.ErrorIs(t, err, ErrTeamNameRequired)
}

func TestTeamService_CreateRejectsDuplicateName(t *testing.T) {
	f := newTeamServiceFixture(t)
	f.teamRepo.add(models.Team{Name: "Alpha"})

	_, err := f.service.Create(context.Background(), 1, CreateTeamInput{Name: "Alpha"})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestTeamService_GetByIDLoadsPlayers(t *testing.T) {
	f := newTeamServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})
	f.playerRepo.add(models.Player{ProfileID: 10, TeamID: &team.ID})
	f.playerRepo.add(models.Player{ProfileID: 11, TeamID: &team.ID})
	f.playerRepo.add(models.Player{ProfileID: 12})

	got, err := f.service.GetByID(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, 2)
}

// Каскад идёт строго по порядку: сначала зависимые записи, команда последней.
func TestTeamService_DeleteCascadeOrder(t *testing.T) {
	f := newTeamServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})
	player := f.playerRepo.add(models.Player{ProfileID: 10, TeamID: &team.ID})

	require.NoError(t, f.service.Delete(context.Background(), 1, team.ID))

	assert.Equal(t, []string{"unassign_players", "delete_goals", "delete_matches", "delete_team"}, f.log)

	// Игроки остаются в системе, но без команды.
	stored, err := f.playerRepo.GetByID(context.Background(), player.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TeamID)

	_, err = f.teamRepo.GetByID(context.Background(), team.ID)
	assert.ErrorIs(t, err, repositories.ErrTeamNotFound)
}

func TestTeamService_DeleteRemovesCrestFile(t *testing.T) {
	f := newTeamServiceFixture(t)
	crestKey := "crests/team_1.png"
	team := f.teamRepo.add(models.Team{Name: "Alpha", CrestKey: &crestKey})

	require.NoError(t, f.service.Delete(context.Background(), 1, team.ID))
	assert.Equal(t, []string{crestKey}, f.uploader.deleted)
}

func TestTeamService_DeleteUnknownTeam(t *testing.T) {
	f := newTeamServiceFixture(t)

	err := f.service.Delete(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func crestFileHeader(filename, contentType string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestTeamService_UploadCrest(t *testing.T) {
	f := newTeamServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})

	updated, err := f.service.UploadCrest(context.Background(), 1, team.ID,
		crestFileHeader("logo.png", "image/png"), strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated.CrestKey)
	assert.Equal(t, "crests/team_1.png", *updated.CrestKey)
	require.NotNil(t, updated.CrestURL)
	assert.Equal(t, "https://cdn.test/crests/team_1.png", *updated.CrestURL)
}

func TestTeamService_UploadCrestReplacesOldFile(t *testing.T) {
	f := newTeamServiceFixture(t)
	oldKey := "crests/team_1.jpg"
	team := f.teamRepo.add(models.Team{Name: "Alpha", CrestKey: &oldKey})

	_, err := f.service.UploadCrest(context.Background(), 1, team.ID,
		crestFileHeader("logo.png", "image/png"), strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []string{oldKey}, f.uploader.deleted)
}

func TestTeamService_UploadCrestRejectsNonImage(t *testing.T) {
	f := newTeamServiceFixture(t)
	team := f.teamRepo.add(models.Team{Name: "Alpha"})

	_, err := f.service.UploadCrest(context.Background(), 1, team.ID,
		crestFileHeader("notes.txt", "text/plain"), strings.NewReader("text"))
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.uploader.uploaded)
}
