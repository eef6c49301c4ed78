package services

import (
	"context"
	"testing"

	"github.com/Samat21/unileague/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceFixture(t *testing.T) (AuthService, *fakeProfileRepo, *fakePlayerRepo) {
	t.Helper()
	profileRepo := newFakeProfileRepo()
	playerRepo := newFakePlayerRepo()
	return NewAuthService(profileRepo, playerRepo), profileRepo, playerRepo
}

func TestAuthService_RegisterCreatesPlayerWithoutTeam(t *testing.T) {
	service, _, playerRepo := newAuthServiceFixture(t)

	profile, err := service.Register(context.Background(), RegisterInput{
		Username: "ivan",
		FullName: "Ivan Petrov",
		Email:    "ivan@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolePlayer, profile.Role)
	assert.Empty(t, profile.PasswordHash)

	players, err := playerRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, profile.ID, players[0].ProfileID)
	assert.Nil(t, players[0].TeamID)
}

func TestAuthService_RegisterRejectsShortPassword(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	input := RegisterInput{Username: "ivan", Email: "ivan@example.com", Password: "correct-horse"}
	_, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	input.Username = "ivan2"
	_, err = service.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrProfileEmailConflict)
}

func TestAuthService_Login(t *testing.T) {
	service, _, _ := newAuthServiceFixture(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	profile, err := service.Login(context.Background(), LoginInput{Email: "ivan@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ivan", profile.Username)
	assert.Empty(t, profile.PasswordHash)

	_, err = service.Login(context.Background(), LoginInput{Email: "ivan@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = service.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
