package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
	"github.com/Samat21/unileague/storage"
)

type TeamService interface {
	Create(ctx context.Context, callerID int, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, teamID int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, callerID, teamID int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, callerID, teamID int) error
	UploadCrest(ctx context.Context, callerID, teamID int, fileHeader *multipart.FileHeader, file io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name       string  `json:"name"`
	University string  `json:"university"`
	GroupLabel *string `json:"group_label,omitempty"`
}

type UpdateTeamInput struct {
	Name       *string `json:"name,omitempty"`
	University *string `json:"university,omitempty"`
	GroupLabel *string `json:"group_label,omitempty"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	goalRepo   repositories.GoalRepository
	access     AccessGuard
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	access AccessGuard,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		goalRepo:   goalRepo,
		access:     access,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *teamService) Create(ctx context.Context, callerID int, input CreateTeamInput) (*models.Team, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:       strings.TrimSpace(input.Name),
		University: input.University,
		GroupLabel: input.GroupLabel,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	players, err := s.playerRepo.ListByTeamID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players of team %d: %w", teamID, err)
	}
	team.Players = players
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.populateCrestURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, callerID, teamID int, input UpdateTeamInput) (*models.Team, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = strings.TrimSpace(*input.Name)
	}
	if input.University != nil {
		team.University = *input.University
	}
	if input.GroupLabel != nil {
		team.GroupLabel = input.GroupLabel
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	s.populateCrestURL(team)
	return team, nil
}

// Delete выполняет каскад строго по порядку: отвязать игроков, удалить голы
// матчей команды, удалить матчи, удалить команду. Автоотката нет — при сбое
// возвращаем ошибку с указанием шага, на котором остановились.
func (s *teamService) Delete(ctx context.Context, callerID, teamID int) error {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	if err := s.playerRepo.UnassignByTeamID(ctx, nil, teamID); err != nil {
		return fmt.Errorf("delete team %d: unassign players step failed: %w", teamID, err)
	}
	if err := s.goalRepo.DeleteByTeamMatches(ctx, nil, teamID); err != nil {
		return fmt.Errorf("delete team %d: delete goals step failed: %w", teamID, err)
	}
	if err := s.matchRepo.DeleteByTeamID(ctx, nil, teamID); err != nil {
		return fmt.Errorf("delete team %d: delete matches step failed: %w", teamID, err)
	}
	if err := s.teamRepo.Delete(ctx, nil, teamID); err != nil {
		return fmt.Errorf("delete team %d: delete team step failed: %w", teamID, err)
	}

	if team.CrestKey != nil {
		if err := s.uploader.Delete(ctx, *team.CrestKey); err != nil {
			// Осиротевший файл в бакете не критичен.
			s.logger.Warn("failed to delete team crest", slog.Int("team_id", teamID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *teamService) UploadCrest(ctx context.Context, callerID, teamID int, fileHeader *multipart.FileHeader, file io.Reader) (*models.Team, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: crest must be an image", ErrValidationFailed)
	}

	key := fmt.Sprintf("crests/team_%d%s", teamID, filepath.Ext(fileHeader.Filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", teamID, err)
	}

	oldKey := team.CrestKey
	if err := s.teamRepo.UpdateCrestKey(ctx, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to save crest key for team %d: %w", teamID, err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous crest", slog.Int("team_id", teamID), slog.Any("error", err))
		}
	}

	team.CrestKey = &result.Key
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) populateCrestURL(team *models.Team) {
	if team.CrestKey != nil {
		url := s.uploader.GetPublicURL(*team.CrestKey)
		team.CrestURL = &url
	}
}
