package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
)

type PlayerService interface {
	GetByID(ctx context.Context, playerID int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	AssignPlayers(ctx context.Context, callerID int, updates []PlayerAssignment) error
	Delete(ctx context.Context, callerID, playerID int) error
}

// PlayerAssignment — одна перестановка: TeamID == nil отвязывает игрока.
type PlayerAssignment struct {
	ID     int  `json:"id"`
	TeamID *int `json:"team_id"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	goalRepo   repositories.GoalRepository
	teamRepo   repositories.TeamRepository
	access     AccessGuard
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	goalRepo repositories.GoalRepository,
	teamRepo repositories.TeamRepository,
	access AccessGuard,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		goalRepo:   goalRepo,
		teamRepo:   teamRepo,
		access:     access,
	}
}

func (s *playerService) GetByID(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// AssignPlayers применяет перестановки последовательно; первая ошибка
// прерывает оставшиеся и возвращается с номером шага. Уже применённые
// перестановки не откатываются.
func (s *playerService) AssignPlayers(ctx context.Context, callerID int, updates []PlayerAssignment) error {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	for i, u := range updates {
		if u.ID == 0 {
			continue
		}
		if u.TeamID != nil {
			if _, err := s.teamRepo.GetByID(ctx, *u.TeamID); err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return fmt.Errorf("assignment %d (player %d): %w", i+1, u.ID, ErrTeamNotFound)
				}
				return fmt.Errorf("assignment %d (player %d): failed to check team: %w", i+1, u.ID, err)
			}
		}
		if err := s.playerRepo.UpdateTeam(ctx, nil, u.ID, u.TeamID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fmt.Errorf("assignment %d (player %d): %w", i+1, u.ID, ErrPlayerNotFound)
			}
			return fmt.Errorf("assignment %d (player %d): %w", i+1, u.ID, err)
		}
	}
	return nil
}

// Delete удаляет сначала голы игрока, затем самого игрока.
func (s *playerService) Delete(ctx context.Context, callerID, playerID int) error {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	if err := s.goalRepo.DeleteByPlayerID(ctx, nil, playerID); err != nil {
		return fmt.Errorf("delete player %d: delete goals step failed: %w", playerID, err)
	}
	if err := s.playerRepo.Delete(ctx, nil, playerID); err != nil {
		return fmt.Errorf("delete player %d: delete player step failed: %w", playerID, err)
	}
	return nil
}
