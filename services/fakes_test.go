package services

import (
	"context"
	"time"

	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/repositories"
)

// Ин-мемори заглушки репозиториев для юнит-тестов сервисного слоя.
// Хранят состояние в мапах и фиксируют порядок вызовов там, где он важен.

type allowAllGuard struct{}

func (allowAllGuard) RequireAdmin(context.Context, int) error { return nil }

type denyGuard struct{}

func (denyGuard) RequireAdmin(context.Context, int) error { return ErrAdminRoleRequired }

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int

	activateDueErr error
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) add(m models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	}
	cp := m
	r.matches[cp.ID] = &cp
	return &cp
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	match.CreatedAt = time.Now()
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) List(context.Context) ([]models.Match, error) {
	out := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByStatus(_ context.Context, status models.MatchStatus) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, id int, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, id int, homeScore, awayScore int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	return nil
}

func (r *fakeMatchRepo) ActivateDue(_ context.Context, now time.Time) ([]int, error) {
	if r.activateDueErr != nil {
		return nil, r.activateDueErr
	}
	var ids []int
	for _, m := range r.matches {
		if m.Status == models.MatchStatusUpcoming && !m.StartsAt.After(now) {
			m.Status = models.MatchStatusLive
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (r *fakeMatchRepo) DeleteByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for id, m := range r.matches {
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			delete(r.matches, id)
		}
	}
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeGoalRepo struct {
	goals  map[int]*models.Goal
	nextID int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[int]*models.Goal), nextID: 1}
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *models.Goal) error {
	goal.ID = r.nextID
	r.nextID++
	goal.CreatedAt = time.Now()
	cp := *goal
	r.goals[goal.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) List(context.Context) ([]models.Goal, error) {
	out := make([]models.Goal, 0, len(r.goals))
	for _, g := range r.goals {
		out = append(out, *g)
	}
	return out, nil
}

func (r *fakeGoalRepo) ListByMatchID(_ context.Context, matchID int) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range r.goals {
		if g.MatchID == matchID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) DeleteByMatchID(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	for id, g := range r.goals {
		if g.MatchID == matchID {
			delete(r.goals, id)
		}
	}
	return nil
}

func (r *fakeGoalRepo) DeleteByPlayerID(_ context.Context, _ repositories.SQLExecutor, playerID int) error {
	for id, g := range r.goals {
		if g.PlayerID == playerID {
			delete(r.goals, id)
		}
	}
	return nil
}

func (r *fakeGoalRepo) DeleteByTeamMatches(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(t models.Team) *models.Team {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	cp := t
	r.teams[cp.ID] = &cp
	return &cp
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) List(context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateCrestKey(_ context.Context, id int, crestKey *string) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.CrestKey = crestKey
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(p models.Player) *models.Player {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	cp := p
	r.players[cp.ID] = &cp
	return &cp
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	player.CreatedAt = time.Now()
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) List(context.Context) ([]models.Player, error) {
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePlayerRepo) ListByTeamID(_ context.Context, teamID int) ([]models.Player, error) {
	var out []models.Player
	for _, p := range r.players {
		if p.TeamID != nil && *p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) UpdateTeam(_ context.Context, _ repositories.SQLExecutor, playerID int, teamID *int) error {
	p, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.TeamID = teamID
	return nil
}

func (r *fakePlayerRepo) UnassignByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for _, p := range r.players {
		if p.TeamID != nil && *p.TeamID == teamID {
			p.TeamID = nil
		}
	}
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeProfileRepo struct {
	profiles map[int]*models.Profile
	nextID   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int]*models.Profile), nextID: 1}
}

func (r *fakeProfileRepo) add(p models.Profile) *models.Profile {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	cp := p
	r.profiles[cp.ID] = &cp
	return &cp
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	for _, p := range r.profiles {
		if p.Email == profile.Email {
			return repositories.ErrProfileEmailConflict
		}
		if p.Username == profile.Username {
			return repositories.ErrProfileUsernameConflict
		}
	}
	profile.ID = r.nextID
	r.nextID++
	profile.CreatedAt = time.Now()
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id int) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) List(context.Context) ([]models.Profile, error) {
	out := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) UpdateRole(_ context.Context, _ repositories.SQLExecutor, id int, role models.ProfileRole) error {
	p, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.profiles[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

type fakeAdminRequestRepo struct {
	requests map[int]*models.AdminRequest
	nextID   int
}

func newFakeAdminRequestRepo() *fakeAdminRequestRepo {
	return &fakeAdminRequestRepo{requests: make(map[int]*models.AdminRequest), nextID: 1}
}

func (r *fakeAdminRequestRepo) add(req models.AdminRequest) *models.AdminRequest {
	if req.ID == 0 {
		req.ID = r.nextID
		r.nextID++
	}
	cp := req
	r.requests[cp.ID] = &cp
	return &cp
}

func (r *fakeAdminRequestRepo) Create(_ context.Context, request *models.AdminRequest) error {
	request.ID = r.nextID
	r.nextID++
	request.RequestedAt = time.Now()
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeAdminRequestRepo) GetByID(_ context.Context, id int) (*models.AdminRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrAdminRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeAdminRequestRepo) GetLatestByUserID(_ context.Context, userID int) (*models.AdminRequest, error) {
	var latest *models.AdminRequest
	for _, req := range r.requests {
		if req.UserID != userID {
			continue
		}
		if latest == nil || req.RequestedAt.After(latest.RequestedAt) {
			latest = req
		}
	}
	if latest == nil {
		return nil, repositories.ErrAdminRequestNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeAdminRequestRepo) HasPendingForUser(_ context.Context, userID int) (bool, error) {
	for _, req := range r.requests {
		if req.UserID == userID && req.Status == models.AdminRequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdminRequestRepo) List(_ context.Context, status *models.AdminRequestStatus) ([]models.AdminRequest, error) {
	var out []models.AdminRequest
	for _, req := range r.requests {
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeAdminRequestRepo) SetReviewed(_ context.Context, _ repositories.SQLExecutor, id int, status models.AdminRequestStatus, reviewerID int, reviewedAt time.Time, reason *string) error {
	req, ok := r.requests[id]
	if !ok || req.Status != models.AdminRequestPending {
		// Реальный репозиторий обновляет только PENDING-заявки.
		return repositories.ErrAdminRequestNotFound
	}
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &reviewedAt
	req.Reason = reason
	return nil
}
