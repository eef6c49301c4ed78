package models

import "time"

// MatchStatus соответствует ENUM match_status в БД.
// Статус двигается только вперёд: UPCOMING -> LIVE -> DONE.
type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "UPCOMING"
	MatchStatusLive     MatchStatus = "LIVE"
	MatchStatusDone     MatchStatus = "DONE"
)

type Match struct {
	ID         int         `json:"id" db:"id"`
	HomeTeamID int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int         `json:"away_team_id" db:"away_team_id"`
	StartsAt   time.Time   `json:"starts_at" db:"starts_at"`
	Venue      string      `json:"venue" db:"venue"`
	Status     MatchStatus `json:"status" db:"status"`
	HomeScore  int         `json:"home_score" db:"home_score"`
	AwayScore  int         `json:"away_score" db:"away_score"`
	GroupLabel *string     `json:"group_label,omitempty" db:"group_label"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}
