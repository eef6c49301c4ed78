package models

import "time"

// Player связывает профиль с командой. TeamID == nil означает "без команды".
type Player struct {
	ID        int       `json:"id"`
	ProfileID int       `json:"profile_id"`
	TeamID    *int      `json:"team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Profile *Profile `json:"profile,omitempty"`
	Team    *Team    `json:"team,omitempty"`
}
