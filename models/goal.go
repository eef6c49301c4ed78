package models

import "time"

// Goal — неизменяемое событие. Вставка гола НЕ трогает счёт матча:
// home_score/away_score редактируются отдельно (см. MatchService.UpdateScore).
type Goal struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match_id"`
	PlayerID  int       `json:"player_id"`
	Minute    int       `json:"minute"`
	OwnGoal   bool      `json:"own_goal"`
	CreatedAt time.Time `json:"created_at"`
}
