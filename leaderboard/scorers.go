package leaderboard

import (
	"sort"

	"github.com/Samat21/unileague/models"
)

// DefaultScorersLimit — сколько бомбардиров показываем по умолчанию.
const DefaultScorersLimit = 10

// NoTeamName подставляется игрокам без команды.
const NoTeamName = "No Team"

// ScorerRecord — строка списка бомбардиров.
type ScorerRecord struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
	Goals      int    `json:"goals"`
}

// ComputeTopScorers считает голы по игрокам и возвращает первые limit записей.
// Считаются ВСЕ голы, включая голы в LIVE-матчах и автоголы: автогол
// остаётся приписан тому игроку, на которого записан в журнале голов.
// Сортировка: голы desc, имя игрока asc (детерминизм).
func ComputeTopScorers(goals []models.Goal, players []models.Player, profiles []models.Profile, teams []models.Team, limit int) []ScorerRecord {
	if limit <= 0 {
		limit = DefaultScorersLimit
	}

	playerByID := make(map[int]models.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}
	profileByID := make(map[int]models.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}
	teamByID := make(map[int]models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	counts := make(map[int]*ScorerRecord)
	for _, g := range goals {
		r, ok := counts[g.PlayerID]
		if !ok {
			r = &ScorerRecord{PlayerID: g.PlayerID, TeamName: NoTeamName}
			if p, found := playerByID[g.PlayerID]; found {
				if prof, found := profileByID[p.ProfileID]; found {
					r.PlayerName = prof.FullName
				}
				if p.TeamID != nil {
					if t, found := teamByID[*p.TeamID]; found {
						r.TeamName = t.Name
					}
				}
			}
			counts[g.PlayerID] = r
		}
		r.Goals++
	}

	ranked := make([]ScorerRecord, 0, len(counts))
	for _, r := range counts {
		ranked = append(ranked, *r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Goals != ranked[j].Goals {
			return ranked[i].Goals > ranked[j].Goals
		}
		return ranked[i].PlayerName < ranked[j].PlayerName
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
