package leaderboard

import (
	"sort"

	"github.com/Samat21/unileague/models"
)

// TeamRecord — строка турнирной таблицы.
type TeamRecord struct {
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name"`
	University    string `json:"university"`
	GroupLabel    string `json:"group_label"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	GoalsFor      int    `json:"goals_for"`
	GoalsAgainst  int    `json:"goals_against"`
	Points        int    `json:"points"`
}

func (r TeamRecord) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// ComputeStandings сворачивает завершённые матчи в отсортированную таблицу.
// Учитываются только матчи со статусом DONE; команда без сыгранных матчей
// в таблицу не попадает вовсе. Победа — 3 очка, ничья — по 1.
// Сортировка: points desc, разница мячей desc, имя команды asc (детерминизм).
func ComputeStandings(matches []models.Match) []TeamRecord {
	acc := make(map[int]*TeamRecord)

	record := func(team *models.Team, teamID int) *TeamRecord {
		if r, ok := acc[teamID]; ok {
			return r
		}
		r := &TeamRecord{TeamID: teamID}
		if team != nil {
			r.TeamName = team.Name
			r.University = team.University
			if team.GroupLabel != nil {
				r.GroupLabel = *team.GroupLabel
			}
		}
		acc[teamID] = r
		return r
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusDone {
			continue
		}

		home := record(m.HomeTeam, m.HomeTeamID)
		away := record(m.AwayTeam, m.AwayTeamID)

		home.MatchesPlayed++
		away.MatchesPlayed++
		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			home.Points += 3
			away.Losses++
		case m.HomeScore < m.AwayScore:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	table := make([]TeamRecord, 0, len(acc))
	for _, r := range acc {
		table = append(table, *r)
	}

	sort.Slice(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].GoalDifference() != table[j].GoalDifference() {
			return table[i].GoalDifference() > table[j].GoalDifference()
		}
		return table[i].TeamName < table[j].TeamName
	})

	return table
}
