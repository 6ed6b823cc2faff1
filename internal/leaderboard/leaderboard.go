package leaderboard

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
)

// RankedRow is one guild's position on a month's leaderboard
type RankedRow struct {
	Rank       int     `json:"rank"`
	Guild      string  `json:"guild"`
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	Score      float64 `json:"score"`
	ScoreUnit  string  `json:"score_unit"`
	Display    string  `json:"display"`
	BarPercent float64 `json:"bar_percent"`
}

// Rank orders scores highest first. Equal scores keep their input order and
// still get distinct consecutive ranks.
func Rank(scores []*models.GamesScore) []RankedRow {
	sorted := make([]*models.GamesScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	rows := make([]RankedRow, len(sorted))
	for i, s := range sorted {
		row := RankedRow{
			Rank:      i + 1,
			Guild:     s.Guild,
			Name:      s.Guild,
			Score:     s.Score,
			ScoreUnit: s.ScoreUnit,
			Display:   FormatScore(s.Score, s.ScoreUnit),
		}
		if g, ok := guilds.Get(s.Guild); ok {
			row.Name, row.Emoji = g.Name, g.Emoji
		}
		if top := sorted[0].Score; top > 0 {
			row.BarPercent = s.Score / top * 100
		}
		rows[i] = row
	}
	return rows
}

// IsHourUnit reports whether unit measures time in hours
func IsHourUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.Contains(u, "hour") || u == "h" || u == "hr" || u == "hrs"
}

// FormatScore renders hour-based scores as "{h}h {mm}m" and everything else as an integer
func FormatScore(score float64, unit string) string {
	if !IsHourUnit(unit) {
		return strconv.FormatInt(int64(math.Round(score)), 10)
	}

	hours := math.Floor(score)
	minutes := math.Round((score - hours) * 60)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%dh %02dm", int64(hours), int64(minutes))
}

// Winner returns the rank-1 guild of a completed month
func Winner(month *models.GamesMonth, rows []RankedRow) (string, bool) {
	if month == nil || month.Status != models.MonthCompleted || len(rows) == 0 {
		return "", false
	}
	return rows[0].Guild, true
}
