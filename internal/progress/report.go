package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/voltprep/revision-service/internal/models"
)

// ReportPoint is one plotted point of the progress chart: the running average
// of all attempt scores up to and including this attempt, plus the formatted
// per-attempt tooltip fields.
type ReportPoint struct {
	Label string `json:"label"`
	// Average is the cumulative mean of scores 0..i, rounded for display.
	// A cumulative mean, not a moving window: one bad attempt should not
	// dominate the visible trend.
	Average int    `json:"average"`
	Score   int    `json:"score"`
	Ratio   string `json:"ratio"`
	Elapsed string `json:"elapsed"`
	Date    string `json:"date"`
}

// BuildSeries computes the running-average series over the records, sorted by
// date, optionally filtered to one topic (empty topic keeps everything).
// Records whose date fails to parse sort first, preserving insertion order.
func BuildSeries(records []models.AttemptRecord, topic string) []ReportPoint {
	filtered := make([]models.AttemptRecord, 0, len(records))
	for _, r := range records {
		if topic == "" || r.Topic == topic {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ti, iok := parseDate(filtered[i].Date)
		tj, jok := parseDate(filtered[j].Date)
		if !iok || !jok {
			return !iok && jok
		}
		return ti.Before(tj)
	})

	points := make([]ReportPoint, len(filtered))
	sum := 0
	for i, r := range filtered {
		sum += r.Score
		points[i] = ReportPoint{
			Label:   r.Label,
			Average: int(math.Round(float64(sum) / float64(i+1))),
			Score:   r.Score,
			Ratio:   fmt.Sprintf("%d/%d", r.Correct, r.Total),
			Elapsed: FormatElapsed(r.SecondsTaken),
			Date:    FormatDate(r.Date),
		}
	}
	return points
}

// FormatElapsed renders whole seconds as mm:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDate renders a stored ISO-8601 date as dd/mm/yyyy. Unparseable dates
// pass through unchanged rather than breaking the report.
func FormatDate(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return t.Format("02/01/2006")
}

func parseDate(date string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
