package progress

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltprep/revision-service/internal/models"
)

func attempt(topic string, score int, day int) models.AttemptRecord {
	return models.AttemptRecord{
		Label:        topic,
		Score:        score,
		Type:         models.AttemptTypePractice,
		Date:         time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Topic:        topic,
		Correct:      score / 10,
		Total:        10,
		SecondsTaken: 95,
	}
}

func TestBuildSeries_RunningAverage(t *testing.T) {
	records := []models.AttemptRecord{
		attempt("health-safety", 100, 1),
		attempt("health-safety", 50, 2),
		attempt("health-safety", 60, 3),
	}

	series := BuildSeries(records, "")
	require.Len(t, series, 3)

	assert.Equal(t, 100, series[0].Average)
	assert.Equal(t, 75, series[1].Average) // (100+50)/2
	assert.Equal(t, 70, series[2].Average) // (100+50+60)/3
}

func TestBuildSeries_LastPointEqualsRoundedMean(t *testing.T) {
	scores := []int{73, 88, 41, 90, 65, 100, 57}
	records := make([]models.AttemptRecord, len(scores))
	sum := 0
	for i, s := range scores {
		records[i] = attempt("topic", s, i+1)
		sum += s
	}

	series := BuildSeries(records, "")
	require.Len(t, series, len(scores))

	want := int(math.Round(float64(sum) / float64(len(scores))))
	assert.Equal(t, want, series[len(series)-1].Average)
}

func TestBuildSeries_SortsByDate(t *testing.T) {
	// Inserted out of chronological order.
	records := []models.AttemptRecord{
		attempt("t", 60, 20),
		attempt("t", 100, 5),
		attempt("t", 80, 12),
	}

	series := BuildSeries(records, "")
	require.Len(t, series, 3)
	assert.Equal(t, 100, series[0].Score)
	assert.Equal(t, 80, series[1].Score)
	assert.Equal(t, 60, series[2].Score)
	assert.Equal(t, 100, series[0].Average)
	assert.Equal(t, 90, series[1].Average)
	assert.Equal(t, 80, series[2].Average)
}

func TestBuildSeries_TopicFilter(t *testing.T) {
	records := []models.AttemptRecord{
		attempt("health-safety", 100, 1),
		attempt("electrical-science", 20, 2),
		attempt("health-safety", 50, 3),
	}

	series := BuildSeries(records, "health-safety")
	require.Len(t, series, 2)
	assert.Equal(t, 100, series[0].Score)
	assert.Equal(t, 50, series[1].Score)
	assert.Equal(t, 75, series[1].Average, "other topics must not leak into the average")
}

func TestBuildSeries_TooltipFields(t *testing.T) {
	r := attempt("health-safety", 70, 9)
	r.Correct = 7
	r.Total = 10
	r.SecondsTaken = 125

	series := BuildSeries([]models.AttemptRecord{r}, "")
	require.Len(t, series, 1)
	assert.Equal(t, "7/10", series[0].Ratio)
	assert.Equal(t, "02:05", series[0].Elapsed)
	assert.Equal(t, "09/03/2026", series[0].Date)
}

func TestBuildSeries_Empty(t *testing.T) {
	assert.Empty(t, BuildSeries(nil, ""))
	assert.Empty(t, BuildSeries([]models.AttemptRecord{}, "missing-topic"))
}

func TestFormatElapsed(t *testing.T) {
	for _, tc := range []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{95, "01:35"},
		{3605, "60:05"},
		{-3, "00:00"},
	} {
		assert.Equal(t, tc.want, FormatElapsed(tc.seconds), fmt.Sprintf("%d seconds", tc.seconds))
	}
}

func TestFormatDate_UnparseablePassesThrough(t *testing.T) {
	assert.Equal(t, "not a date", FormatDate("not a date"))
	assert.Equal(t, "14/02/2026", FormatDate("2026-02-14T09:30:00Z"))
}
