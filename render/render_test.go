package render

import (
	"strings"
	"testing"
	"time"

	"agenda/event"
	"agenda/report"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	var sb strings.Builder
	Events(&sb, []event.Event{
		{
			Name:     "Team Meeting",
			Category: "work",
			Start:    time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local),
			Duration: 60,
		},
	})
	out := sb.String()
	assert.Contains(t, out, "2024-09-01 09:00", "should render the start timestamp")
	assert.Contains(t, out, "Team Meeting", "should render the name")
	assert.Contains(t, out, "Work", "should render the capitalized category")
	assert.Contains(t, out, "60", "should render the duration")
}

func TestCategoryTotalsOrder(t *testing.T) {
	var sb strings.Builder
	CategoryTotals(&sb, map[string]int{
		"work":     90,
		"exercise": 120,
	})
	out := sb.String()
	assert.Less(t, strings.Index(out, "Exercise"), strings.Index(out, "Work"),
		"category with the most minutes should come first")
}

func TestTrend(t *testing.T) {
	var sb strings.Builder
	Trend(&sb, []report.TrendRow{
		{
			Bucket:             "2024-W36",
			BucketStart:        time.Date(2024, 9, 2, 0, 0, 0, 0, time.Local),
			TotalMinutes:       150,
			TopCategory:        "exercise",
			TopCategoryMinutes: 90,
		},
	})
	out := sb.String()
	assert.Contains(t, out, "2024-W36", "should render the bucket label")
	assert.Contains(t, out, "150", "should render the total")
	assert.Contains(t, out, "Exercise", "should render the top category")
}
