// Package report aggregates a schedule into category, day and trend
// summaries. All functions are pure queries over the given event slice.
package report

import (
	"fmt"
	"sort"
	"time"

	"agenda/errors"
	"agenda/event"
)

// Period is the bucketing unit for trend summaries.
type Period string

const (
	// PeriodDay buckets events per calendar day.
	PeriodDay Period = "day"
	// PeriodWeek buckets events per ISO week.
	PeriodWeek Period = "week"
)

// ParsePeriod validates a raw period label.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	}
	return "", errors.NewInvalidInputError(fmt.Sprintf("invalid period %q, expected %q or %q",
		raw, PeriodDay, PeriodWeek), errors.Details{"raw": raw})
}

// CategoryTotals returns the total minutes spent per category. Categories
// without events do not appear in the result.
func CategoryTotals(events []event.Event) map[string]int {
	totals := make(map[string]int)
	for _, e := range events {
		totals[e.Category] += e.Duration
	}
	return totals
}

// DayLoad is the load of a single calendar day.
type DayLoad struct {
	// Day is midnight of the calendar day.
	Day time.Time
	// Minutes is the total scheduled minutes of events starting that day.
	Minutes int
	// Events is the number of events starting that day.
	Events int
}

// BusiestDays returns per-day loads sorted most loaded first. Days are ranked
// by total scheduled minutes, not by event count. Ties are ordered
// chronologically.
func BusiestDays(events []event.Event) []DayLoad {
	byDay := make(map[time.Time]DayLoad)
	for _, e := range events {
		day := e.Day()
		load := byDay[day]
		load.Day = day
		load.Minutes += e.Duration
		load.Events++
		byDay[day] = load
	}
	loads := make([]DayLoad, 0, len(byDay))
	for _, load := range byDay {
		loads = append(loads, load)
	}
	sort.Slice(loads, func(i, j int) bool {
		if loads[i].Minutes != loads[j].Minutes {
			return loads[i].Minutes > loads[j].Minutes
		}
		return loads[i].Day.Before(loads[j].Day)
	})
	return loads
}

// TrendRow is one bucket of a trend summary.
type TrendRow struct {
	// Bucket is the human-readable bucket label, e.g. "2024-09-01" for days
	// or "2024-W35" for weeks.
	Bucket string
	// BucketStart is the first instant of the bucket, used for ordering and
	// rendering.
	BucketStart time.Time
	// TotalMinutes is the total scheduled minutes in the bucket.
	TotalMinutes int
	// TopCategory is the category with the most minutes in the bucket.
	TopCategory string
	// TopCategoryMinutes is the scheduled minutes of TopCategory.
	TopCategoryMinutes int
}

// TrendSummary groups events into buckets of the given period and returns one
// row per non-empty bucket in chronological order, revealing how allocation
// shifts over time.
func TrendSummary(events []event.Event, period Period) []TrendRow {
	type bucketAgg struct {
		start      time.Time
		byCategory map[string]int
	}
	buckets := make(map[string]bucketAgg)
	for _, e := range events {
		label, start := bucketOf(e, period)
		agg, ok := buckets[label]
		if !ok {
			agg = bucketAgg{start: start, byCategory: make(map[string]int)}
		}
		agg.byCategory[e.Category] += e.Duration
		buckets[label] = agg
	}
	rows := make([]TrendRow, 0, len(buckets))
	for label, agg := range buckets {
		row := TrendRow{
			Bucket:      label,
			BucketStart: agg.start,
		}
		for category, minutes := range agg.byCategory {
			row.TotalMinutes += minutes
			if minutes > row.TopCategoryMinutes ||
				(minutes == row.TopCategoryMinutes && category < row.TopCategory) {
				row.TopCategory = category
				row.TopCategoryMinutes = minutes
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].BucketStart.Before(rows[j].BucketStart)
	})
	return rows
}

// bucketOf returns the bucket label and bucket start for the given event.
func bucketOf(e event.Event, period Period) (string, time.Time) {
	if period == PeriodWeek {
		weekStart := startOfISOWeek(e.Start)
		year, week := e.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), weekStart
	}
	day := e.Day()
	return day.Format(event.DayLayout), day
}

// startOfISOWeek returns midnight of the Monday of t's ISO week.
func startOfISOWeek(t time.Time) time.Time {
	day := event.StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}
