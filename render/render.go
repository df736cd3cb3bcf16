// Package render writes schedules and report results as text tables.
package render

import (
	"io"
	"sort"
	"strconv"

	"agenda/conflict"
	"agenda/event"
	"agenda/report"

	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}

// Events writes the given events as a chronological table.
func Events(w io.Writer, events []event.Event) {
	table := newTable(w, []string{"Start", "Name", "Category", "Duration (min)"})
	for _, e := range events {
		table.Append([]string{
			event.FormatTime(e.Start),
			e.Name,
			event.DisplayCategory(e.Category),
			strconv.Itoa(e.Duration),
		})
	}
	table.Render()
}

// CategoryTotals writes per-category totals, most time first.
func CategoryTotals(w io.Writer, totals map[string]int) {
	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if totals[categories[i]] != totals[categories[j]] {
			return totals[categories[i]] > totals[categories[j]]
		}
		return categories[i] < categories[j]
	})
	table := newTable(w, []string{"Category", "Total Time (min)"})
	for _, category := range categories {
		table.Append([]string{
			event.DisplayCategory(category),
			strconv.Itoa(totals[category]),
		})
	}
	table.Render()
}

// BusiestDays writes per-day loads, most loaded day first.
func BusiestDays(w io.Writer, loads []report.DayLoad) {
	table := newTable(w, []string{"Date", "Total Time (min)", "Events"})
	for _, load := range loads {
		table.Append([]string{
			load.Day.Format("Monday, January 02, 2006"),
			strconv.Itoa(load.Minutes),
			strconv.Itoa(load.Events),
		})
	}
	table.Render()
}

// Trend writes trend rows in chronological order.
func Trend(w io.Writer, rows []report.TrendRow) {
	table := newTable(w, []string{"Bucket", "Total Time (min)", "Top Category", "Top Category Time (min)"})
	for _, row := range rows {
		table.Append([]string{
			row.Bucket,
			strconv.Itoa(row.TotalMinutes),
			event.DisplayCategory(row.TopCategory),
			strconv.Itoa(row.TopCategoryMinutes),
		})
	}
	table.Render()
}

// FreeSlots writes the free gaps of a day.
func FreeSlots(w io.Writer, slots []conflict.Slot) {
	table := newTable(w, []string{"Free From", "Free Until", "Minutes"})
	for _, slot := range slots {
		table.Append([]string{
			event.FormatTime(slot.From),
			event.FormatTime(slot.To),
			strconv.Itoa(slot.Minutes()),
		})
	}
	table.Render()
}
