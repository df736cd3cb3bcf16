// Package conflict implements interval overlap detection between a candidate
// event and a stored schedule. All functions are queries and never mutate
// their input.
package conflict

import (
	"sort"
	"time"

	"agenda/event"
)

// maxSuggestions limits how many alternative starts are proposed per
// candidate.
const maxSuggestions = 3

// Slot is a free half-open interval [From, To).
type Slot struct {
	From time.Time
	To   time.Time
}

// Minutes returns the slot length in whole minutes.
func (s Slot) Minutes() int {
	return int(s.To.Sub(s.From) / time.Minute)
}

// FindConflicts returns every existing event whose interval strictly overlaps
// the candidate's, in chronological order. Events sharing the candidate's
// start key are skipped as they address the candidate's own slot.
func FindConflicts(candidate event.Event, existing []event.Event) []event.Event {
	candidateKey := event.Key(candidate.Start)
	conflicts := make([]event.Event, 0)
	for _, other := range existing {
		if event.Key(other.Start).Equal(candidateKey) {
			continue
		}
		if candidate.Overlaps(other) {
			conflicts = append(conflicts, other)
		}
	}
	sortEvents(conflicts)
	return conflicts
}

// SuggestAlternatives proposes start times at or after the candidate's
// original start that keep its interval disjoint from every existing event.
// The search is bounded to the candidate's calendar day: a suggestion must
// end by midnight. Without any fitting slot an empty slice is returned.
func SuggestAlternatives(candidate event.Event, existing []event.Event) []time.Time {
	duration := time.Duration(candidate.Duration) * time.Minute
	suggestions := make([]time.Time, 0, maxSuggestions)
	for _, slot := range FreeSlots(candidate.Day(), withoutKey(existing, candidate.Start)) {
		from := slot.From
		if from.Before(candidate.Start) {
			from = candidate.Start
		}
		if !from.Add(duration).After(slot.To) {
			suggestions = append(suggestions, from)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}

// FreeSlots returns the ordered free gaps on the given calendar day,
// considering all events starting that day. The day spans from midnight to
// the following midnight.
func FreeSlots(day time.Time, existing []event.Event) []Slot {
	dayStart := event.StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayEvents := make([]event.Event, 0)
	for _, e := range existing {
		if e.Day().Equal(dayStart) {
			dayEvents = append(dayEvents, e)
		}
	}
	sortEvents(dayEvents)
	slots := make([]Slot, 0)
	lastEnd := dayStart
	for _, e := range dayEvents {
		if e.Start.After(lastEnd) {
			slots = append(slots, Slot{From: lastEnd, To: e.Start})
		}
		if e.End().After(lastEnd) {
			lastEnd = e.End()
		}
	}
	if lastEnd.Before(dayEnd) {
		slots = append(slots, Slot{From: lastEnd, To: dayEnd})
	}
	return slots
}

// withoutKey filters out events stored at the given start key.
func withoutKey(events []event.Event, start time.Time) []event.Event {
	key := event.Key(start)
	filtered := make([]event.Event, 0, len(events))
	for _, e := range events {
		if event.Key(e.Start).Equal(key) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func sortEvents(events []event.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
