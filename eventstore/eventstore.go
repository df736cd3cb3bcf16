// Package eventstore holds the in-memory schedule and applies mutations to
// it. The schedule is loaded in full from a Persistence collaborator and
// rewritten in full after every successful mutation.
package eventstore

import (
	"context"
	"sort"
	"time"

	"agenda/errors"
	"agenda/event"

	"go.uber.org/zap"
)

// Persistence is the collaborator the schedule is loaded from and written
// back to.
type Persistence interface {
	// LoadEvents reads the full persisted schedule. A missing store loads as
	// an empty schedule.
	LoadEvents(ctx context.Context) ([]event.Event, error)
	// SaveEvents rewrites the full persisted schedule.
	SaveEvents(ctx context.Context, events []event.Event) error
}

// Filter restricts List results.
type Filter struct {
	// Category only lists events of the given category when set. Matching is
	// case-insensitive via category normalization.
	Category string
}

// Store is the authoritative in-memory schedule, keyed by minute-truncated
// start time.
type Store struct {
	logger      *zap.Logger
	persistence Persistence
	events      map[time.Time]event.Event
}

// NewStore creates a new Store backed by the given Persistence. Call Load
// before using it.
func NewStore(logger *zap.Logger, persistence Persistence) *Store {
	return &Store{
		logger:      logger,
		persistence: persistence,
		events:      make(map[time.Time]event.Event),
	}
}

// Load reads the full schedule from the persistence collaborator, replacing
// any in-memory state.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.persistence.LoadEvents(ctx)
	if err != nil {
		return errors.Wrap(err, "load events", nil)
	}
	events := make(map[time.Time]event.Event, len(loaded))
	for _, e := range loaded {
		key := event.Key(e.Start)
		if _, ok := events[key]; ok {
			return errors.NewInternalError("persisted schedule contains duplicate start",
				errors.Details{"start": event.FormatTime(key)})
		}
		e.Start = key
		events[key] = e
	}
	s.events = events
	s.logger.Debug("schedule loaded", zap.Int("event_count", len(s.events)))
	return nil
}

// Add inserts a new event and persists the full schedule. Inserting at an
// occupied start key is rejected.
func (s *Store) Add(ctx context.Context, e event.Event) error {
	if err := event.Validate(e); err != nil {
		return errors.Wrap(err, "validate event", nil)
	}
	e.Start = event.Key(e.Start)
	if _, ok := s.events[e.Start]; ok {
		return errors.NewDuplicateStartError(event.FormatTime(e.Start))
	}
	next := s.clone()
	next[e.Start] = e
	if err := s.commit(ctx, next); err != nil {
		return errors.Wrap(err, "commit add", nil)
	}
	s.logger.Debug("event added", zap.String("start", event.FormatTime(e.Start)),
		zap.String("name", e.Name))
	return nil
}

// Update applies the given partial edit to the event stored at oldStart and
// persists the full schedule. Changing the start re-keys the event; re-keying
// onto an occupied start is rejected. The updated event is returned.
func (s *Store) Update(ctx context.Context, oldStart time.Time, edit event.Edit) (event.Event, error) {
	if edit.Empty() {
		return event.Event{}, errors.NewInvalidInputError("no changes given", nil)
	}
	oldKey := event.Key(oldStart)
	current, ok := s.events[oldKey]
	if !ok {
		return event.Event{}, errors.NewResourceNotFoundError("no event at this start",
			errors.Details{"start": event.FormatTime(oldKey)})
	}
	updated := edit.Apply(current)
	if err := event.Validate(updated); err != nil {
		return event.Event{}, errors.Wrap(err, "validate updated event", nil)
	}
	newKey := event.Key(updated.Start)
	if !newKey.Equal(oldKey) {
		if _, occupied := s.events[newKey]; occupied {
			return event.Event{}, errors.NewDuplicateStartError(event.FormatTime(newKey))
		}
	}
	next := s.clone()
	delete(next, oldKey)
	next[newKey] = updated
	if err := s.commit(ctx, next); err != nil {
		return event.Event{}, errors.Wrap(err, "commit update", nil)
	}
	s.logger.Debug("event updated", zap.String("old_start", event.FormatTime(oldKey)),
		zap.String("start", event.FormatTime(newKey)))
	return updated, nil
}

// Delete removes the event stored at the given start and persists the full
// schedule. The removed event is returned.
func (s *Store) Delete(ctx context.Context, start time.Time) (event.Event, error) {
	key := event.Key(start)
	removed, ok := s.events[key]
	if !ok {
		return event.Event{}, errors.NewResourceNotFoundError("no event at this start",
			errors.Details{"start": event.FormatTime(key)})
	}
	next := s.clone()
	delete(next, key)
	if err := s.commit(ctx, next); err != nil {
		return event.Event{}, errors.Wrap(err, "commit delete", nil)
	}
	s.logger.Debug("event deleted", zap.String("start", event.FormatTime(key)))
	return removed, nil
}

// Get returns the event stored at the given start.
func (s *Store) Get(start time.Time) (event.Event, error) {
	key := event.Key(start)
	e, ok := s.events[key]
	if !ok {
		return event.Event{}, errors.NewResourceNotFoundError("no event at this start",
			errors.Details{"start": event.FormatTime(key)})
	}
	return e, nil
}

// List returns the stored events in chronological order, optionally
// restricted by the given filter. It never mutates state.
func (s *Store) List(filter Filter) []event.Event {
	category := event.NormalizeCategory(filter.Category)
	events := make([]event.Event, 0, len(s.events))
	for _, e := range s.events {
		if category != "" && e.Category != category {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// clone copies the in-memory schedule so mutations can be prepared without
// touching the authoritative state.
func (s *Store) clone() map[time.Time]event.Event {
	next := make(map[time.Time]event.Event, len(s.events)+1)
	for key, e := range s.events {
		next[key] = e
	}
	return next
}

// commit persists the candidate schedule and only swaps the in-memory state
// on success, so a failed persist leaves the prior state untouched in memory
// and on disk.
func (s *Store) commit(ctx context.Context, next map[time.Time]event.Event) error {
	flat := make([]event.Event, 0, len(next))
	for _, e := range next {
		flat = append(flat, e)
	}
	sort.Slice(flat, func(i, j int) bool {
		return flat[i].Start.Before(flat[j].Start)
	})
	if err := s.persistence.SaveEvents(ctx, flat); err != nil {
		return errors.Wrap(err, "persist schedule", nil)
	}
	s.events = next
	return nil
}
