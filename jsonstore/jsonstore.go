// Package jsonstore persists a schedule as a single JSON file mapping start
// timestamps to event records. It is the default persistence backend.
package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"agenda/errors"
	"agenda/event"

	"go.uber.org/zap"
)

// record is the persisted shape of a single event. The start acts as the map
// key and is therefore not part of the record.
type record struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
}

// Store reads and writes the schedule file.
type Store struct {
	logger   *zap.Logger
	filename string
}

// NewStore creates a Store for the given schedule file.
func NewStore(logger *zap.Logger, filename string) *Store {
	return &Store{
		logger:   logger,
		filename: filename,
	}
}

// LoadEvents reads the full schedule file. A missing file loads as an empty
// schedule.
func (s *Store) LoadEvents(_ context.Context) ([]event.Event, error) {
	raw, err := os.ReadFile(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("schedule file does not exist yet", zap.String("filename", s.filename))
			return []event.Event{}, nil
		}
		return nil, errors.NewIOError(err, "read schedule file", s.filename)
	}
	var records map[string]record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.NewInternalErrorFromErr(err, "unmarshal schedule file",
			errors.Details{"filename": s.filename})
	}
	events := make([]event.Event, 0, len(records))
	for start, rec := range records {
		startTS, err := event.ParseTime(start)
		if err != nil {
			return nil, errors.NewInternalError("schedule file contains invalid start key",
				errors.Details{"filename": s.filename, "start": start})
		}
		events = append(events, event.Event{
			Name:     rec.Name,
			Category: event.NormalizeCategory(rec.Category),
			Start:    startTS,
			Duration: rec.Duration,
		})
	}
	return events, nil
}

// SaveEvents rewrites the full schedule file. The write goes through a temp
// file and a rename so a failed write never truncates the previous state.
func (s *Store) SaveEvents(_ context.Context, events []event.Event) error {
	records := make(map[string]record, len(events))
	for _, e := range events {
		records[event.FormatTime(e.Start)] = record{
			Name:     e.Name,
			Category: e.Category,
			Duration: e.Duration,
		}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return errors.NewInternalErrorFromErr(err, "marshal schedule",
			errors.Details{"filename": s.filename})
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.filename), ".agenda-*")
	if err != nil {
		return errors.NewIOError(err, "create temp schedule file", s.filename)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewIOError(err, "write temp schedule file", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIOError(err, "close temp schedule file", tmpName)
	}
	if err := os.Rename(tmpName, s.filename); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIOError(err, "replace schedule file", s.filename)
	}
	s.logger.Debug("schedule persisted", zap.String("filename", s.filename),
		zap.Int("event_count", len(events)))
	return nil
}
