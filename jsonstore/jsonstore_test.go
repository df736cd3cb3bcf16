package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"agenda/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestStore(t *testing.T) (*Store, string) {
	filename := filepath.Join(t.TempDir(), "events.json")
	return NewStore(zap.New(zapcore.NewNopCore()), filename), filename
}

func TestLoadEventsMissingFile(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.LoadEvents(context.Background())
	require.NoError(t, err, "a missing file should load as empty schedule")
	assert.Empty(t, got, "should be empty")
}

func TestLoadEventsOriginalFileFormat(t *testing.T) {
	s, filename := newTestStore(t)
	content := `{"2024-09-01 09:00": {"name": "Team Meeting", "category": "work", "duration": 60}}`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644), "should write fixture")
	got, err := s.LoadEvents(context.Background())
	require.NoError(t, err, "should not fail")
	require.Len(t, got, 1, "should load one event")
	assert.Equal(t, "Team Meeting", got[0].Name, "should load name")
	assert.Equal(t, "work", got[0].Category, "should load category")
	assert.True(t, time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local).Equal(got[0].Start),
		"should parse start from map key")
	assert.Equal(t, 60, got[0].Duration, "should load duration")
}

func TestLoadEventsBrokenJSON(t *testing.T) {
	s, filename := newTestStore(t)
	require.NoError(t, os.WriteFile(filename, []byte("{"), 0o644), "should write fixture")
	_, err := s.LoadEvents(context.Background())
	assert.Error(t, err, "broken json should fail")
}

func TestLoadEventsBrokenStartKey(t *testing.T) {
	s, filename := newTestStore(t)
	content := `{"someday": {"name": "a", "category": "work", "duration": 60}}`
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644), "should write fixture")
	_, err := s.LoadEvents(context.Background())
	assert.Error(t, err, "invalid start key should fail")
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	events := []event.Event{
		{
			Name:     "Team Meeting",
			Category: "work",
			Start:    time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local),
			Duration: 60,
		},
		{
			Name:     "Gym",
			Category: "exercise",
			Start:    time.Date(2024, 9, 2, 18, 0, 0, 0, time.Local),
			Duration: 90,
		},
	}
	require.NoError(t, s.SaveEvents(context.Background(), events), "save should not fail")
	got, err := s.LoadEvents(context.Background())
	require.NoError(t, err, "load should not fail")
	require.Len(t, got, 2, "should load both events")
	sort.Slice(got, func(i, j int) bool { return got[i].Start.Before(got[j].Start) })
	for i, e := range got {
		assert.Equal(t, events[i].Name, e.Name, "name should survive the round trip")
		assert.Equal(t, events[i].Category, e.Category, "category should survive the round trip")
		assert.True(t, events[i].Start.Equal(e.Start), "start should survive the round trip")
		assert.Equal(t, events[i].Duration, e.Duration, "duration should survive the round trip")
	}
}

func TestSaveWritesOriginalFileFormat(t *testing.T) {
	s, filename := newTestStore(t)
	events := []event.Event{
		{
			Name:     "Team Meeting",
			Category: "work",
			Start:    time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local),
			Duration: 60,
		},
	}
	require.NoError(t, s.SaveEvents(context.Background(), events), "save should not fail")
	raw, err := os.ReadFile(filename)
	require.NoError(t, err, "should read schedule file")
	var records map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &records), "file should hold a start-keyed map")
	rec, ok := records["2024-09-01 09:00"]
	require.True(t, ok, "start timestamp should be the map key")
	assert.Equal(t, "Team Meeting", rec["name"], "record should hold the name")
	assert.Equal(t, "work", rec["category"], "record should hold the category")
	assert.Equal(t, float64(60), rec["duration"], "record should hold the duration")
}

func TestSaveReplacesPreviousState(t *testing.T) {
	s, _ := newTestStore(t)
	first := []event.Event{{
		Name:     "a",
		Category: "work",
		Start:    time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local),
		Duration: 30,
	}}
	require.NoError(t, s.SaveEvents(context.Background(), first), "save should not fail")
	require.NoError(t, s.SaveEvents(context.Background(), nil), "rewriting empty should not fail")
	got, err := s.LoadEvents(context.Background())
	require.NoError(t, err, "load should not fail")
	assert.Empty(t, got, "the full file should be rewritten")
}
