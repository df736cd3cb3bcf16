package icsexport

import (
	"strings"
	"testing"
	"time"

	"agenda/event"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
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
	var sb strings.Builder
	require.NoError(t, Export(&sb, events), "export should not fail")
	out := sb.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR", "should be a calendar")
	assert.Contains(t, out, "Team Meeting", "should carry event summaries")

	// The output must parse back into two events.
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err, "exported calendar should parse")
	parsed := cal.Events()
	require.Len(t, parsed, 2, "should export every event")
	start, err := parsed[0].GetStartAt()
	require.NoError(t, err, "event should have a start")
	assert.True(t, events[0].Start.Equal(start), "start should survive the round trip")
	end, err := parsed[0].GetEndAt()
	require.NoError(t, err, "event should have an end")
	assert.True(t, events[0].End().Equal(end), "end should match start plus duration")
}

func TestUIDStable(t *testing.T) {
	e := event.Event{
		Name:     "Team Meeting",
		Category: "work",
		Start:    time.Date(2024, 9, 1, 9, 0, 0, 0, time.Local),
		Duration: 60,
	}
	renamed := e
	renamed.Name = "Renamed Meeting"
	assert.Equal(t, UID(e), UID(renamed), "uid should only depend on the start key")
	moved := e
	moved.Start = e.Start.Add(time.Hour)
	assert.NotEqual(t, UID(e), UID(moved), "different starts should yield different uids")
}
