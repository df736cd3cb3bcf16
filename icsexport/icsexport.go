// Package icsexport serializes a schedule to the iCalendar format so it can
// be imported into regular calendar applications.
package icsexport

import (
	"fmt"
	"io"

	"agenda/errors"
	"agenda/event"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// prodID identifies the generator in exported calendars.
const prodID = "-//agenda//schedule export//EN"

// Export writes the given events as a VCALENDAR to w.
func Export(w io.Writer, events []event.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	for _, e := range events {
		vevent := cal.AddEvent(UID(e))
		vevent.SetSummary(e.Name)
		vevent.SetStartAt(e.Start)
		vevent.SetEndAt(e.End())
		vevent.SetDtStampTime(e.Start)
		vevent.SetProperty(ical.ComponentPropertyCategories, event.DisplayCategory(e.Category))
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return errors.NewInternalErrorFromErr(err, "write calendar", nil)
	}
	return nil
}

// UID derives a stable event UID from the event's start key, so re-exports
// update instead of duplicate events in importing applications.
func UID(e event.Event) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("agenda:"+event.FormatTime(e.Start)))
	return fmt.Sprintf("%s@agenda", name)
}
