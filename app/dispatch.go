package app

import (
	"context"
	"flag"
	"fmt"
	"os"

	"agenda/conflict"
	"agenda/errors"
	"agenda/event"
	"agenda/eventstore"
	"agenda/icsexport"
	"agenda/render"
	"agenda/report"
	"agenda/reportlog"

	"github.com/gobuffalo/nulls"
	"go.uber.org/zap"
)

// Commands understood by the dispatcher.
const (
	CommandAdd    = "add"
	CommandUpdate = "update"
	CommandDelete = "delete"
	CommandView   = "view"
	CommandFilter = "filter"
	CommandReport = "report"
	CommandFree   = "free"
	CommandExport = "export"
)

// dispatch performs the given command against the loaded schedule.
func (app *App) dispatch(ctx context.Context, schedule *eventstore.Store, command string, args []string) error {
	switch command {
	case CommandAdd:
		return app.runAdd(ctx, schedule, args)
	case CommandUpdate:
		return app.runUpdate(ctx, schedule, args)
	case CommandDelete:
		return app.runDelete(ctx, schedule, args)
	case CommandView:
		return app.runView(schedule, args)
	case CommandFilter:
		return app.runFilter(schedule, args)
	case CommandReport:
		return app.runReport(schedule, args)
	case CommandFree:
		return app.runFree(schedule, args)
	case CommandExport:
		return app.runExport(schedule, args)
	}
	return errors.NewInvalidInputError(fmt.Sprintf("unknown command %q", command),
		errors.Details{"command": command})
}

// newFlagSet creates a flag set that reports usage to the app output instead
// of exiting.
func (app *App) newFlagSet(command string) *flag.FlagSet {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(app.out)
	return fs
}

func (app *App) runAdd(ctx context.Context, schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandAdd)
	name := fs.String("name", "", "name of the event")
	category := fs.String("category", "", "category of the event")
	start := fs.String("start", "", `start time in "`+event.TimeLayout+`" format`)
	duration := fs.Int("duration", 0, "duration of the event in minutes")
	force := fs.Bool("force", false, "add the event even when it conflicts")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse add flags", nil)
	}
	e, err := event.New(*name, *category, *start, *duration)
	if err != nil {
		return errors.Wrap(err, "build event", nil)
	}
	if proceed := app.checkConflicts(e, schedule.List(eventstore.Filter{}), *force); !proceed {
		return errors.NewScheduleConflictError()
	}
	if err := schedule.Add(ctx, e); err != nil {
		return errors.Wrap(err, "add event", nil)
	}
	fmt.Fprintf(app.out, "Event added: %s at %s\n", e.Name, event.FormatTime(e.Start))
	return nil
}

func (app *App) runUpdate(ctx context.Context, schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandUpdate)
	start := fs.String("start", "", "start time of the event to update")
	name := fs.String("name", "", "new name")
	category := fs.String("category", "", "new category")
	newStart := fs.String("new-start", "", "new start time, re-keys the event")
	duration := fs.Int("duration", 0, "new duration in minutes")
	force := fs.Bool("force", false, "update the event even when it conflicts")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse update flags", nil)
	}
	if *start == "" {
		return errors.NewInvalidInputError("missing -start of the event to update", nil)
	}
	oldStart, err := event.ParseTime(*start)
	if err != nil {
		return errors.Wrap(err, "parse old start", nil)
	}
	// Collect only the flags that were actually set.
	var edit event.Edit
	var editErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			edit.Name = nulls.NewString(*name)
		case "category":
			edit.Category = nulls.NewString(*category)
		case "new-start":
			parsed, err := event.ParseTime(*newStart)
			if err != nil {
				editErr = errors.Wrap(err, "parse new start", nil)
				return
			}
			edit.Start = nulls.NewTime(parsed)
		case "duration":
			edit.Duration = nulls.NewInt(*duration)
		}
	})
	if editErr != nil {
		return editErr
	}
	if edit.Empty() {
		return errors.NewInvalidInputError(
			"no update information given, set at least one of -name, -category, -new-start or -duration", nil)
	}
	current, err := schedule.Get(oldStart)
	if err != nil {
		return errors.Wrap(err, "get event to update", nil)
	}
	updated := edit.Apply(current)
	// Check the updated interval against the schedule without the event
	// being updated.
	oldKey := event.Key(oldStart)
	others := make([]event.Event, 0)
	for _, other := range schedule.List(eventstore.Filter{}) {
		if event.Key(other.Start).Equal(oldKey) {
			continue
		}
		others = append(others, other)
	}
	if proceed := app.checkConflicts(updated, others, *force); !proceed {
		return errors.NewScheduleConflictError()
	}
	updated, err = schedule.Update(ctx, oldStart, edit)
	if err != nil {
		return errors.Wrap(err, "update event", nil)
	}
	fmt.Fprintf(app.out, "Event updated: %s, Category: %s, Start: %s, Duration: %d minutes\n",
		updated.Name, event.DisplayCategory(updated.Category),
		event.FormatTime(updated.Start), updated.Duration)
	return nil
}

// checkConflicts reports conflicts of the candidate with the given events to
// the user. It returns whether the mutation should proceed, which is the
// case with no conflicts or when forced.
func (app *App) checkConflicts(candidate event.Event, existing []event.Event, force bool) bool {
	conflicts := conflict.FindConflicts(candidate, existing)
	if len(conflicts) == 0 {
		return true
	}
	fmt.Fprintln(app.out, "Time conflict detected with:")
	render.Events(app.out, conflicts)
	if force {
		app.logger.Warn("conflicting mutation forced",
			zap.Int("conflict_count", len(conflicts)),
			zap.String("start", event.FormatTime(candidate.Start)))
		return true
	}
	suggestions := conflict.SuggestAlternatives(candidate, existing)
	if len(suggestions) == 0 {
		fmt.Fprintln(app.out, "No free slot left on this day.")
		return false
	}
	fmt.Fprintln(app.out, "Free alternative start times on the same day:")
	for _, suggestion := range suggestions {
		fmt.Fprintf(app.out, "  %s\n", event.FormatTime(suggestion))
	}
	return false
}

func (app *App) runDelete(ctx context.Context, schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandDelete)
	start := fs.String("start", "", "start time of the event to delete")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse delete flags", nil)
	}
	if *start == "" {
		return errors.NewInvalidInputError("missing -start of the event to delete", nil)
	}
	startTS, err := event.ParseTime(*start)
	if err != nil {
		return errors.Wrap(err, "parse start", nil)
	}
	removed, err := schedule.Delete(ctx, startTS)
	if err != nil {
		return errors.Wrap(err, "delete event", nil)
	}
	fmt.Fprintf(app.out, "Event deleted: %s at %s\n", removed.Name, event.FormatTime(removed.Start))
	return nil
}

func (app *App) runView(schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandView)
	category := fs.String("category", "", "only view events of this category")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse view flags", nil)
	}
	events := schedule.List(eventstore.Filter{Category: *category})
	if len(events) == 0 {
		fmt.Fprintln(app.out, "No scheduled events.")
		return nil
	}
	render.Events(app.out, events)
	return nil
}

func (app *App) runFilter(schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandFilter)
	category := fs.String("category", "", "category to filter by")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse filter flags", nil)
	}
	if *category == "" {
		return errors.NewInvalidInputError("missing -category to filter by", nil)
	}
	events := schedule.List(eventstore.Filter{Category: *category})
	if len(events) == 0 {
		fmt.Fprintf(app.out, "No events found in category %q.\n", *category)
		return nil
	}
	fmt.Fprintf(app.out, "Events in category %q:\n", *category)
	render.Events(app.out, events)
	return nil
}

func (app *App) runReport(schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandReport)
	period := fs.String("period", string(report.PeriodWeek), "trend bucketing unit: day or week")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse report flags", nil)
	}
	trendPeriod, err := report.ParsePeriod(*period)
	if err != nil {
		return errors.Wrap(err, "parse period", nil)
	}
	events := schedule.List(eventstore.Filter{})
	if len(events) == 0 {
		fmt.Fprintln(app.out, "No events to report.")
		return nil
	}
	totals := report.CategoryTotals(events)
	loads := report.BusiestDays(events)
	trend := report.TrendSummary(events, trendPeriod)

	fmt.Fprintln(app.out, "Total Time Spent Per Category:")
	render.CategoryTotals(app.out, totals)
	fmt.Fprintln(app.out)
	fmt.Fprintln(app.out, "Busiest Days (most loaded first):")
	render.BusiestDays(app.out, loads)
	fmt.Fprintln(app.out)
	fmt.Fprintf(app.out, "Trends Over Time (%s):\n", trendPeriod)
	render.Trend(app.out, trend)

	// Record the run in the append-only report log.
	recorder := reportlog.NewRecorder(app.config.ReportLog, app.config.Log.MaxSize,
		app.config.Log.KeepDays)
	defer recorder.Close()
	runID := recorder.Record(reportlog.Summary{
		Period:       trendPeriod,
		Events:       len(events),
		Categories:   len(totals),
		Days:         len(loads),
		TrendBuckets: len(trend),
	})
	app.logger.Debug("report run recorded", zap.String("run_id", runID))
	return nil
}

func (app *App) runFree(schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandFree)
	date := fs.String("date", "", `date to check in "`+event.DayLayout+`" format`)
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse free flags", nil)
	}
	if *date == "" {
		return errors.NewInvalidInputError("missing -date to check", nil)
	}
	day, err := event.ParseTime(*date)
	if err != nil {
		return errors.Wrap(err, "parse date", nil)
	}
	slots := conflict.FreeSlots(day, schedule.List(eventstore.Filter{}))
	if len(slots) == 0 {
		fmt.Fprintln(app.out, "No free times available on this day.")
		return nil
	}
	fmt.Fprintf(app.out, "Free times on %s:\n", event.StartOfDay(day).Format(event.DayLayout))
	render.FreeSlots(app.out, slots)
	return nil
}

func (app *App) runExport(schedule *eventstore.Store, args []string) error {
	fs := app.newFlagSet(CommandExport)
	out := fs.String("out", "", "file to write the calendar to, defaults to stdout")
	category := fs.String("category", "", "only export events of this category")
	if err := fs.Parse(args); err != nil {
		return errors.NewInvalidInputError("parse export flags", nil)
	}
	events := schedule.List(eventstore.Filter{Category: *category})
	if *out == "" {
		return icsexport.Export(app.out, events)
	}
	f, err := os.Create(*out)
	if err != nil {
		return errors.NewIOError(err, "create calendar file", *out)
	}
	if err := icsexport.Export(f, events); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "export calendar", nil)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError(err, "close calendar file", *out)
	}
	fmt.Fprintf(app.out, "Exported %d events to %s\n", len(events), *out)
	return nil
}
