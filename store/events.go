package store

import (
	"context"

	"agenda/errors"
	"agenda/event"

	"github.com/doug-martin/goqu/v9"
)

// LoadEvents reads the full persisted schedule, ordered by start. The text
// timestamp layout sorts lexicographically in chronological order.
func (m *Mall) LoadEvents(ctx context.Context) ([]event.Event, error) {
	q, _, err := m.dialect.From(goqu.T("events")).
		Select(goqu.C("start"),
			goqu.C("name"),
			goqu.C("category"),
			goqu.C("duration")).
		Order(goqu.C("start").Asc()).ToSQL()
	if err != nil {
		return nil, errors.NewInternalErrorFromErr(err, "query to sql", nil)
	}
	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.NewExecQueryError(err, "query events", q)
	}
	defer rows.Close()
	events := make([]event.Event, 0)
	for rows.Next() {
		var start string
		var e event.Event
		err = rows.Scan(&start,
			&e.Name,
			&e.Category,
			&e.Duration)
		if err != nil {
			return nil, errors.NewScanDBRowError(err, "scan row", q)
		}
		e.Start, err = event.ParseTime(start)
		if err != nil {
			return nil, errors.NewInternalError("stored event has invalid start",
				errors.Details{"start": start})
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewExecQueryError(err, "iterate rows", q)
	}
	return events, nil
}

// SaveEvents rewrites the full persisted schedule in one transaction, so a
// failed write leaves the prior state unchanged.
func (m *Mall) SaveEvents(ctx context.Context, events []event.Event) error {
	// Begin tx.
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDBTxBeginError(err)
	}
	// Clear the previous schedule.
	clearQ, _, err := m.dialect.Delete(goqu.T("events")).ToSQL()
	if err != nil {
		m.rollbackTx(tx, "clear query to sql failed")
		return errors.NewInternalErrorFromErr(err, "clear query to sql", nil)
	}
	if _, err := tx.ExecContext(ctx, clearQ); err != nil {
		m.rollbackTx(tx, "clear events failed")
		return errors.NewExecQueryError(err, "exec clear query", clearQ)
	}
	// Insert the new schedule.
	if len(events) > 0 {
		records := make([]interface{}, 0, len(events))
		for _, e := range events {
			records = append(records, goqu.Record{
				"start":    event.FormatTime(e.Start),
				"name":     e.Name,
				"category": e.Category,
				"duration": e.Duration,
			})
		}
		insertQ, _, err := m.dialect.Insert(goqu.T("events")).Rows(records...).ToSQL()
		if err != nil {
			m.rollbackTx(tx, "insert query to sql failed")
			return errors.NewInternalErrorFromErr(err, "insert query to sql", nil)
		}
		if _, err := tx.ExecContext(ctx, insertQ); err != nil {
			m.rollbackTx(tx, "insert events failed")
			return errors.NewExecQueryError(err, "exec insert query", insertQ)
		}
	}
	// Commit tx.
	if err := tx.Commit(); err != nil {
		return errors.NewDBTxCommitError(err)
	}
	return nil
}
