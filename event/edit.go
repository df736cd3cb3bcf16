package event

import "github.com/gobuffalo/nulls"

// Edit is a partial change set applied to a stored Event. Unset fields keep
// their current value.
type Edit struct {
	// Name is the optional new name.
	Name nulls.String
	// Category is the optional new category. It is normalized on apply.
	Category nulls.String
	// Start is the optional new start. Changing it re-keys the event.
	Start nulls.Time
	// Duration is the optional new duration in minutes.
	Duration nulls.Int
}

// Empty reports whether the edit changes nothing.
func (ed Edit) Empty() bool {
	return !ed.Name.Valid && !ed.Category.Valid && !ed.Start.Valid && !ed.Duration.Valid
}

// Apply returns a copy of e with all set fields replaced. The result is not
// validated.
func (ed Edit) Apply(e Event) Event {
	if ed.Name.Valid {
		e.Name = ed.Name.String
	}
	if ed.Category.Valid {
		e.Category = NormalizeCategory(ed.Category.String)
	}
	if ed.Start.Valid {
		e.Start = Key(ed.Start.Time)
	}
	if ed.Duration.Valid {
		e.Duration = ed.Duration.Int
	}
	return e
}
