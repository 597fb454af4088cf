package domain

import "time"

// Window is an optional, inclusive date range. A zero bound is unbounded.
type Window struct {
	Start time.Time
	End   time.Time
}

// HasStart reports whether the window has a lower bound.
func (w Window) HasStart() bool { return !w.Start.IsZero() }

// HasEnd reports whether the window has an upper bound.
func (w Window) HasEnd() bool { return !w.End.IsZero() }

// BeforeStart reports whether t falls before the lower bound.
func (w Window) BeforeStart(t time.Time) bool {
	return w.HasStart() && t.Before(w.Start)
}

// AfterEnd reports whether t falls after the upper bound.
func (w Window) AfterEnd(t time.Time) bool {
	return w.HasEnd() && t.After(w.End)
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !w.BeforeStart(t) && !w.AfterEnd(t)
}

// ContainsExclusive reports whether t lies strictly inside the window.
func (w Window) ContainsExclusive(t time.Time) bool {
	return (!w.HasStart() || t.After(w.Start)) && (!w.HasEnd() || t.Before(w.End))
}

// String renders the window for logs.
func (w Window) String() string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "*"
		}
		return t.Format(time.RFC3339)
	}
	return format(w.Start) + ".." + format(w.End)
}
