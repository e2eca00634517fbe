// Package calendar derives the work order week label.
//
// Weeks are counted from local midnight of Monday 2023-01-09 (week 1) in a
// single configured location. The difference is taken in elapsed
// milliseconds, so a Monday inside daylight saving time is an hour short of
// a whole number of days and lands in the previous week. Stored week labels
// depend on this.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the layout of the stored work order date field.
const DateLayout = "2006-01-02"

const msPerDay = 24 * 60 * 60 * 1000

// Anchor returns midnight of the first day of week 1 in loc.
func Anchor(loc *time.Location) time.Time {
	return time.Date(2023, time.January, 9, 0, 0, 0, 0, loc)
}

// Resolver maps dates to week numbers in a fixed location.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver returns a Resolver normalizing dates to midnight in loc.
// A nil loc means time.Local.
func NewResolver(loc *time.Location, opts ...Option) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	r := &Resolver{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the location used for midnight normalization.
func (r *Resolver) Location() *time.Location { return r.loc }

// Now returns the current time in the resolver's location.
func (r *Resolver) Now() time.Time { return r.now().In(r.loc) }

// WeekNumber returns the week containing t. Dates before the anchor give 0
// or negative weeks; nothing is clamped.
func (r *Resolver) WeekNumber(t time.Time) int {
	y, m, d := t.In(r.loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	diffDays := floorDiv(midnight.Sub(Anchor(r.loc)).Milliseconds(), msPerDay)
	return int(floorDiv(diffDays, 7)) + 1
}

// Current returns the week number of today.
func (r *Resolver) Current() int {
	return r.WeekNumber(r.now())
}

// WeekOfDate resolves a stored YYYY-MM-DD date string.
func (r *Resolver) WeekOfDate(date string) (int, error) {
	t, err := time.ParseInLocation(DateLayout, date, r.loc)
	if err != nil {
		return 0, fmt.Errorf("calendar: parse date %q: %w", date, err)
	}
	return r.WeekNumber(t), nil
}

// Today returns the current date in the resolver's location, not the UTC
// date, formatted as DateLayout. An evening submission keeps the day the
// technician was on site.
func (r *Resolver) Today() string {
	return r.Now().Format(DateLayout)
}

// WeekNumber resolves t in its own location.
func WeekNumber(t time.Time) int {
	return NewResolver(t.Location()).WeekNumber(t)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
