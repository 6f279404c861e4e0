// Package clock supplies the application's notion of "today".
//
// Every scheduling decision is a pure function of a YYYY-MM-DD string. The
// clock renders wall time in a fixed offset (JST by default) and can be pinned
// to an arbitrary date for testing and simulation.
package clock

import (
	"fmt"
	"sync"
	"time"
)

// Layout is the date format used throughout the engine.
const Layout = "2006-01-02"

// DateProvider is what the engine needs from a clock.
type DateProvider interface {
	Today() string
	DaysLater(n int) string
}

// Clock is a DateProvider backed by wall time with an optional override.
type Clock struct {
	mu       sync.RWMutex
	now      func() time.Time
	loc      *time.Location
	override string
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the wall-time source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// WithOffsetHours renders dates in a fixed UTC offset.
func WithOffsetHours(hours int) Option {
	return func(c *Clock) {
		c.loc = time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
	}
}

// New creates a Clock. Without options it renders JST wall time.
func New(opts ...Option) *Clock {
	c := &Clock{now: time.Now}
	WithOffsetHours(9)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fixed returns a clock pinned to date.
func Fixed(date string) *Clock {
	c := New()
	c.override = date
	return c
}

// Today returns the override when set, otherwise the current date.
func (c *Clock) Today() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.override != "" {
		return c.override
	}
	return c.now().In(c.loc).Format(Layout)
}

// DaysLater returns Today shifted by n days.
func (c *Clock) DaysLater(n int) string {
	return AddDays(c.Today(), n)
}

// SetOverride pins Today to date. An empty date clears the override.
func (c *Clock) SetOverride(date string) error {
	if date != "" && !Valid(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	c.mu.Lock()
	c.override = date
	c.mu.Unlock()
	return nil
}

// Override returns the pinned date, if any.
func (c *Clock) Override() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.override
}

// Valid reports whether s is a YYYY-MM-DD date.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
// It returns "" when date cannot be parsed.
func AddDays(date string, n int) string {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(Layout)
}
