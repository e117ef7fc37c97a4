// Package clock provides the time source for event timestamps. Every
// outbound event carries a wall-clock stamp assigned by the server;
// client-supplied times are never trusted.
package clock

import "time"

const stampLayout = "15:04:05"

// Clock yields the current time and its HH:MM:SS rendering.
type Clock interface {
	Now() time.Time
	Stamp() string
}

// Wall is the real clock, rendered in a configured timezone.
type Wall struct {
	loc *time.Location
}

// Config holds clock configuration.
type Config struct {
	Timezone string `mapstructure:"timezone"`
}

// New creates a wall clock for the given IANA timezone name.
// An empty name means local time.
func New(cfg Config) (*Wall, error) {
	if cfg.Timezone == "" {
		return &Wall{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Wall{loc: loc}, nil
}

func (w *Wall) Now() time.Time {
	return time.Now().In(w.loc)
}

func (w *Wall) Stamp() string {
	return w.Now().Format(stampLayout)
}

// Stamp renders a time the way outbound events carry it.
func Stamp(t time.Time) string {
	return t.Format(stampLayout)
}
