package slot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid calendar date")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

const dateLayout = "2006-01-02"

// Date is a calendar day without time or location.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// TimeOfDay is an offset from midnight, at most one day.
type TimeOfDay struct {
	offset time.Duration
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{offset: time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute}, nil
}

func TimeOfDayFromOffset(offset time.Duration) (TimeOfDay, error) {
	if offset < 0 || offset >= 24*time.Hour {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{offset: offset}, nil
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayFromOffset(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return TimeOfDay{}, ErrInvalidTimeOfDay
}

func (t TimeOfDay) Offset() time.Duration {
	return t.offset
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.offset < other.offset
}

// String renders HH:MM, adding seconds only when present.
func (t TimeOfDay) String() string {
	h := int(t.offset / time.Hour)
	m := int(t.offset % time.Hour / time.Minute)
	s := int(t.offset % time.Minute / time.Second)
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Clock renders HH:MM:SS, the form Postgres accepts for TIME parameters.
func (t TimeOfDay) Clock() string {
	h := int(t.offset / time.Hour)
	m := int(t.offset % time.Hour / time.Minute)
	s := int(t.offset % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
