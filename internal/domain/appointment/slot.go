package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is one (date, time-of-day) position in the shared schedule.
// Two appointments conflict when their slots are equal.
type Slot struct {
	Date string
	Time string
}

// ParseSlot normalises request strings to YYYY-MM-DD and HH:MM.
// Seconds are accepted and dropped.
func ParseSlot(date, hm string) (Slot, error) {
	date = strings.TrimSpace(date)
	hm = strings.TrimSpace(hm)

	if date == "" || hm == "" {
		return Slot{}, httperr.Validation("missing_date_or_time", "Date and time are required.")
	}

	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Slot{}, httperr.Validation("invalid_date", "Date must be YYYY-MM-DD.")
	}

	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		t, err = time.Parse("15:04:05", hm)
		if err != nil {
			return Slot{}, httperr.Validation("invalid_time", "Time must be HH:MM.")
		}
	}

	return Slot{
		Date: d.Format(DateLayout),
		Time: t.Format(TimeLayout),
	}, nil
}

// ParseDate normalises an optional YYYY-MM-DD filter value; empty stays empty.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", httperr.Validation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	return d.Format(DateLayout), nil
}

// Start returns the slot as an instant in loc.
func (s Slot) Start(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ISO is the local date-time form used by the calendar feed.
func (s Slot) ISO() string {
	return s.Date + "T" + s.Time + ":00"
}
