package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dashReplacer normalizes the dash variants spreadsheets like to insert.
var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")

// ParseDate parses a DD-MM-YYYY sheet date. The day is built from its
// integer parts, so the result does not depend on any locale.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(dashReplacer.Replace(strings.TrimSpace(s)), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("expected DD-MM-YYYY")
	}

	day, err := atoiField(parts[0], "day")
	if err != nil {
		return Date{}, err
	}
	month, err := atoiField(parts[1], "month")
	if err != nil {
		return Date{}, err
	}
	year, err := atoiField(parts[2], "year")
	if err != nil {
		return Date{}, err
	}
	if len(strings.TrimSpace(parts[2])) != 4 {
		return Date{}, fmt.Errorf("year must have four digits")
	}

	// time.Date normalizes 31-02 into March; reject instead.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return Date{}, fmt.Errorf("no such calendar day")
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// Clock is a time of day with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses H:MM or HH:MM on a 24-hour clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := atoiField(h, "hour")
	if err != nil {
		return Clock{}, err
	}
	if len(strings.TrimSpace(m)) != 2 {
		return Clock{}, fmt.Errorf("minute must have two digits")
	}
	minute, err := atoiField(m, "minute")
	if err != nil {
		return Clock{}, err
	}
	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("minute %d out of range", minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseTimeRange parses "HH:MM-HH:MM". An end before the start is returned
// as written; callers do not get it swapped or rejected.
func ParseTimeRange(s string) (Clock, Clock, error) {
	start, end, ok := strings.Cut(dashReplacer.Replace(strings.TrimSpace(s)), "-")
	if !ok {
		return Clock{}, Clock{}, fmt.Errorf("expected HH:MM-HH:MM")
	}
	from, err := ParseClock(start)
	if err != nil {
		return Clock{}, Clock{}, fmt.Errorf("start: %w", err)
	}
	to, err := ParseClock(end)
	if err != nil {
		return Clock{}, Clock{}, fmt.Errorf("end: %w", err)
	}
	return from, to, nil
}

// At combines a calendar day and a clock time in loc.
func At(d Date, c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// ParseRecord turns a raw row into a Session in loc. The returned error is
// always a *RecordError.
func ParseRecord(rec Record, loc *time.Location) (Session, error) {
	if loc == nil {
		loc = time.Local
	}

	day, err := ParseDate(rec.Date)
	if err != nil {
		return Session{}, &RecordError{Row: rec.Row, Field: "date", Value: rec.Date, Err: err}
	}
	from, to, err := ParseTimeRange(rec.Time)
	if err != nil {
		return Session{}, &RecordError{Row: rec.Row, Field: "time", Value: rec.Time, Err: err}
	}

	return Session{
		Record: rec,
		Date:   day,
		Interval: Interval{
			Start: At(day, from, loc),
			End:   At(day, to, loc),
		},
	}, nil
}

// ParseRecords parses every record, keeping input order. Malformed rows are
// left out of the sessions and reported one error each.
func ParseRecords(records []Record, loc *time.Location) ([]Session, []*RecordError) {
	sessions := make([]Session, 0, len(records))
	var bad []*RecordError
	for _, rec := range records {
		s, err := ParseRecord(rec, loc)
		if err != nil {
			var recErr *RecordError
			if errors.As(err, &recErr) {
				bad = append(bad, recErr)
			}
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, bad
}

func atoiField(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	return n, nil
}
