package domain

import (
	"fmt"
	"strings"
	"time"
)

// Record is one row of the published roster sheet, as text.
type Record struct {
	Row           int // 1-based sheet row, header is row 1
	Date          string
	Time          string
	CourseSection string
	Room          string
	Tags          []string // Inv 1, Inv 2, Res.
}

// HasTag reports whether any of the record's tags equals tag.
func (r Record) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range r.Tags {
		if strings.TrimSpace(t) == tag {
			return true
		}
	}
	return false
}

// Date is a calendar day without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date the way the sheet writes it (DD-MM-YYYY).
func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// Interval is a closed time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the interval, both ends included.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Session is a record whose date and time range have been parsed.
type Session struct {
	Record   Record
	Date     Date
	Interval Interval
}

// Board is the classification of sessions relative to one instant.
type Board struct {
	Ongoing *Session
	Next    *Session
	Today   []Session
}

// Empty reports whether nothing is ongoing, upcoming or scheduled today.
func (b Board) Empty() bool {
	return b.Ongoing == nil && b.Next == nil && len(b.Today) == 0
}
