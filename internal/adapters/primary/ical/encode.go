// Package ical renders roster sessions as an iCalendar feed.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// ProductID identifies the feed producer.
const ProductID = "-//fgz-roster//dutyroster//EN"

// uidNamespace scopes session UIDs so they never collide with other feeds.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fgz-roster/dutyroster"))

// Upcoming returns the sessions that have not ended before the start of
// now's calendar day, in input order.
func Upcoming(sessions []domain.Session, now time.Time) []domain.Session {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Interval.End.Before(dayStart) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SessionUID derives a stable UID from the session's date, time and course.
func SessionUID(s domain.Session) string {
	key := strings.Join([]string{
		s.Date.String(),
		strings.TrimSpace(s.Record.Time),
		strings.TrimSpace(s.Record.CourseSection),
	}, "|")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}

// Encode writes a VCALENDAR named name with one VEVENT per upcoming session.
// It returns domain.ErrNotFound when no session qualifies.
func Encode(w io.Writer, sessions []domain.Session, now time.Time, name string) error {
	upcoming := Upcoming(sessions, now)
	if len(upcoming) == 0 {
		return fmt.Errorf("no upcoming sessions: %w", domain.ErrNotFound)
	}

	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, ProductID)
	if name != "" {
		cal.Props.SetText("X-WR-CALNAME", name)
	}

	stamp := now.UTC()
	for _, s := range upcoming {
		cal.Children = append(cal.Children, toEvent(s, stamp))
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toEvent(s domain.Session, stamp time.Time) *goical.Component {
	ve := goical.NewComponent(goical.CompEvent)
	ve.Props.SetText(goical.PropUID, SessionUID(s))
	ve.Props.SetText(goical.PropSummary, s.Record.CourseSection)
	ve.Props.SetDateTime(goical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(goical.PropDateTimeStart, s.Interval.Start.UTC())
	ve.Props.SetDateTime(goical.PropDateTimeEnd, s.Interval.End.UTC())
	if room := strings.TrimSpace(s.Record.Room); room != "" {
		ve.Props.SetText(goical.PropLocation, room)
	}
	ve.Props.SetText(goical.PropDescription, fmt.Sprintf("%s %s", s.Record.Date, s.Record.Time))
	return ve
}
