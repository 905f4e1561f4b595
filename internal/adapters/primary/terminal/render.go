// Package terminal renders the roster board for terminals.
package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// Placeholder texts shown for empty sections.
const (
	NoOngoing  = "No ongoing duty"
	NoUpcoming = "No upcoming duties"
	NoToday    = "No duties today"
)

// RenderBoard renders the ongoing, next and today sections with the default styles.
func RenderBoard(board domain.Board, now time.Time) string {
	return renderBoard(DefaultStyles(), board, now)
}

func renderBoard(st Styles, board domain.Board, now time.Time) string {
	sections := []string{
		st.Section.Render(renderOngoing(st, board.Ongoing)),
		st.Section.Render(renderNext(st, board.Next)),
		st.Section.Render(renderToday(st, board.Today, now)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderOngoing(st Styles, s *domain.Session) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Ongoing"))
	b.WriteString("\n")
	if s == nil {
		b.WriteString(st.Placeholder.Render(NoOngoing))
		return b.String()
	}
	b.WriteString(st.OngoingMark.Render("● "))
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Course:"), s.Record.CourseSection)
	fmt.Fprintf(&b, "  %s %s", st.Label.Render("Room:"), s.Record.Room)
	return b.String()
}

func renderNext(st Styles, s *domain.Session) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Next"))
	b.WriteString("\n")
	if s == nil {
		b.WriteString(st.Placeholder.Render(NoUpcoming))
		return b.String()
	}
	b.WriteString(st.NextMark.Render("○ "))
	fmt.Fprintf(&b, "%s  %s\n", st.Label.Render(s.Record.Date), st.Label.Render(s.Record.Time))
	fmt.Fprintf(&b, "  Course: %s\n", s.Record.CourseSection)
	fmt.Fprintf(&b, "  %s %s", st.Label.Render("Room:"), s.Record.Room)
	return b.String()
}

func renderToday(st Styles, today []domain.Session, now time.Time) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Today, " + domain.DateOf(now).String()))
	if len(today) == 0 {
		b.WriteString("\n")
		b.WriteString(st.Placeholder.Render(NoToday))
		return b.String()
	}
	for _, s := range today {
		mark := "  "
		switch {
		case s.Interval.Contains(now):
			mark = st.OngoingMark.Render("● ")
		case s.Interval.End.Before(now):
			mark = st.Placeholder.Render("✓ ")
		}
		fmt.Fprintf(&b, "\n%s%s — %s (%s)", mark, st.Label.Render(s.Record.Time), s.Record.CourseSection, s.Record.Room)
	}
	return b.String()
}
