package http

import (
	"time"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// sessionView is a session as the page and the JSON API show it. Date and
// Time are the sheet's own text.
type sessionView struct {
	Date   string    `json:"date"`
	Time   string    `json:"time"`
	Course string    `json:"course"`
	Room   string    `json:"room"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Row    int       `json:"row"`
}

type boardView struct {
	Ongoing *sessionView  `json:"ongoing"`
	Next    *sessionView  `json:"next"`
	Today   []sessionView `json:"today"`
}

type boardResponse struct {
	Now       time.Time  `json:"now"`
	Tag       string     `json:"tag"`
	Board     boardView  `json:"board"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Skipped   int        `json:"skipped"`
	Error     string     `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string     `json:"status"`
	Sessions  int        `json:"sessions"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func newSessionView(s domain.Session) sessionView {
	return sessionView{
		Date:   s.Record.Date,
		Time:   s.Record.Time,
		Course: s.Record.CourseSection,
		Room:   s.Record.Room,
		Start:  s.Interval.Start,
		End:    s.Interval.End,
		Row:    s.Record.Row,
	}
}

func newBoardView(b domain.Board) boardView {
	v := boardView{Today: make([]sessionView, 0, len(b.Today))}
	if b.Ongoing != nil {
		s := newSessionView(*b.Ongoing)
		v.Ongoing = &s
	}
	if b.Next != nil {
		s := newSessionView(*b.Next)
		v.Next = &s
	}
	for _, s := range b.Today {
		v.Today = append(v.Today, newSessionView(s))
	}
	return v
}
