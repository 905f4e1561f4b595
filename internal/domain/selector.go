package domain

import (
	"errors"
	"time"
)

// SelectSessions classifies sessions relative to now in a single pass.
//
// Ongoing is the first session in input order whose interval contains now.
// Next is the session with the earliest start strictly after now; on equal
// starts the earlier one in input order is kept. Today holds every session
// dated on now's calendar day (in now's location), in input order.
func SelectSessions(now time.Time, sessions []Session) Board {
	board := Board{Today: []Session{}}
	today := DateOf(now)

	for i := range sessions {
		s := sessions[i]

		if board.Ongoing == nil && s.Interval.Contains(now) {
			ongoing := s
			board.Ongoing = &ongoing
		}

		if s.Interval.Start.After(now) && (board.Next == nil || s.Interval.Start.Before(board.Next.Interval.Start)) {
			next := s
			board.Next = &next
		}

		if s.Date == today {
			board.Today = append(board.Today, s)
		}
	}

	return board
}

// SelectRecords parses records in loc and classifies the well-formed ones.
// The error, if any, joins one *RecordError per skipped row; the board is
// valid either way.
func SelectRecords(now time.Time, records []Record, loc *time.Location) (Board, error) {
	sessions, bad := ParseRecords(records, loc)
	board := SelectSessions(now, sessions)
	if len(bad) == 0 {
		return board, nil
	}

	errs := make([]error, 0, len(bad))
	for _, e := range bad {
		errs = append(errs, e)
	}
	return board, errors.Join(errs...)
}
