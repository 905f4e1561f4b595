package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fgz-roster/dutyroster/internal/domain"
	"github.com/fgz-roster/dutyroster/internal/ports"
)

const (
	// RefreshInterval is how often the roster is re-fetched.
	RefreshInterval = 300 * time.Second

	// ClockInterval is how often clocks shown next to the roster are redrawn.
	ClockInterval = time.Second

	// DefaultTag selects the rows that belong on this roster.
	DefaultTag = "FGZ"
)

// Snapshot is the roster as of the last successful refresh.
type Snapshot struct {
	Sessions  []domain.Session
	FetchedAt time.Time // zero until the first successful refresh
	Records   int       // rows fetched, before tag filtering
	InScope   int       // rows carrying the tag
	Skipped   int       // in-scope rows dropped as malformed

	LastAttempt time.Time
	LastError   error // error of the most recent refresh, nil if it succeeded
}

// Loaded reports whether at least one refresh has succeeded.
func (s Snapshot) Loaded() bool {
	return !s.FetchedAt.IsZero()
}

// RosterService keeps the current roster and classifies it on demand.
type RosterService struct {
	source ports.RosterSource
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time

	tagMu sync.RWMutex
	tag   string

	// generation numbers refreshes in start order; applied is the newest
	// generation whose outcome has been stored.
	generation atomic.Uint64

	mu       sync.RWMutex
	snapshot Snapshot
	applied  uint64
}

// NewRosterService creates a roster service reading from source. Sheet
// dates and times are interpreted in loc.
func NewRosterService(source ports.RosterSource, loc *time.Location) *RosterService {
	if loc == nil {
		loc = time.Local
	}
	return &RosterService{
		source: source,
		loc:    loc,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		tag:    DefaultTag,
	}
}

// SetLogger sets the logger used for refresh diagnostics.
func (s *RosterService) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetTag configures which tag marks a row as in scope.
// An empty tag resets to DefaultTag.
func (s *RosterService) SetTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultTag
	}
	s.tagMu.Lock()
	s.tag = tag
	s.tagMu.Unlock()
}

// Tag returns the configured tag.
func (s *RosterService) Tag() string {
	s.tagMu.RLock()
	defer s.tagMu.RUnlock()
	return s.tag
}

// Location returns the time zone sheet times are read in.
func (s *RosterService) Location() *time.Location {
	return s.loc
}

// Refresh fetches the roster, keeps the tagged rows, parses them once and
// swaps the snapshot. On fetch failure the previous snapshot is kept. When
// refreshes overlap, the one started last wins regardless of finish order.
func (s *RosterService) Refresh(ctx context.Context) error {
	gen := s.generation.Add(1)

	records, err := s.source.FetchRecords(ctx)
	attempt := s.now()
	if err != nil {
		s.mu.Lock()
		if gen > s.applied {
			s.applied = gen
			s.snapshot.LastAttempt = attempt
			s.snapshot.LastError = err
		}
		s.mu.Unlock()
		return fmt.Errorf("refresh roster: %w", err)
	}

	tag := s.Tag()
	inScope := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasTag(tag) {
			inScope = append(inScope, rec)
		}
	}

	sessions, bad := domain.ParseRecords(inScope, s.loc)
	for _, e := range bad {
		s.logger.Warn("skipping malformed roster row",
			slog.Int("row", e.Row),
			slog.String("field", e.Field),
			slog.String("value", e.Value),
			slog.Any("error", e.Err),
		)
	}

	s.mu.Lock()
	if gen <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded roster refresh", slog.Uint64("generation", gen))
		return nil
	}
	s.applied = gen
	s.snapshot = Snapshot{
		Sessions:    sessions,
		FetchedAt:   attempt,
		Records:     len(records),
		InScope:     len(inScope),
		Skipped:     len(bad),
		LastAttempt: attempt,
	}
	s.mu.Unlock()

	s.logger.Info("roster refreshed",
		slog.Int("records", len(records)),
		slog.Int("in_scope", len(inScope)),
		slog.Int("sessions", len(sessions)),
		slog.Int("skipped", len(bad)),
		slog.String("tag", tag),
	)
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *RosterService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Sessions = make([]domain.Session, len(s.snapshot.Sessions))
	copy(snap.Sessions, s.snapshot.Sessions)
	return snap
}

// Board classifies the current snapshot relative to now. now is moved into
// the roster's location first so "today" means the sheet's calendar day.
func (s *RosterService) Board(now time.Time) domain.Board {
	s.mu.RLock()
	sessions := s.snapshot.Sessions
	s.mu.RUnlock()

	// Sessions slices are replaced, never modified, so reading outside
	// the lock is safe.
	return domain.SelectSessions(now.In(s.loc), sessions)
}

// Run refreshes immediately and then every RefreshInterval until ctx is
// done. Failures are logged and retried on the next tick.
func (s *RosterService) Run(ctx context.Context) {
	s.runEvery(ctx, RefreshInterval)
}

func (s *RosterService) runEvery(ctx context.Context, every time.Duration) {
	s.refreshLogged(ctx)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshLogged(ctx)
		}
	}
}

func (s *RosterService) refreshLogged(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("roster refresh failed, keeping last known roster", slog.Any("error", err))
	}
}
