package http

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fgz-roster/dutyroster/internal/application/services"
	"github.com/fgz-roster/dutyroster/internal/domain"
	"github.com/fgz-roster/dutyroster/internal/ports"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	// this file lives at: <root>/internal/adapters/primary/http/...
	root := filepath.Dir(thisFile)
	for i := 0; i < 4; i++ {
		root = filepath.Dir(root)
	}
	return root
}

func mustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !bytes.Contains([]byte(haystack), []byte(needle)) {
		t.Fatalf("expected HTML to contain %q", needle)
	}
}

func mustNotContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if bytes.Contains([]byte(haystack), []byte(needle)) {
		t.Fatalf("expected HTML not to contain %q", needle)
	}
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{Row: 2, Date: "10-06-2024", Time: "09:00-10:00", CourseSection: "CS101", Room: "301", Tags: []string{"FGZ"}},
		{Row: 3, Date: "10-06-2024", Time: "14:00-15:00", CourseSection: "CS202", Room: "402", Tags: []string{"", "FGZ"}},
	}
}

// newTestHandler builds a handler over a roster fed by mock, refreshed once
// if refresh is set, with the clock pinned to now.
func newTestHandler(t *testing.T, mock *ports.MockRosterSource, refresh bool, now time.Time) (*Handler, *services.RosterService) {
	t.Helper()

	roster := services.NewRosterService(mock, time.UTC)
	if refresh {
		_ = roster.Refresh(context.Background())
	}

	templates, err := LoadTemplates(filepath.Join(repoRoot(t), "web", "templates"))
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}

	h := NewHandler(slog.New(slog.DiscardHandler), roster)
	h.SetTemplates(templates)
	h.SetTitle("FGZ Duty Roster")
	h.SetClock(func() time.Time { return now })
	return h, roster
}
