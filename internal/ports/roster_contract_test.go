package ports

import (
	"context"
	"testing"
	"time"
)

// SourceFactory creates a RosterSource instance and returns a cleanup function.
type SourceFactory func() (RosterSource, func())

// RunRosterSourceContractTests runs the contract suite against a RosterSource.
// Every implementation (sheet client, file source, mocks) should pass it.
func RunRosterSourceContractTests(t *testing.T, factory SourceFactory) {
	t.Run("ReturnsSlice", func(t *testing.T) { testReturnsSlice(t, factory) })
	t.Run("RowNumbers", func(t *testing.T) { testRowNumbers(t, factory) })
	t.Run("Repeatable", func(t *testing.T) { testRepeatable(t, factory) })
	t.Run("ContextCancellation", func(t *testing.T) { testContextCancellation(t, factory) })
}

func testReturnsSlice(t *testing.T, factory SourceFactory) {
	src, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := src.FetchRecords(ctx)
	if err != nil {
		t.Fatalf("FetchRecords should not error, got: %v", err)
	}
	if records == nil {
		t.Error("FetchRecords should return non-nil slice (even if empty)")
	}
}

func testRowNumbers(t *testing.T, factory SourceFactory) {
	src, cleanup := factory()
	defer cleanup()

	records, err := src.FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("FetchRecords failed: %v", err)
	}

	prev := 1 // header row
	for i, rec := range records {
		if rec.Row <= prev {
			t.Errorf("Record[%d] row %d should be greater than %d", i, rec.Row, prev)
		}
		prev = rec.Row
	}
}

func testRepeatable(t *testing.T, factory SourceFactory) {
	src, cleanup := factory()
	defer cleanup()

	first, err := src.FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("first FetchRecords failed: %v", err)
	}
	if len(first) > 0 {
		first[0].CourseSection = "mutated by caller"
	}

	second, err := src.FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("second FetchRecords failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("record count changed between fetches: %d vs %d", len(first), len(second))
	}
	if len(second) > 0 && second[0].CourseSection == "mutated by caller" {
		t.Error("caller mutations must not leak into later fetches")
	}
}

func testContextCancellation(t *testing.T, factory SourceFactory) {
	src, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchRecords(ctx); err == nil {
		t.Error("FetchRecords with cancelled context should fail")
	}
}
