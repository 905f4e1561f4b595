package ports

import (
	"context"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// RosterSource defines where roster rows come from.
type RosterSource interface {
	// FetchRecords retrieves every data row of the roster sheet, in sheet order.
	// Implementations must not filter by tag or parse dates; the service does both.
	FetchRecords(ctx context.Context) ([]domain.Record, error)
}
