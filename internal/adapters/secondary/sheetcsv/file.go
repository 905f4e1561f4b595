package sheetcsv

import (
	"context"
	"fmt"
	"os"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// FileSource reads a roster CSV from disk, e.g. a sheet downloaded by hand.
type FileSource struct {
	Path string
}

// FetchRecords opens and parses the file on every call.
func (f FileSource) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer fh.Close()

	records, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return records, nil
}
