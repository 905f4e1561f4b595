package sheetcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/fgz-roster/dutyroster/internal/domain"
)

// Sheet column headers.
const (
	ColDate    = "Date"
	ColTime    = "Time"
	ColCourse  = "Course/Sec"
	ColRoom    = "Room"
	ColInv1    = "Inv 1"
	ColInv2    = "Inv 2"
	ColReserve = "Res."
)

var (
	requiredColumns = []string{ColDate, ColTime, ColCourse, ColRoom}
	tagColumns      = []string{ColInv1, ColInv2, ColReserve}
)

// Parse reads a roster CSV with a header row. UTF-8 and UTF-16 exports are
// accepted with or without a byte order mark. Blank rows are dropped; short
// rows read their missing cells as empty.
func Parse(r io.Reader) ([]domain.Record, error) {
	// BOMOverride switches to UTF-16 when a UTF-16 BOM is present and
	// strips a UTF-8 BOM otherwise.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(bufio.NewReader(decoded))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty roster, header row missing", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrInvalidInput, err)
	}

	cols := indexHeader(header)
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[normalizeHeader(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	records := []domain.Record{}
	row := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", domain.ErrInvalidInput, row, err)
		}
		if blank(fields) {
			continue
		}

		cell := func(name string) string {
			i, ok := cols[normalizeHeader(name)]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		tags := make([]string, 0, len(tagColumns))
		for _, name := range tagColumns {
			tags = append(tags, cell(name))
		}

		records = append(records, domain.Record{
			Row:           row,
			Date:          cell(ColDate),
			Time:          cell(ColTime),
			CourseSection: cell(ColCourse),
			Room:          cell(ColRoom),
			Tags:          tags,
		})
	}

	return records, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		// First occurrence wins for duplicated headers.
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
