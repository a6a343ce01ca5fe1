package dompower

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// timestampLayouts covers the cell text the export produces for the
// interval-start column across the provider's cell styles.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"1/2/06 15:04",
}

// ParseIntervalUsage decodes the provider's xlsx export into interval
// records. Rows before the first parsable interval timestamp are
// header/title rows and skipped, as is any row whose consumption cell
// is blank or non-numeric; the provider pads exports with empty
// trailing rows. Zero parsable rows is not an error. Records keep the
// source row order; the document is not re-sorted even if the provider
// emits it unordered.
func ParseIntervalUsage(doc []byte) ([]IntervalUsageRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("opening usage workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("usage workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading usage rows: %w", err)
	}

	var records []IntervalUsageRecord
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		ts, ok := parseIntervalStart(strings.TrimSpace(row[0]))
		if !ok {
			continue
		}

		consumption, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}

		records = append(records, IntervalUsageRecord{
			Timestamp:   ts,
			Consumption: consumption,
			Unit:        UnitKWh,
		})
	}

	return records, nil
}

func parseIntervalStart(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
