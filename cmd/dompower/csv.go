package main

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/YeomansIII/dompower"
)

// writeCSV writes parsed interval records to a CSV file in source order.
func writeCSV(filename string, records []dompower.IntervalUsageRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Timestamp",
		"Consumption",
		"Unit",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		record := []string{
			r.Timestamp.Format("2006-01-02 15:04"),
			strconv.FormatFloat(r.Consumption, 'f', -1, 64),
			r.Unit,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
