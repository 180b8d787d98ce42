// Package labkit holds file format helpers shared by the API and the CLIs:
// CSV import and export and printable QR labels.
package labkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses every row of r. Rows may have different lengths.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	return records, nil
}

// Returns the rows as maps keyed by the header row. Header names are trimmed
// and lower cased; duplicates get a numeric suffix ("lot", "lot_2").
func ParseCSVToMap(records [][]string) ([]map[string]string, error) {
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	headers := make([]string, len(records[0]))
	headerCount := make(map[string]int)

	for i, header := range records[0] {
		header = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		if count, exists := headerCount[header]; exists {
			headerCount[header]++
			header = fmt.Sprintf("%s_%d", header, count+2)
		} else {
			headerCount[header] = 0
		}
		headers[i] = header
	}

	result := make([]map[string]string, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		row := make(map[string]string, len(headers))
		for j := 0; j < len(headers); j++ {
			if j < len(records[i]) {
				row[headers[j]] = records[i][j]
			} else {
				row[headers[j]] = ""
			}
		}
		result = append(result, row)
	}

	return result, nil
}

// WriteCSV writes header followed by rows and flushes w.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing CSV rows: %w", err)
	}

	return nil
}
