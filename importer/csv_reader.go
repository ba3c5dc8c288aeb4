package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads comma-separated exports. A UTF-8 or UTF-16 byte order mark
// is honored, so spreadsheet "Unicode" exports read the same as plain files.
type CSVReader struct{}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	records, err := readDelimited(file, ',')
	if err != nil {
		return nil, fmt.Errorf("csv file %s: %w", path, err)
	}
	return records, nil
}

// TSVReader reads tab-separated exports, typically UTF-16LE with a BOM as
// written by spreadsheet applications.
type TSVReader struct{}

func (r *TSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tsv file %s: %w", path, err)
	}
	defer file.Close()

	records, err := readDelimited(file, '\t')
	if err != nil {
		return nil, fmt.Errorf("tsv file %s: %w", path, err)
	}
	return records, nil
}

func readDelimited(source io.Reader, comma rune) ([]Record, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(source, decoder))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeHeader(header)
	}

	records := make([]Record, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		records = append(records, Record{RowNumber: rowNumber, Values: rowValues(normalizedHeaders, row)})
	}

	return records, nil
}

func rowValues(headers, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if _, exists := values[header]; exists {
			continue
		}
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return values
}
