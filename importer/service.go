package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shiftlog/attendance"
	"shiftlog/internal/timeutil"
	"shiftlog/schedule"
)

const (
	FormatText  = "text"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatExcel = "excel"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Records        []attendance.Record
}

type RunOptions struct {
	// Date is the ISO date given to every record parsed from schedule text.
	Date string
	// Sheet selects the worksheet of excel sources.
	Sheet  string
	Parser *schedule.Parser
	Mapper Mapper
}

// Run reads every path and returns the records they contain. Nothing is
// persisted. A text source counts its non-blank lines as rows read and its
// produced records as rows mapped.
func Run(paths []string, format string, options RunOptions) (*Result, error) {
	result := &Result{Records: make([]attendance.Record, 0, 256)}
	mapper := options.Mapper
	if mapper == nil {
		mapper = &SheetMapper{}
	}

	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}

		if sourceFormat == FormatText {
			if err := runText(path, options, result); err != nil {
				return nil, err
			}
			continue
		}

		reader, err := readerFor(sourceFormat, options)
		if err != nil {
			return nil, err
		}
		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			rec, ok, mapErr := mapper.Map(record)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", path, mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}

			result.RowsMapped++
			result.Records = append(result.Records, rec)
		}
	}

	return result, nil
}

func runText(path string, options RunOptions, result *Result) error {
	if _, err := timeutil.ParseISODate(options.Date); err != nil {
		return fmt.Errorf("schedule text %s needs a date: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schedule text %s: %w", path, err)
	}

	parser := options.Parser
	if parser == nil {
		parser = schedule.NewParser()
	}
	text := string(content)
	records := parser.Parse(text, options.Date)

	result.FilesProcessed++
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			result.RowsRead++
		}
	}
	result.RowsMapped += len(records)
	result.Records = append(result.Records, records...)
	return nil
}

func readerFor(sourceFormat string, options RunOptions) (Reader, error) {
	if sourceFormat == FormatExcel {
		return &ExcelReader{Sheet: options.Sheet}, nil
	}
	return ReaderForFormat(sourceFormat)
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		normalized := normalizeHeader(format)
		switch normalized {
		case FormatText, "txt":
			return FormatText, nil
		case "xlsx", "xlsm", "xls":
			return FormatExcel, nil
		}
		return normalized, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "xlsx", "xlsm", "xls":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
