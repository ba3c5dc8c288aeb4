package importer

import "fmt"

// Reader loads the rows of one tabular file. Keys of Record.Values are
// normalized headers.
type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case FormatCSV:
		return &CSVReader{}, nil
	case FormatTSV:
		return &TSVReader{}, nil
	case FormatExcel, "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
