package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

// ReadCSV parses CSV input into a dataset. The first record is the header
// row; blank header names get positional fallbacks and duplicate names get
// numeric suffixes so the header set stays unique. Cell values stay
// strings; type inference happens downstream.
func ReadCSV(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WrapError(errors.ErrEmptyHeaders, errors.ErrorTypeValidation, "EMPTY_INPUT", "input has no header row")
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, "MALFORMED_CSV", "cannot read header row")
	}

	columns := normalizeHeader(header)
	ds := &models.Dataset{Columns: columns}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeValidation, "MALFORMED_CSV",
				fmt.Sprintf("cannot read row %d", len(ds.Rows)+2))
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = nil
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// ReadFile loads a dataset from a file path, dispatching on extension.
// Only CSV is supported; spreadsheet formats need an external converter.
func ReadFile(path string) (*models.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
	case ".xlsx", ".xls":
		return nil, errors.WrapError(errors.ErrUnsupportedFormat, errors.ErrorTypeValidation, "UNSUPPORTED_FORMAT",
			"spreadsheet input must be converted to CSV first")
	default:
		return nil, errors.WrapError(errors.ErrUnsupportedFormat, errors.ErrorTypeValidation, "UNSUPPORTED_FORMAT", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "OPEN_FAILED", path)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	ds.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ds, nil
}

// WriteCSV writes a dataset in CSV form with cells rendered through their
// canonical string form
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ds.Columns); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", "cannot write header row")
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			record[i] = models.AsString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", "cannot write data row")
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a dataset to a CSV file
func WriteFile(path string, ds *models.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "CREATE_FAILED", path)
	}
	defer f.Close()
	return WriteCSV(f, ds)
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if count, dup := seen[name]; dup {
			seen[name] = count + 1
			name = fmt.Sprintf("%s_%d", name, count+1)
		}
		seen[name] = 1
		columns[i] = name
	}
	return columns
}
