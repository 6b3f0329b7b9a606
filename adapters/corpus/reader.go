// Package corpus loads labeled corpora from CSV and Excel files.
//
// Expected layout: a header row, first column the entity name, last
// column the binary label, every column in between a numeric feature.
// The header supplies the feature schema.
package corpus

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"phonolab/domain/core"
	"phonolab/domain/verdict"
	apperrors "phonolab/internal/errors"
	"phonolab/ports"
)

// FileReader reads labeled corpora from .csv or .xlsx files
type FileReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	sheet    string
}

// NewFileReader creates a reader for the given path, detecting the
// format from the extension.
func NewFileReader(filePath string) *FileReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &FileReader{filePath: filePath, fileType: fileType, sheet: "Sheet1"}
}

// WithSheet overrides the Excel sheet name
func (r *FileReader) WithSheet(sheet string) *FileReader {
	r.sheet = sheet
	return r
}

// Read loads the feature schema and every sample in the file
func (r *FileReader) Read(ctx context.Context) ([]string, []verdict.LabeledSample, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, nil, apperrors.CorpusUnreadable(r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, nil, err
	}

	return parseRows(rows)
}

func (r *FileReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.CorpusUnreadable(r.filePath, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.CorpusUnreadable(r.filePath, err)
	}
	return rows, nil
}

func (r *FileReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.CorpusUnreadable(r.filePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, apperrors.CorpusUnreadable(r.filePath, err)
	}
	return rows, nil
}

// parseRows converts header + data rows into schema and samples
func parseRows(rows [][]string) ([]string, []verdict.LabeledSample, error) {
	if len(rows) < 2 {
		return nil, nil, core.NewInvalidInputError("corpus",
			"file must have a header row and at least one data row")
	}

	header := rows[0]
	if len(header) < 3 {
		return nil, nil, core.NewInvalidInputError("corpus",
			"need at least name, one feature and label columns")
	}

	schema := make([]string, len(header)-2)
	for i := 1; i < len(header)-1; i++ {
		schema[i-1] = strings.TrimSpace(header[i])
	}

	samples := make([]verdict.LabeledSample, 0, len(rows)-1)
	for lineNo, row := range rows[1:] {
		if len(row) == 0 {
			continue // excel readers can emit trailing blank rows
		}
		if len(row) != len(header) {
			return nil, nil, core.NewInvalidInputError("corpus",
				"row "+strconv.Itoa(lineNo+2)+" has wrong column count")
		}

		features := make([]float64, len(schema))
		for j := range schema {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
			if err != nil {
				return nil, nil, core.NewInvalidInputError("corpus",
					"non-numeric feature in row "+strconv.Itoa(lineNo+2))
			}
			features[j] = v
		}

		label, err := strconv.Atoi(strings.TrimSpace(row[len(row)-1]))
		if err != nil || (label != 0 && label != 1) {
			return nil, nil, core.NewInvalidInputError("corpus",
				"label must be 0 or 1 in row "+strconv.Itoa(lineNo+2))
		}

		samples = append(samples, verdict.LabeledSample{
			Name:     strings.TrimSpace(row[0]),
			Features: features,
			Label:    label,
		})
	}

	return schema, samples, nil
}

var _ ports.CorpusReader = (*FileReader)(nil)
