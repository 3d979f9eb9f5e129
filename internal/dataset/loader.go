// Package dataset loads and validates germination-time measurements from
// tabular files before they reach the fitting core.
package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gevfit/domain/model"
	"gevfit/internal/errors"
)

// Loader handles reading Excel and CSV files
type Loader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewLoader creates a loader that handles both Excel and CSV files based on
// the file extension.
func NewLoader(filePath string) *Loader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Loader{filePath: filePath, fileType: fileType}
}

// Load reads the file into observations. Rows with a missing germination time
// are dropped; malformed rows, unknown treatment labels, non-positive times
// and an empty result all surface as DataIntegrity errors so fitting never
// starts on a degenerate dataset.
func (l *Loader) Load() ([]model.Observation, error) {
	if _, err := os.Stat(l.filePath); os.IsNotExist(err) {
		return nil, errors.DataIntegrityf("%s file not found: %s", strings.ToUpper(l.fileType), l.filePath)
	}

	var rows [][]string
	var err error
	switch l.fileType {
	case "csv":
		rows, err = l.readCSVRows()
	case "xlsx":
		rows, err = l.readExcelRows()
	default:
		return nil, errors.DataIntegrityf("unsupported file type: %s", l.fileType)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(rows)
}

func (l *Loader) readCSVRows() ([][]string, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", l.filePath)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %s", l.filePath)
	}
	return rows, nil
}

func (l *Loader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(l.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", l.filePath)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

// parseRows converts raw rows into observations. A header row is detected by
// a non-numeric time cell in the first row and skipped.
func parseRows(rows [][]string) ([]model.Observation, error) {
	treatCol, timeCol := 0, 1

	start := 0
	if len(rows) > 0 && len(rows[0]) >= 2 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][timeCol]), 64); err != nil && !isMissing(rows[0][timeCol]) {
			if tc, gc, ok := headerColumns(rows[0]); ok {
				treatCol, timeCol = tc, gc
			}
			start = 1
		}
	}

	var obs []model.Observation
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}
		if len(row) <= treatCol || len(row) <= timeCol {
			return nil, errors.DataIntegrityf("row %d has %d columns, need at least %d", i+1, len(row), max(treatCol, timeCol)+1)
		}

		timeCell := strings.TrimSpace(row[timeCol])
		if isMissing(timeCell) {
			continue // NA-filtered before fitting
		}
		t, err := strconv.ParseFloat(timeCell, 64)
		if err != nil {
			return nil, errors.DataIntegrityf("row %d: malformed germination time %q", i+1, timeCell)
		}
		if t <= 0 {
			return nil, errors.DataIntegrityf("row %d: germination time must be positive, got %v", i+1, t)
		}

		treatment, err := model.ParseTreatment(row[treatCol])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}

		obs = append(obs, model.Observation{Treatment: treatment, Time: t})
	}

	if len(obs) == 0 {
		return nil, errors.DataIntegrity("no usable observations after filtering missing values")
	}
	return obs, nil
}

// headerColumns locates the treatment and time columns by header name.
func headerColumns(header []string) (treatCol, timeCol int, ok bool) {
	treatCol, timeCol = -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(name, "treat"):
			treatCol = i
		case strings.Contains(name, "time") || strings.Contains(name, "germ"):
			timeCol = i
		}
	}
	if treatCol < 0 || timeCol < 0 {
		return 0, 0, false
	}
	return treatCol, timeCol, true
}

func isMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
