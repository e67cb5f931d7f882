package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ghostpayroll/internal/errors"
)

// LoadCSV parses CSV text into a Frame. The first record is the header.
func LoadCSV(name string, text string) (*Frame, error) {
	return readCSV(name, strings.NewReader(text))
}

func readCSV(name string, r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", name), err)
	}
	return buildFrame(name, records)
}

// LoadXLSX reads the first worksheet of an Excel workbook into a Frame
func LoadXLSX(name string, r io.Reader) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", name), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", name), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", sheets[0], name), err)
	}
	return buildFrame(name, rows)
}

// LoadAuto picks the reader from the filename extension: .xlsx goes through
// excelize, everything else is treated as CSV.
func LoadAuto(name, filename string, r io.Reader) (*Frame, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return LoadXLSX(name, r)
	}
	return readCSV(name, r)
}

var errNoHeader = errors.New("no columns to parse from file")

func buildFrame(name string, records [][]string) (*Frame, error) {
	if len(records) == 0 || isBlankRecord(records[0]) {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", name), errNoHeader)
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]int, len(header))
	for i, h := range records[0] {
		col := strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if col == "" {
			col = fmt.Sprintf("Unnamed: %d", i)
		}
		// duplicate headers become col.1, col.2, ...
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = fmt.Sprintf("%s.%d", col, n+1)
		} else {
			seen[col] = 0
		}
		header[i] = col
	}

	frame := NewFrame(name, header...)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		cells := make([]Cell, len(header))
		for i := 0; i < len(header) && i < len(record); i++ {
			cells[i] = TextCell(record[i])
		}
		frame.AppendRow(0, cells...)
	}
	return frame, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
