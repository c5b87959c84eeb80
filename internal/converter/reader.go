package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/barcoder/internal/types"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"
)

// AllowedTypes lists the spreadsheet extensions offered by the file picker
var AllowedTypes = []string{".xlsx", ".xlsm", ".xls"}

type ReadOptions struct {
	// HeaderRows is the number of leading rows to drop before filtering.
	HeaderRows int
}

// ReadFile loads the raw bytes of the input workbook
func ReadFile(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, &SpreadsheetParseError{File: filepath.Base(path), Err: errors.New("file is empty")}
	}
	return data, nil
}

// ParseRows decodes the first sheet of a workbook into typed rows. Legacy
// .xls files go through xlsReader; anything else is tried as OOXML first.
func ParseRows(data []byte, name string, opts ReadOptions) ([]types.Row, error) {
	var (
		rows []types.Row
		err  error
	)

	if strings.ToLower(filepath.Ext(name)) == ".xls" {
		rows, err = parseXLS(data)
	} else {
		rows, err = parseXLSX(data)
		if err != nil {
			if xlsRows, xlsErr := parseXLS(data); xlsErr == nil {
				rows, err = xlsRows, nil
			}
		}
	}
	if err != nil {
		return nil, &SpreadsheetParseError{File: filepath.Base(name), Err: err}
	}

	if opts.HeaderRows > 0 {
		if opts.HeaderRows >= len(rows) {
			return nil, nil
		}
		rows = rows[opts.HeaderRows:]
	}
	return rows, nil
}

// ReadRows is ReadFile followed by ParseRows
func ReadRows(path string, opts ReadOptions) ([]types.Row, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRows(data, path, opts)
}

// ReadFileData reads the product columns of a file for display
func ReadFileData(path string, opts ReadOptions, limit int) (*types.FileData, error) {
	rows, err := ReadRows(path, opts)
	if err != nil {
		return nil, err
	}
	data := Preview(rows, limit)
	data.HeaderRow = opts.HeaderRows
	return data, nil
}

func parseXLSX(data []byte) ([]types.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook has no sheets")
	}

	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	rows := make([]types.Row, len(raw))
	for r, cells := range raw {
		row := make(types.Row, len(cells))
		for c, val := range cells {
			cellType := excelize.CellTypeUnset
			if val != "" {
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				if cellType, err = f.GetCellType(sheetName, cellName); err != nil {
					return nil, err
				}
			}
			row[c] = classify(val, cellType)
		}
		rows[r] = row
	}
	return rows, nil
}

func parseXLS(data []byte) ([]types.Row, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var rows []types.Row
	for _, r := range sheet.GetRows() {
		cols := r.GetCols()
		row := make(types.Row, len(cols))
		for i, cell := range cols {
			val := cell.GetString()
			row[i] = classify(val, xlsCellType(cell, val))
		}
		rows = append(rows, trimTrailingEmpty(row))
	}
	return rows, nil
}

// xlsCellType maps a legacy record to the excelize cell type classify
// understands, so text cells keep leading zeros in both formats.
func xlsCellType(cell structure.CellData, val string) excelize.CellType {
	switch cell.(type) {
	case *record.LabelSSt, *record.LabelBIFF8, *record.LabelBIFF5:
		return excelize.CellTypeSharedString
	case *record.Number, *record.Rk:
		return excelize.CellTypeNumber
	case *record.BoolErr:
		if strings.HasPrefix(val, "#") {
			return excelize.CellTypeError
		}
		return excelize.CellTypeBool
	}
	return excelize.CellTypeUnset
}

// classify turns a raw cell string into a typed cell. Text stored as a
// string in the workbook stays text even when it looks numeric, so "00123"
// keeps its zeros.
func classify(val string, cellType excelize.CellType) types.Cell {
	if val == "" {
		return types.Cell{}
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return types.Text(val)
	case excelize.CellTypeBool:
		return types.Cell{Kind: types.CellBool, Value: boolText(val)}
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
		return types.Number(val)
	}
	return types.Text(val)
}

// boolText normalizes excelize's "1"/"0" and xls "TRUE"/"FALSE" to
// "true"/"false"
func boolText(val string) string {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true":
		return "true"
	}
	return "false"
}

// trimTrailingEmpty drops blank cells at the end of a row so xls rows have
// the same shape as excelize rows
func trimTrailingEmpty(row types.Row) types.Row {
	n := len(row)
	for n > 0 && !row[n-1].Present() {
		n--
	}
	return row[:n]
}
