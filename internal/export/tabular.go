package export

import (
	"fmt"
	"strconv"

	"github.com/nconklindev/barcoder/internal/converter"
	"github.com/nconklindev/barcoder/internal/types"

	"github.com/xuri/excelize/v2"
)

// TabularExporter writes each dataset as a single-sheet workbook
type TabularExporter struct{}

func (e *TabularExporter) Name() string { return "tabular-file" }

func (e *TabularExporter) Export(res *converter.Result) ([]Artifact, error) {
	catalog, err := Workbook(CatalogName, res.CatalogRecords())
	if err != nil {
		return nil, fmt.Errorf("build %s workbook: %w", CatalogName, err)
	}
	receipt, err := Workbook(ReceiptName, res.ReceiptRecords())
	if err != nil {
		return nil, fmt.Errorf("build %s workbook: %w", ReceiptName, err)
	}

	return []Artifact{
		{Name: CatalogName + ".xlsx", Data: catalog},
		{Name: ReceiptName + ".xlsx", Data: receipt},
	}, nil
}

// Workbook renders records into an xlsx file with one sheet. The first row
// holds the field names; number cells are stored as numbers.
func Workbook(sheetName string, records []types.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	if len(records) > 0 {
		names := records[0].Names()
		header := make([]interface{}, len(names))
		for i, n := range names {
			header[i] = n
		}
		if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("create header style: %w", err)
		}
		lastCell, err := excelize.CoordinatesToCellName(len(names), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, "A1", lastCell, headerStyle); err != nil {
			return nil, fmt.Errorf("apply header style: %w", err)
		}

		for i, rec := range records {
			values := make([]interface{}, len(rec))
			for j, field := range rec {
				values[j] = cellValue(field.Value)
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(c types.Cell) interface{} {
	switch c.Kind {
	case types.CellEmpty:
		return nil
	case types.CellNumber:
		if n, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return n
		}
	case types.CellBool:
		if b, err := strconv.ParseBool(c.Value); err == nil {
			return b
		}
	}
	return c.Value
}
