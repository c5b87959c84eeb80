package converter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nconklindev/barcoder/internal/types"

	"github.com/shopspring/decimal"
)

// RequiredColumns is the number of leading columns a product row carries:
// name, quantity, price.
const RequiredColumns = 3

const (
	colName = iota
	colQuantity
	colPrice
)

// Values written into every record. The 1C import templates expect these
// exact strings.
const (
	NotAService = "Нет"
	UnitPieces  = "шт"
	NoVAT       = "Без НДС"
)

// Catalog (nomenclature) column headers
const (
	HeaderBarcode   = "Штрихкод"
	HeaderName      = "Наименование"
	HeaderIsService = "ЭтоУслуга"
	HeaderUnit      = "ЕдиницаИзмерения"
	HeaderVatRate   = "Ставка НДС"
	HeaderPrice     = "Цена"
)

// Goods receipt column headers
const (
	HeaderReceiptName = "Номенклатура"
	HeaderQuantity    = "Количество"
	HeaderReceiptUnit = "Единица измерения"
)

type CatalogRecord struct {
	Barcode   string
	Name      types.Cell
	IsService string
	Unit      string
	VatRate   string
	Price     types.Cell
}

func (c CatalogRecord) Record() types.Record {
	return types.Record{
		{Name: HeaderBarcode, Value: types.Text(c.Barcode)},
		{Name: HeaderName, Value: c.Name},
		{Name: HeaderIsService, Value: types.Text(c.IsService)},
		{Name: HeaderUnit, Value: types.Text(c.Unit)},
		{Name: HeaderVatRate, Value: types.Text(c.VatRate)},
		{Name: HeaderPrice, Value: c.Price},
	}
}

type ReceiptRecord struct {
	Name      types.Cell
	Quantity  types.Cell
	Unit      string
	Price     types.Cell
	IsService string
}

func (r ReceiptRecord) Record() types.Record {
	return types.Record{
		{Name: HeaderReceiptName, Value: r.Name},
		{Name: HeaderQuantity, Value: r.Quantity},
		{Name: HeaderReceiptUnit, Value: types.Text(r.Unit)},
		{Name: HeaderPrice, Value: r.Price},
		{Name: HeaderIsService, Value: types.Text(r.IsService)},
	}
}

type Options struct {
	// CoerceNumbers parses receipt quantity and price as numbers. Values
	// that do not parse become 0 rather than failing the run.
	CoerceNumbers bool
	// StrictColumns rejects any product row with fewer than three columns.
	StrictColumns bool
}

type Result struct {
	Catalog  []CatalogRecord
	Receipts []ReceiptRecord
}

func (r *Result) CatalogRecords() []types.Record {
	out := make([]types.Record, len(r.Catalog))
	for i, c := range r.Catalog {
		out[i] = c.Record()
	}
	return out
}

func (r *Result) ReceiptRecords() []types.Record {
	out := make([]types.Record, len(r.Receipts))
	for i, rc := range r.Receipts {
		out[i] = rc.Record()
	}
	return out
}

// FilterRows drops empty rows and rows without a product name, keeping the
// original order.
func FilterRows(rows []types.Row) []types.Row {
	var valid []types.Row
	for _, row := range rows {
		if len(row) > 0 && row.At(colName).Present() {
			valid = append(valid, row)
		}
	}
	return valid
}

// MapRecords pairs row i with barcode i and builds both datasets.
func MapRecords(rows []types.Row, barcodes []string, opts Options) ([]CatalogRecord, []ReceiptRecord, error) {
	if len(rows) != len(barcodes) {
		return nil, nil, fmt.Errorf("have %d rows but %d barcodes", len(rows), len(barcodes))
	}

	if opts.StrictColumns {
		for i, row := range rows {
			if len(row) < RequiredColumns {
				return nil, nil, &MalformedInputError{Row: i + 1, Columns: len(row)}
			}
		}
	}

	catalog := make([]CatalogRecord, 0, len(rows))
	receipts := make([]ReceiptRecord, 0, len(rows))
	for i, row := range rows {
		catalog = append(catalog, CatalogRecord{
			Barcode:   barcodes[i],
			Name:      row.At(colName),
			IsService: NotAService,
			Unit:      UnitPieces,
			VatRate:   NoVAT,
			Price:     row.At(colPrice),
		})

		quantity, price := row.At(colQuantity), row.At(colPrice)
		if opts.CoerceNumbers {
			quantity, price = CoerceNumber(quantity), CoerceNumber(price)
		}
		receipts = append(receipts, ReceiptRecord{
			Name:      row.At(colName),
			Quantity:  quantity,
			Unit:      UnitPieces,
			Price:     price,
			IsService: NotAService,
		})
	}

	return catalog, receipts, nil
}

// CoerceNumber converts a cell to a number cell. Anything that is not a
// plain decimal number, such as "3.0kg", becomes 0. Empty cells become 0,
// and so do values that overflow float64 ("1e999") or underflow to zero
// ("1e-999"). Bool cells become 1 or 0.
func CoerceNumber(c types.Cell) types.Cell {
	if c.Kind == types.CellBool {
		if c.Value == "true" {
			return types.Number("1")
		}
		return types.Number("0")
	}

	val := strings.TrimSpace(c.Value)
	if val == "" {
		return types.Number("0")
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return types.Number("0")
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return types.Number("0")
	}
	return types.Number(d.String())
}

// Transform validates the starting barcode, then filters rows and builds the
// catalog and receipt datasets. Nothing is built if the barcode is invalid.
func Transform(rows []types.Row, startBarcode string, opts Options) (*Result, error) {
	start, err := ValidateBarcode(startBarcode)
	if err != nil {
		return nil, err
	}

	valid := FilterRows(rows)
	barcodes, err := SequenceBarcodes(start, len(valid))
	if err != nil {
		return nil, err
	}

	catalog, receipts, err := MapRecords(valid, barcodes, opts)
	if err != nil {
		return nil, err
	}

	return &Result{Catalog: catalog, Receipts: receipts}, nil
}

// Preview returns name, quantity and price of up to limit valid rows as
// text. limit <= 0 means all rows.
func Preview(rows []types.Row, limit int) *types.FileData {
	data := &types.FileData{
		Headers: []string{HeaderName, HeaderQuantity, HeaderPrice},
	}
	for _, row := range FilterRows(rows) {
		if limit > 0 && len(data.Rows) >= limit {
			break
		}
		data.Rows = append(data.Rows, []string{
			row.At(colName).Value,
			row.At(colQuantity).Value,
			row.At(colPrice).Value,
		})
	}
	return data
}
