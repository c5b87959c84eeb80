package converter

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile    = errors.New("no spreadsheet file selected")
	ErrMissingBarcode = errors.New("starting barcode is empty")
)

// InvalidBarcodeError is returned when the starting barcode contains
// anything other than decimal digits.
type InvalidBarcodeError struct {
	Value string
}

func (e *InvalidBarcodeError) Error() string {
	return fmt.Sprintf("invalid starting barcode %q: only digits 0-9 are allowed", e.Value)
}

// SpreadsheetParseError wraps a failure to read the input workbook.
type SpreadsheetParseError struct {
	File string
	Err  error
}

func (e *SpreadsheetParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("could not parse spreadsheet: %v", e.Err)
	}
	return fmt.Sprintf("could not parse spreadsheet %s: %v", e.File, e.Err)
}

func (e *SpreadsheetParseError) Unwrap() error {
	return e.Err
}

// MalformedInputError is returned in strict mode when a product row has
// fewer than the three required columns. Row is the 1-based position among
// valid rows.
type MalformedInputError struct {
	Row     int
	Columns int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("row %d has %d column(s), expected at least %d (name, quantity, price)", e.Row, e.Columns, RequiredColumns)
}
