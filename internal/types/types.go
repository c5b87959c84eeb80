package types

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
)

// Cell is a single raw spreadsheet value. Number cells keep the stored text,
// so "10" stays "10" and "10.50" stays "10.50".
type Cell struct {
	Kind  CellKind
	Value string
}

func Text(s string) Cell   { return Cell{Kind: CellString, Value: s} }
func Number(s string) Cell { return Cell{Kind: CellNumber, Value: s} }

// Present reports whether the cell holds a value at all.
func (c Cell) Present() bool {
	return c.Kind != CellEmpty
}

func (c Cell) String() string {
	return c.Value
}

type Row []Cell

// At returns the cell at index i, or an empty cell past the end of the row.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

type Field struct {
	Name  string
	Value Cell
}

// Record is an ordered set of named values. Every record in one dataset
// carries the same field names in the same order.
type Record []Field

func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

type ConversionResult struct {
	RunID         string
	InputFile     string
	OutputFiles   []string
	RowsRead      int
	RowsProcessed int
	FirstBarcode  string
	LastBarcode   string
}

type FileData struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int
}
