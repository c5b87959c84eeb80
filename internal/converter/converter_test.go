package converter

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/nconklindev/barcoder/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(vals ...any) types.Row {
	r := make(types.Row, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case nil:
			r[i] = types.Cell{}
		case string:
			r[i] = types.Text(v)
		case int:
			r[i] = types.Number(strconv.Itoa(v))
		}
	}
	return r
}

func TestSequenceBarcodes(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		count    int
		expected []string
	}{
		{"Zero count", "00100", 0, []string{}},
		{"Keeps leading zeros", "00100", 2, []string{"00100", "00101"}},
		{"Carries into padding", "0099", 3, []string{"0099", "0100", "0101"}},
		{"Single digit", "7", 3, []string{"7", "8", "9"}},
		{"All zeros", "000", 2, []string{"000", "001"}},
		{"Overflow is not truncated", "99998", 5, []string{"99998", "99999", "100000", "100001", "100002"}},
		{"Longer than int64", "46000000000000000000001", 2, []string{"46000000000000000000001", "46000000000000000000002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SequenceBarcodes(tt.start, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSequenceBarcodesProperties(t *testing.T) {
	for _, start := range []string{"000", "100", "00000", "4600000000017", "123456"} {
		for _, k := range []int{0, 1, 2, 17, 250} {
			codes, err := SequenceBarcodes(start, k)
			require.NoError(t, err)
			require.Len(t, codes, k)

			if k > 0 {
				assert.Equal(t, start, codes[0])
			}
			for i, code := range codes {
				assert.Len(t, code, len(start), "code %d of %s", i, start)
				if i > 0 {
					assert.Less(t, codes[i-1], code, "codes must increase")
				}
			}
		}
	}
}

func TestSequenceBarcodesInvalid(t *testing.T) {
	for _, start := range []string{"", "abc", "12a", "-5", "1.5", " 12"} {
		_, err := SequenceBarcodes(start, 3)
		var invalid *InvalidBarcodeError
		assert.ErrorAs(t, err, &invalid, "start %q", start)
	}
}

func TestValidateBarcode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"Plain digits", "00100", "00100", nil},
		{"Trims whitespace", "  4600 ", "4600", nil},
		{"Empty", "", "", ErrMissingBarcode},
		{"Whitespace only", "   ", "", ErrMissingBarcode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateBarcode(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ValidateBarcode("abc")
	var invalid *InvalidBarcodeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "abc", invalid.Value)
}

func TestFilterRows(t *testing.T) {
	rows := []types.Row{
		row("Widget", 5, 10),
		{},
		row(nil, 3, 4),
		row("Gadget", 2, 20),
		row("Name only"),
	}

	got := FilterRows(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "Widget", got[0][0].Value)
	assert.Equal(t, "Gadget", got[1][0].Value)
	assert.Equal(t, "Name only", got[2][0].Value)

	assert.Equal(t, got, FilterRows(got), "filtering twice changes nothing")
	assert.Empty(t, FilterRows(nil))
}

func TestTransformScenarios(t *testing.T) {
	t.Run("Two products", func(t *testing.T) {
		rows := []types.Row{row("Widget", 5, 10), row("Gadget", 2, 20)}

		res, err := Transform(rows, "00100", Options{})
		require.NoError(t, err)
		require.Len(t, res.Catalog, 2)
		require.Len(t, res.Receipts, 2)

		assert.Equal(t, "00100", res.Catalog[0].Barcode)
		assert.Equal(t, "00101", res.Catalog[1].Barcode)
		assert.Equal(t, "10", res.Catalog[0].Price.Value)
		assert.Equal(t, "20", res.Catalog[1].Price.Value)
		assert.Equal(t, "5", res.Receipts[0].Quantity.Value)
		assert.Equal(t, "2", res.Receipts[1].Quantity.Value)

		assert.Equal(t, CatalogRecord{
			Barcode:   "00100",
			Name:      types.Text("Widget"),
			IsService: NotAService,
			Unit:      UnitPieces,
			VatRate:   NoVAT,
			Price:     types.Number("10"),
		}, res.Catalog[0])
		assert.Equal(t, ReceiptRecord{
			Name:      types.Text("Gadget"),
			Quantity:  types.Number("2"),
			Unit:      UnitPieces,
			Price:     types.Number("20"),
			IsService: NotAService,
		}, res.Receipts[1])
	})

	t.Run("No rows", func(t *testing.T) {
		res, err := Transform(nil, "00100", Options{})
		require.NoError(t, err)
		assert.Empty(t, res.Catalog)
		assert.Empty(t, res.Receipts)
		assert.Empty(t, res.CatalogRecords())
	})

	t.Run("Invalid barcode builds nothing", func(t *testing.T) {
		res, err := Transform([]types.Row{row("Widget", 5, 10)}, "abc", Options{})
		var invalid *InvalidBarcodeError
		require.ErrorAs(t, err, &invalid)
		assert.Nil(t, res)
	})

	t.Run("Nameless row does not use a barcode", func(t *testing.T) {
		rows := []types.Row{row("Widget", 5, 10), row(nil, 1, 1), row("Gadget", 2, 20)}

		res, err := Transform(rows, "00100", Options{})
		require.NoError(t, err)
		require.Len(t, res.Catalog, 2)
		require.Len(t, res.Receipts, 2)
		assert.Equal(t, "Gadget", res.Catalog[1].Name.Value)
		assert.Equal(t, "00101", res.Catalog[1].Barcode)
	})

	t.Run("Coercion falls back to zero", func(t *testing.T) {
		rows := []types.Row{{types.Text("Flour"), types.Text("3.0kg"), types.Number("45.50")}}

		res, err := Transform(rows, "1", Options{CoerceNumbers: true})
		require.NoError(t, err)
		assert.Equal(t, types.Number("0"), res.Receipts[0].Quantity)
		assert.Equal(t, types.Number("45.5"), res.Receipts[0].Price)
		assert.Equal(t, types.Number("45.50"), res.Catalog[0].Price, "catalog price stays raw")
	})

	t.Run("Missing barcode", func(t *testing.T) {
		_, err := Transform(nil, " ", Options{})
		assert.True(t, errors.Is(err, ErrMissingBarcode))
	})
}

func TestMapRecordsStrictColumns(t *testing.T) {
	rows := []types.Row{row("Widget", 5, 10), row("Gadget", 2)}

	catalog, receipts, err := MapRecords(rows, []string{"1", "2"}, Options{StrictColumns: true})
	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Row)
	assert.Equal(t, 2, malformed.Columns)
	assert.Nil(t, catalog)
	assert.Nil(t, receipts)

	catalog, receipts, err = MapRecords(rows, []string{"1", "2"}, Options{})
	require.NoError(t, err)
	assert.False(t, catalog[1].Price.Present())
	assert.False(t, receipts[1].Price.Present())
}

func TestMapRecordsLengthMismatch(t *testing.T) {
	_, _, err := MapRecords([]types.Row{row("Widget", 1, 1)}, nil, Options{})
	assert.Error(t, err)
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    types.Cell
		expected string
	}{
		{"Integer", types.Number("5"), "5"},
		{"Decimal", types.Number("10.25"), "10.25"},
		{"Numeric text", types.Text(" 7 "), "7"},
		{"Exponent", types.Text("1e3"), "1000"},
		{"Unit suffix", types.Text("3.0kg"), "0"},
		{"Comma decimal", types.Text("3,5"), "0"},
		{"Empty", types.Cell{}, "0"},
		{"Huge exponent", types.Text("1e999999999"), "0"},
		{"Huge exponent number cell", types.Number("1e10000000"), "0"},
		{"Tiny exponent", types.Text("1e-999999999"), "0"},
		{"Infinity", types.Text("Infinity"), "0"},
		{"NaN", types.Text("NaN"), "0"},
		{"Largest float", types.Text("1e308"), "1" + strings.Repeat("0", 308)},
		{"Bool true", types.Cell{Kind: types.CellBool, Value: "true"}, "1"},
		{"Bool false", types.Cell{Kind: types.CellBool, Value: "false"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceNumber(tt.input)
			assert.Equal(t, types.CellNumber, got.Kind)
			assert.Equal(t, tt.expected, got.Value)
		})
	}
}

func TestRecordFieldOrder(t *testing.T) {
	res, err := Transform([]types.Row{row("Widget", 5, 10)}, "1", Options{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Штрихкод", "Наименование", "ЭтоУслуга", "ЕдиницаИзмерения", "Ставка НДС", "Цена"},
		res.CatalogRecords()[0].Names())
	assert.Equal(t,
		[]string{"Номенклатура", "Количество", "Единица измерения", "Цена", "ЭтоУслуга"},
		res.ReceiptRecords()[0].Names())
}

func TestPreview(t *testing.T) {
	rows := []types.Row{row("Widget", 5, 10), row(nil, 1), row("Gadget"), row("Gizmo", 1, 2)}

	data := Preview(rows, 2)
	assert.Equal(t, []string{HeaderName, HeaderQuantity, HeaderPrice}, data.Headers)
	assert.Equal(t, [][]string{{"Widget", "5", "10"}, {"Gadget", "", ""}}, data.Rows)

	assert.Len(t, Preview(rows, 0).Rows, 3)
}
