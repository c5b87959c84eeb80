// Package export turns transformed records into the files handed to the 1C
// import: a catalog dataset and a goods receipt dataset, written either as
// semicolon-delimited text or as workbooks, optionally bundled into a zip.
package export

import (
	"fmt"
	"strings"

	"github.com/nconklindev/barcoder/internal/converter"
)

// Base names of the two output files, without extension
const (
	CatalogName = "Номенклатура"
	ReceiptName = "Поступление_товаров"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Artifact is one named output payload
type Artifact struct {
	Name string
	Data []byte
}

// Exporter serializes a transform result into exactly two artifacts, the
// catalog first and the receipt second.
type Exporter interface {
	Name() string
	Export(res *converter.Result) ([]Artifact, error)
}

// ParseFormat accepts the format names used in config and flags
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "delimited-text", "text":
		return FormatCSV, nil
	case "xlsx", "tabular-file", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use csv or xlsx)", s)
	}
}

// NewExporter picks the serialization strategy for a format. encoding only
// applies to delimited text.
func NewExporter(format Format, encoding string) (Exporter, error) {
	switch format {
	case FormatCSV:
		enc, err := ParseEncoding(encoding)
		if err != nil {
			return nil, err
		}
		return &DelimitedExporter{Encoding: enc}, nil
	case FormatXLSX:
		return &TabularExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
