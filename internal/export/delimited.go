package export

import (
	"fmt"
	"strings"

	"github.com/nconklindev/barcoder/internal/converter"
	"github.com/nconklindev/barcoder/internal/types"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	Delimiter = ";"
	BOM       = "\uFEFF"
)

type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1251 Encoding = "windows-1251"
)

func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1251", "cp1251":
		return EncodingWindows1251, nil
	default:
		return "", fmt.Errorf("unsupported text encoding %q (use utf-8 or windows-1251)", s)
	}
}

// SerializeDelimited renders records as a header line of field names
// followed by one line per record with every value wrapped in double
// quotes. Quotes and semicolons inside values are written as-is. No records
// gives an empty string.
func SerializeDelimited(records []types.Record) string {
	if len(records) == 0 {
		return ""
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(records[0].Names(), Delimiter))

	var sb strings.Builder
	for _, rec := range records {
		sb.Reset()
		for i, f := range rec {
			if i > 0 {
				sb.WriteString(Delimiter)
			}
			sb.WriteByte('"')
			sb.WriteString(f.Value.String())
			sb.WriteByte('"')
		}
		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

// DelimitedExporter writes both datasets as semicolon-delimited text.
// UTF-8 output starts with a byte order mark so spreadsheet apps and 1C
// detect the encoding; windows-1251 output has none.
type DelimitedExporter struct {
	Encoding Encoding
}

func (e *DelimitedExporter) Name() string { return "delimited-text" }

func (e *DelimitedExporter) Export(res *converter.Result) ([]Artifact, error) {
	catalog, err := e.encode(SerializeDelimited(res.CatalogRecords()))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", CatalogName, err)
	}
	receipt, err := e.encode(SerializeDelimited(res.ReceiptRecords()))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ReceiptName, err)
	}

	return []Artifact{
		{Name: CatalogName + ".csv", Data: catalog},
		{Name: ReceiptName + ".csv", Data: receipt},
	}, nil
}

func (e *DelimitedExporter) encode(text string) ([]byte, error) {
	switch e.Encoding {
	case EncodingWindows1251:
		out, _, err := transform.String(charmap.Windows1251.NewEncoder(), text)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case EncodingUTF8, "":
		return []byte(BOM + text), nil
	default:
		return nil, fmt.Errorf("unsupported text encoding %q", e.Encoding)
	}
}
