package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nconklindev/barcoder/internal/generator"

	"github.com/spf13/cobra"
)

var (
	genBarcode    string
	genFormat     string
	genZip        bool
	genCoerce     bool
	genStrict     bool
	genOut        string
	genHeaderRows int
	genEncoding   string
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate the catalog and receipt files from a spreadsheet",
	Long: `Generate reads the first sheet of an .xlsx or .xls workbook and writes the
1C catalog (Номенклатура) and goods receipt (Поступление_товаров) files.

Each non-empty row with a name in the first column becomes one product.
Barcodes are assigned in row order starting from --barcode and keep its width,
so leading zeros are preserved.`,
	Example: `  barcoder generate products.xlsx --barcode 4600000000017
  barcoder generate products.xlsx --barcode 00100 --out ./export --zip=false
  barcoder generate products.xls --barcode 1 --format xlsx --coerce`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genBarcode, "barcode", "b", "", "starting barcode, digits only (required)")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "", "output format: csv or xlsx")
	generateCmd.Flags().BoolVar(&genZip, "zip", true, "bundle both files into a single zip archive")
	generateCmd.Flags().BoolVar(&genCoerce, "coerce", false, "write quantity and price as numbers")
	generateCmd.Flags().BoolVar(&genStrict, "strict", false, "reject rows with fewer than three columns")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "output directory")
	generateCmd.Flags().IntVar(&genHeaderRows, "header-rows", 0, "number of leading rows to skip")
	generateCmd.Flags().StringVar(&genEncoding, "encoding", "", "csv encoding: utf-8 or windows-1251")
	generateCmd.MarkFlagRequired("barcode")
}

// applyGenerateFlags overrides loaded configuration with explicitly set flags
func applyGenerateFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = genFormat
	}
	if flags.Changed("zip") {
		cfg.Output.Zip = genZip
	}
	if flags.Changed("coerce") {
		cfg.Transform.CoerceNumbers = genCoerce
	}
	if flags.Changed("strict") {
		cfg.Transform.StrictColumns = genStrict
	}
	if flags.Changed("out") {
		cfg.Output.Dir = genOut
	}
	if flags.Changed("header-rows") {
		cfg.Input.HeaderRows = genHeaderRows
	}
	if flags.Changed("encoding") {
		cfg.Output.Encoding = genEncoding
	}
	return cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := applyGenerateFlags(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := generator.New(cfg, logger)
	result, err := gen.Run(ctx, generator.Request{File: args[0], Barcode: genBarcode}, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Products: %d\n", result.RowsProcessed)
	if result.RowsProcessed > 0 {
		fmt.Fprintf(out, "Barcodes: %s - %s\n", result.FirstBarcode, result.LastBarcode)
	}
	for _, path := range result.OutputFiles {
		fmt.Fprintf(out, "Wrote:    %s\n", path)
	}
	return nil
}
