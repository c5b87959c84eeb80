package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nconklindev/barcoder/internal/converter"

	"github.com/spf13/cobra"
)

var (
	previewLimit      int
	previewHeaderRows int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the product rows that would be converted",
	Long: `Preview reads a spreadsheet the same way generate does and prints the
name, quantity and price of the first rows without writing anything.`,
	Example: `  barcoder preview products.xlsx
  barcoder preview products.xls --limit 50 --header-rows 1`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVarP(&previewLimit, "limit", "n", 20, "maximum rows to show (0 for all)")
	previewCmd.Flags().IntVar(&previewHeaderRows, "header-rows", 0, "number of leading rows to skip")
}

func runPreview(cmd *cobra.Command, args []string) error {
	opts := converter.ReadOptions{HeaderRows: cfg.Input.HeaderRows}
	if cmd.Flags().Changed("header-rows") {
		opts.HeaderRows = previewHeaderRows
	}
	if opts.HeaderRows < 0 {
		return fmt.Errorf("header-rows must not be negative, got %d", opts.HeaderRows)
	}

	logger.Debug().Str("file", args[0]).Int("header_rows", opts.HeaderRows).Msg("reading preview")
	data, err := converter.ReadFileData(args[0], opts, previewLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\t"+strings.Join(data.Headers, "\t"))
	for i, row := range data.Rows {
		fmt.Fprintf(w, "%d\t%s\n", i+1, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d row(s) shown\n", len(data.Rows))
	return nil
}
