package cmd

import (
	"fmt"
	"os"

	"github.com/nconklindev/barcoder/internal/config"
	"github.com/nconklindev/barcoder/internal/logging"
	"github.com/nconklindev/barcoder/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
)

// rootCmd starts the interactive UI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "barcoder",
	Short: "Generate 1C catalog and goods receipt files from a product spreadsheet",
	Long: `Barcoder reads a spreadsheet of products (name, quantity, price), assigns
sequential barcodes starting from a number you choose, and writes two files
ready for import into 1C: a product catalog and a goods receipt.

Run without arguments for the interactive interface.`,
	Example: `  barcoder
  barcoder generate products.xlsx --barcode 4600000000017
  barcoder generate products.xls --barcode 00100 --format xlsx --zip=false
  barcoder preview products.xlsx`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
	RunE:              runUI,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./barcoder.yaml or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// persistentPreRun loads configuration before every command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
		return nil
	}
	// config init must work even when the existing config is broken
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	cfg = loaded
	logger = logging.New(cfg.Log, os.Stderr)
	return nil
}

func runUI(cmd *cobra.Command, args []string) error {
	log, closer, err := logging.NewFile(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().Str("version", Version).Msg("starting interactive session")

	p := tea.NewProgram(ui.InitialModel(*cfg, log), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
