package cmd

import (
	"fmt"

	"github.com/nconklindev/barcoder/internal/config"

	"github.com/spf13/cobra"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the barcoder configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Init writes barcoder.yaml with every setting at its default value.
Settings can also be given as environment variables, for example
BARCODER_OUTPUT_DIR or BARCODER_TRANSFORM_COERCE_NUMBERS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configInitPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configInitPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", "barcoder.yaml", "where to write the file")
}
