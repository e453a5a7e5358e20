// =============================================================================
// POS Receipt Converter - Render Command
// =============================================================================
//
// This file defines the 'render' command, which renders an export file that
// is already at hand. Nothing is sent to the printer and the backup output
// file is left alone, which makes it the tool for previewing store settings.
//
// COMMAND USAGE:
//   receipt render <file|-> [--out receipt.txt] [--journal journal.xlsx]
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/pos-receipt-converter/internal/converter"
	"github.com/ginjaninja78/pos-receipt-converter/internal/delivery"
	"github.com/spf13/cobra"
)

// renderOut is the file the receipt is written to. Empty means stdout.
var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render an export file to stdout or a file without printing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the receipt to this file instead of stdout")
	renderCmd.Flags().String("journal", "", "Write an XLSX journal of the export to this file")
}

func runRender(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	conv, err := converter.New(cfg, delivery.NewNullPrinter(), log)
	if err != nil {
		return err
	}

	var result converter.Result
	if path == "-" {
		result = conv.RenderReader(cmd.Context(), cmd.InOrStdin())
	} else {
		result = conv.RenderFile(cmd.Context(), path)
	}
	if result.Error != nil {
		return fmt.Errorf("%s: %w", path, result.Error)
	}

	if result.PersistenceError != nil {
		log.Warningf("Journal not written: %v", result.PersistenceError)
	}

	if renderOut == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), result.Document)
		return err
	}

	if err := os.WriteFile(renderOut, []byte(result.Document), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOut, err)
	}
	log.Infof("Wrote %d item(s) to %s", result.Stats.ItemsRendered, renderOut)
	return nil
}
