// =============================================================================
// POS Receipt Converter - Print Command
// =============================================================================
//
// This file defines the 'print' command, the main command of the tool. It runs
// the whole pipeline for one receipt key.
//
// COMMAND USAGE:
//   receipt print <receipt-key> [flags]
//
// FLAGS:
//   --printer-url : Print server endpoint (overrides print_server.url)
//   --output      : Backup output file (overrides output.file)
//   --journal     : XLSX journal file (overrides output.journal_file)
//   --no-print    : Render and save without sending to the printer
//
// EXIT STATUS:
//   Non-zero only when no receipt could be rendered. Save and print failures
//   are reported but do not fail the command.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/ginjaninja78/pos-receipt-converter/internal/converter"
	"github.com/ginjaninja78/pos-receipt-converter/internal/delivery"
	"github.com/spf13/cobra"
)

// noPrint disables delivery for this run.
var noPrint bool

var printCmd = &cobra.Command{
	Use:   "print <receipt-key>",
	Short: "Render a receipt from the POS export and send it to the printer",
	Long: `The print command looks up <receipt-key>.txt in the POS spill directories,
renders the receipt, writes the backup output file and posts the receipt to
the print server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrint(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().String("printer-url", "", "Print server endpoint")
	printCmd.Flags().String("output", "", "Backup output file")
	printCmd.Flags().String("journal", "", "Write an XLSX journal of the export to this file")
	printCmd.Flags().BoolVar(&noPrint, "no-print", false, "Render and save without printing")
}

// runPrint runs the pipeline for key and prints a summary.
func runPrint(cmd *cobra.Command, key string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printer, err := delivery.NewPrinterFromConfig(
		cfg.PrintEnabled() && !noPrint,
		cfg.PrintServer.URL,
		cfg.PrintServer.Timeout,
	)
	if err != nil {
		return err
	}

	conv, err := converter.New(cfg, printer, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result := conv.Run(ctx, key)
	if result.Error != nil {
		return fmt.Errorf("receipt %s: %w", key, result.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== POS Receipt Converter ===")
	fmt.Fprintf(out, "Receipt:         %s\n", key)
	fmt.Fprintf(out, "Input:           %s\n", result.InputPath)
	fmt.Fprintf(out, "Items:           %d\n", result.Stats.ItemsRendered)
	fmt.Fprintf(out, "Malformed lines: %d\n", result.Stats.MalformedRecords)

	if result.PersistenceError != nil {
		fmt.Fprintf(out, "  ✗ save: %v\n", result.PersistenceError)
	}
	if result.OutputFile != "" {
		fmt.Fprintf(out, "  ✓ saved -> %s\n", result.OutputFile)
	}
	if result.ArchiveFile != "" {
		fmt.Fprintf(out, "  ✓ archived -> %s\n", result.ArchiveFile)
	}
	if result.JournalFile != "" {
		fmt.Fprintf(out, "  ✓ journal -> %s\n", result.JournalFile)
	}

	switch {
	case result.DeliveryError != nil:
		fmt.Fprintf(out, "  ✗ print: %v\n", result.DeliveryError)
	case printer.Name() == "none":
		fmt.Fprintln(out, "  - print skipped")
	default:
		fmt.Fprintf(out, "  ✓ printed -> %s (job %s)\n", printer.Name(), result.JobID)
	}

	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)
	return nil
}
