// =============================================================================
// POS Receipt Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (receipt)
//   ├── printCmd   (receipt print <receipt-key>)
//   ├── renderCmd  (receipt render <file>)
//   └── versionCmd (receipt version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the YAML configuration and layering Viper overrides on top
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/pos-receipt-converter/internal/config"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

var log = logging.MustGetLogger("receipt")

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "receipt",
	Short: "POS Receipt Converter - Turn POS exports into printable receipts",
	Long: `POS Receipt Converter reads the tab-delimited transaction export that the
POS leaves in its spill directory, renders it as a ReceiptLine receipt and
sends it to the local print server.

Key Features:
  - Locates the export across the S11, S11.1 ... S11.9 spill directories
  - Best-effort parsing: malformed lines are reported, never fatal
  - Backup copy of every receipt, optional archive and XLSX journal
  - Store identity and print server configurable via YAML, env or flags

Example Usage:
  receipt print 0001                      # Render and print receipt 0001
  receipt print 0001 --no-print           # Render and save only
  receipt render export.txt --out r.txt   # Render a file without printing
  RECEIPT_PRINT_SERVER_URL=http://pos:8080/tm_t20iii receipt print 0001`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// InitLogger Receives the log level to be set in go-logging as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned. Logs go to stderr so rendered receipts can be
// piped from stdout.
func InitLogger(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s}     %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(logLevelCode, "")

	logging.SetBackend(backendLeveled)
	return nil
}

// overrideFlags maps configuration keys to the command flags that can set them.
var overrideFlags = map[string]string{
	config.KeyPrintURL:    "printer-url",
	config.KeyOutputFile:  "output",
	config.KeyJournalFile: "journal",
}

// loadConfig loads the configuration for cmd: the YAML file (optional unless
// --config was given), then RECEIPT_* environment variables, then any flags
// of cmd listed in overrideFlags. It also initializes logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, !cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	v := config.NewViper()
	for key, name := range overrideFlags {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}

	if err := config.ApplyOverrides(cfg, v); err != nil {
		return nil, err
	}

	if verbose {
		cfg.LogLevel = "DEBUG"
	}

	if err := InitLogger(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	log.Debugf("Config: %+v", cfg)
	return cfg, nil
}
