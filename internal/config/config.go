// =============================================================================
// POS Receipt Converter - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values come from three
// layers, later layers winning:
//   1. Built-in defaults (the store the converter was written for)
//   2. The YAML config file (config.yaml by default)
//   3. Environment variables (RECEIPT_ prefix) and command flags, via Viper
//
// EXAMPLE config.yaml:
//   input:
//     base_dir: S11
//     max_probes: 10
//   store:
//     name: Riceball PNH
//   print_server:
//     url: http://127.0.0.1:8080/tm_t20iii
//     timeout: 10s
//   output:
//     file: output.txt
//     journal_file: journal/receipts.xlsx
//   log_level: INFO
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/pos-receipt-converter/internal/layout"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. RECEIPT_PRINT_SERVER_URL.
const EnvPrefix = "RECEIPT"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Input       InputSettings       `yaml:"input"`
	Store       StoreSettings       `yaml:"store"`
	PrintServer PrintServerSettings `yaml:"print_server"`
	Output      OutputSettings      `yaml:"output"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "DEBUG", "INFO", "NOTICE", "WARNING", "ERROR", "CRITICAL"
	// Default: "INFO"
	LogLevel string `yaml:"log_level"`
}

// InputSettings controls where export files are looked up.
type InputSettings struct {
	// TempDir holds the spill directories.
	// Default: the OS temp directory
	TempDir string `yaml:"temp_dir"`

	// BaseDir is the un-suffixed spill directory name.
	// Default: "S11"
	BaseDir string `yaml:"base_dir"`

	// MaxProbes is the number of spill directories tried.
	// Default: 10
	MaxProbes int `yaml:"max_probes"`

	// Extension is appended to the receipt key.
	// Default: ".txt"
	Extension string `yaml:"extension"`
}

// StoreSettings is the static identity printed on every receipt.
type StoreSettings struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	Phone     string `yaml:"phone"`
	POSNumber string `yaml:"pos_number"`
	Footer    string `yaml:"footer"`

	// LogoFile replaces the embedded logo with the contents of a file.
	LogoFile string `yaml:"logo_file"`
}

// PrintServerSettings controls delivery to the ReceiptLine print server.
type PrintServerSettings struct {
	// Enabled turns delivery on. Default: true
	Enabled *bool `yaml:"enabled"`

	// URL is the print endpoint.
	// Default: "http://127.0.0.1:8080/tm_t20iii"
	URL string `yaml:"url"`

	// Timeout bounds one delivery attempt. Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// OutputSettings controls persistence of the rendered receipt.
type OutputSettings struct {
	// File is the backup copy rewritten on every run.
	// Default: "output.txt"
	File string `yaml:"file"`

	// ArchiveDir keeps a uniquely named copy of each receipt. Empty disables.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveNameFormat names archive copies.
	// Placeholders: {key} {uuid} {timestamp} {date} {time}
	// Default: "{key}_{timestamp}_{uuid}.txt"
	ArchiveNameFormat string `yaml:"archive_name_format"`

	// ArchiveRetention prunes archive copies older than this. Zero keeps all.
	ArchiveRetention time.Duration `yaml:"archive_retention"`

	// JournalFile is an XLSX workbook written alongside the receipt.
	// Empty disables.
	JournalFile string `yaml:"journal_file"`
}

// PrintEnabled reports whether delivery to the print server is on.
func (c *Config) PrintEnabled() bool {
	return c.PrintServer.Enabled == nil || *c.PrintServer.Enabled
}

// LayoutOptions returns the receipt options for the configured store. The
// embedded logo is used unless Store.LogoFile is set.
func (c *Config) LayoutOptions() (layout.Options, error) {
	options := layout.Options{
		StoreName:    c.Store.Name,
		StoreAddress: c.Store.Address,
		StorePhone:   c.Store.Phone,
		POSNumber:    c.Store.POSNumber,
		Footer:       c.Store.Footer,
	}

	if c.Store.LogoFile != "" {
		data, err := os.ReadFile(c.Store.LogoFile)
		if err != nil {
			return options, fmt.Errorf("failed to read logo file: %w", err)
		}
		options.Logo = strings.TrimRight(string(data), "\r\n")
	}

	return options, nil
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional: When true, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Input.TempDir == "" {
		config.Input.TempDir = os.TempDir()
	}
	if config.Input.BaseDir == "" {
		config.Input.BaseDir = "S11"
	}
	if config.Input.MaxProbes == 0 {
		config.Input.MaxProbes = 10
	}
	if config.Input.Extension == "" {
		config.Input.Extension = ".txt"
	}
	if config.Store.Name == "" {
		config.Store.Name = "Riceball PNH"
	}
	if config.Store.Address == "" {
		config.Store.Address = "ST.360 AND ST.57, BKK"
	}
	if config.Store.Phone == "" {
		config.Store.Phone = "069-823-736"
	}
	if config.Store.POSNumber == "" {
		config.Store.POSNumber = "001"
	}
	if config.Store.Footer == "" {
		config.Store.Footer = "Thank you for your visit!"
	}
	if config.PrintServer.URL == "" {
		config.PrintServer.URL = "http://127.0.0.1:8080/tm_t20iii"
	}
	if config.PrintServer.Timeout == 0 {
		config.PrintServer.Timeout = 10 * time.Second
	}
	if config.Output.File == "" {
		config.Output.File = "output.txt"
	}
	if config.Output.ArchiveNameFormat == "" {
		config.Output.ArchiveNameFormat = "{key}_{timestamp}_{uuid}.txt"
	}
	if config.LogLevel == "" {
		config.LogLevel = "INFO"
	}
}

// validate checks the configuration for values that cannot work.
func validate(config *Config) error {
	if config.Input.MaxProbes < 1 {
		return fmt.Errorf("input.max_probes must be at least 1, got %d", config.Input.MaxProbes)
	}
	if strings.ContainsAny(config.Input.BaseDir, `/\`) {
		return fmt.Errorf("input.base_dir must be a single directory name, got %q", config.Input.BaseDir)
	}
	if config.PrintServer.Timeout < 0 {
		return fmt.Errorf("print_server.timeout must not be negative")
	}
	if config.Output.ArchiveRetention < 0 {
		return fmt.Errorf("output.archive_retention must not be negative")
	}
	if config.PrintEnabled() &&
		!strings.HasPrefix(config.PrintServer.URL, "http://") &&
		!strings.HasPrefix(config.PrintServer.URL, "https://") {
		return fmt.Errorf("print_server.url must be an http(s) URL, got %q", config.PrintServer.URL)
	}
	return nil
}

// =============================================================================
// OVERRIDES
// =============================================================================

// Keys understood by ApplyOverrides. Environment variables use the upper-case
// form with "." replaced by "_" and the RECEIPT_ prefix.
const (
	KeyTempDir          = "input.temp_dir"
	KeyBaseDir          = "input.base_dir"
	KeyMaxProbes        = "input.max_probes"
	KeyPrintEnabled     = "print_server.enabled"
	KeyPrintURL         = "print_server.url"
	KeyPrintTimeout     = "print_server.timeout"
	KeyOutputFile       = "output.file"
	KeyArchiveDir       = "output.archive_dir"
	KeyArchiveRetention = "output.archive_retention"
	KeyJournalFile      = "output.journal_file"
	KeyLogLevel         = "log_level"
)

// NewViper returns a Viper instance reading RECEIPT_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by environment or a changed
// flag) onto config, then validates the result.
func ApplyOverrides(config *Config, v *viper.Viper) error {
	if v.IsSet(KeyTempDir) {
		config.Input.TempDir = v.GetString(KeyTempDir)
	}
	if v.IsSet(KeyBaseDir) {
		config.Input.BaseDir = v.GetString(KeyBaseDir)
	}
	if v.IsSet(KeyMaxProbes) {
		config.Input.MaxProbes = v.GetInt(KeyMaxProbes)
	}
	if v.IsSet(KeyPrintEnabled) {
		enabled := v.GetBool(KeyPrintEnabled)
		config.PrintServer.Enabled = &enabled
	}
	if v.IsSet(KeyPrintURL) {
		config.PrintServer.URL = v.GetString(KeyPrintURL)
	}
	if v.IsSet(KeyPrintTimeout) {
		config.PrintServer.Timeout = v.GetDuration(KeyPrintTimeout)
	}
	if v.IsSet(KeyOutputFile) {
		config.Output.File = v.GetString(KeyOutputFile)
	}
	if v.IsSet(KeyArchiveDir) {
		config.Output.ArchiveDir = v.GetString(KeyArchiveDir)
	}
	if v.IsSet(KeyArchiveRetention) {
		config.Output.ArchiveRetention = v.GetDuration(KeyArchiveRetention)
	}
	if v.IsSet(KeyJournalFile) {
		config.Output.JournalFile = v.GetString(KeyJournalFile)
	}
	if v.IsSet(KeyLogLevel) {
		config.LogLevel = v.GetString(KeyLogLevel)
	}

	applyDefaults(config)

	if err := validate(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
