// =============================================================================
// POS Receipt Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates one run for
// a single receipt key, from locating the export file to handing the rendered
// receipt to the print server.
//
// CONVERSION PIPELINE:
//   1. Resolve the receipt key to an export file in the spill directories
//   2. Stream-parse the export, one record per line, into a fresh model
//      (every record is also checked and, optionally, journaled)
//   3. Compose the receipt document from the finalized model
//   4. Write the backup output file and archive a copy
//   5. Deliver the document to the print server
//
// FAILURE POLICY:
//   - Missing input or an input without records stops the run (no document)
//   - Malformed records are reported and rendered best-effort
//   - Persistence and delivery failures are logged and recorded on the
//     result; the run itself still succeeds
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ginjaninja78/pos-receipt-converter/internal/config"
	"github.com/ginjaninja78/pos-receipt-converter/internal/delivery"
	"github.com/ginjaninja78/pos-receipt-converter/internal/journal"
	"github.com/ginjaninja78/pos-receipt-converter/internal/layout"
	"github.com/ginjaninja78/pos-receipt-converter/internal/recordparser"
	"github.com/ginjaninja78/pos-receipt-converter/internal/resolver"
	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
	"github.com/ginjaninja78/pos-receipt-converter/internal/validation"
	"github.com/ginjaninja78/pos-receipt-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one conversion run.
type Result struct {
	// Key is the receipt key the run was started with. Empty for RenderFile.
	Key string

	// InputPath is the export file that was read.
	InputPath string

	// Document is the rendered receipt. Empty if rendering failed.
	Document string

	// OutputFile is the backup file written, ArchiveFile its archived copy
	// and JournalFile the XLSX journal. Each is empty when not produced.
	OutputFile  string
	ArchiveFile string
	JournalFile string

	// JobID is the print job id returned by the printer.
	JobID string

	// Success indicates whether a document was rendered.
	Success bool

	// Error contains the error that stopped the run.
	Error error

	// PersistenceError and DeliveryError record non-fatal failures.
	PersistenceError error
	DeliveryError    error

	// Issues lists the malformed-record findings.
	Issues []*validation.Issue

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// LinesRead is the number of export lines consumed.
	LinesRead int

	// ItemsRendered is the number of item rows in the document.
	ItemsRendered int

	// MalformedRecords is the number of lines with at least one issue.
	MalformedRecords int

	// Blocks is the number of document blocks, optional ones included.
	Blocks int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging surface the converter needs. *logging.Logger from
// github.com/op/go-logging satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Converter runs the receipt pipeline. It holds no per-run state, so one
// instance can serve many runs.
type Converter struct {
	resolver *resolver.Resolver
	composer *layout.Composer
	printer  delivery.Printer
	files    *utils.FileManager

	// journalPath enables the XLSX journal when set.
	journalPath string

	// archiveRetention prunes old archive copies after each run.
	archiveRetention time.Duration

	logger Logger
	now    func() time.Time
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter from the application configuration.
//
// PARAMETERS:
//   - cfg: The loaded configuration (defaults applied).
//   - printer: The delivery target. Use delivery.NewNullPrinter to disable.
//   - logger: Receives progress and warnings.
//
// RETURNS:
//   - A new Converter.
//   - An error if the store options cannot be loaded.
func New(cfg *config.Config, printer delivery.Printer, logger Logger) (*Converter, error) {
	options, err := cfg.LayoutOptions()
	if err != nil {
		return nil, err
	}

	if printer == nil {
		printer = delivery.NewNullPrinter()
	}

	return &Converter{
		resolver: resolver.New(cfg.Input.TempDir, cfg.Input.BaseDir, cfg.Input.MaxProbes, cfg.Input.Extension),
		composer: layout.New(options),
		printer:  printer,
		files: utils.NewFileManager(
			cfg.Output.File,
			cfg.Output.ArchiveDir,
			cfg.Output.ArchiveNameFormat,
		),
		journalPath:      cfg.Output.JournalFile,
		archiveRetention: cfg.Output.ArchiveRetention,
		logger:           logger,
		now:              time.Now,
	}, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run executes the full pipeline for a receipt key.
//
// RETURNS:
//   - A Result. Result.Error wraps resolver.ErrInputNotFound or
//     layout.ErrNoHeader when no document could be produced.
func (c *Converter) Run(ctx context.Context, key string) Result {
	startTime := time.Now()
	result := Result{Key: key}

	// =========================================================================
	// STEP 1: RESOLVE INPUT
	// =========================================================================

	c.logger.Infof("Processing receipt: %s", key)

	path, err := c.resolver.Resolve(key)
	if err != nil {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	c.logger.Debugf("Resolved %s to %s", key, path)

	// =========================================================================
	// STEPS 2-3: PARSE AND COMPOSE
	// =========================================================================

	c.render(ctx, path, &result)
	if result.Error != nil {
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 4: PERSIST
	// =========================================================================
	// The backup file is written before delivery so a failed print can be
	// re-sent from it.

	c.persist(key, &result)

	// =========================================================================
	// STEP 5: DELIVER
	// =========================================================================

	jobID, err := c.printer.Print(ctx, []byte(result.Document))
	if err != nil {
		result.DeliveryError = err
		c.logger.Errorf("Failed to deliver receipt %s to %s: %v", key, c.printer.Name(), err)
	} else {
		result.JobID = jobID
		c.logger.Infof("Delivered receipt %s to %s", key, c.printer.Name())
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// RenderFile renders an export file without persisting or delivering it.
// The journal is still written when configured.
func (c *Converter) RenderFile(ctx context.Context, path string) Result {
	startTime := time.Now()
	result := Result{}

	c.render(ctx, path, &result)
	if result.Error == nil {
		result.Success = true
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// RenderReader renders an export read from r. Nothing is written anywhere.
func (c *Converter) RenderReader(ctx context.Context, r io.Reader) Result {
	startTime := time.Now()
	result := Result{}

	if _, err := c.compose(ctx, r, nil, &result); err == nil {
		result.Success = true
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// render opens path, streams it into a model and composes the document,
// filling in result.
func (c *Converter) render(ctx context.Context, path string, result *Result) {
	result.InputPath = path

	f, err := os.Open(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to open input: %w", err)
		return
	}
	defer f.Close()

	var jw *journal.Writer
	journalOK := false
	if c.journalPath != "" {
		jw, err = journal.Create(c.journalPath)
		if err != nil {
			result.PersistenceError = err
			c.logger.Warningf("Journal disabled for this run: %v", err)
		} else {
			journalOK = true
		}
	}

	model, err := c.compose(ctx, f, func(record types.TransactionRecord) {
		if !journalOK {
			return
		}
		if err := jw.Add(record); err != nil {
			journalOK = false
			result.PersistenceError = err
			c.logger.Warningf("Failed to journal line %d: %v", record.LineNumber, err)
		}
	}, result)

	if jw == nil {
		return
	}
	if err != nil || !journalOK {
		jw.Abort()
		return
	}

	if err := jw.Close(model.Header); err != nil {
		result.PersistenceError = err
		c.logger.Warningf("Failed to save journal: %v", err)
		return
	}

	result.JournalFile = c.journalPath
	c.logger.Debugf("Journaled %d record(s) to %s", jw.Rows(), c.journalPath)
}

// compose parses r into a fresh model and renders it. observe, when not nil,
// sees every record after it has been checked.
func (c *Converter) compose(ctx context.Context, r io.Reader, observe func(types.TransactionRecord), result *Result) (*types.Model, error) {
	model := types.NewModel()
	collector := &validation.Collector{}

	lines, err := recordparser.Parse(ctx, r, model, func(record types.TransactionRecord) {
		collector.Observe(record)
		if observe != nil {
			observe(record)
		}
	})

	result.Stats.LinesRead = lines
	result.Issues = collector.Issues
	result.Stats.MalformedRecords = collector.MalformedRecords()

	for _, issue := range collector.Issues {
		c.logger.Warningf("%s", issue.Error())
	}

	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return model, result.Error
	}

	c.logger.Debugf("Parsed %d line(s), %d malformed", lines, result.Stats.MalformedRecords)

	doc, err := c.composer.Compose(model.Header, model.Items, c.now())
	if err != nil {
		result.Error = err
		return model, err
	}

	result.Document = doc.String()
	result.Stats.ItemsRendered = len(model.Items)
	result.Stats.Blocks = len(doc.Blocks)

	return model, nil
}

// persist writes the backup file, archives a copy and prunes old archives.
func (c *Converter) persist(key string, result *Result) {
	outputPath, err := c.files.WriteOutput([]byte(result.Document))
	if err != nil {
		result.PersistenceError = err
		c.logger.Errorf("Failed to write receipt %s: %v", key, err)
		return
	}

	result.OutputFile = outputPath
	c.logger.Infof("Wrote receipt to: %s", outputPath)

	archivePath, err := c.files.ArchiveDocument(outputPath, key)
	if err != nil {
		result.PersistenceError = err
		c.logger.Warningf("Failed to archive receipt %s: %v", key, err)
		return
	}
	result.ArchiveFile = archivePath

	if archivePath != "" && c.archiveRetention > 0 {
		removed, err := utils.CleanOldArchives(c.files.ArchiveDir, c.archiveRetention)
		if err != nil {
			c.logger.Warningf("Failed to prune archives: %v", err)
		} else if removed > 0 {
			c.logger.Debugf("Pruned %d archived receipt(s)", removed)
		}
	}
}
