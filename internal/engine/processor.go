// =============================================================================
// Receipt Normalizer - File Processor
// =============================================================================
//
// The Processor wraps the pure Process function with the file-facing work:
// pre-flight inspection, the single sequential read, format selection
// (delimited text or Excel workbook), and run bookkeeping. One Processor
// handles one file; callers in a concurrent host create one instance per
// file and share nothing.
//
// =============================================================================

package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/recibos-tools/receipt-normalizer/internal/config"
	"github.com/recibos-tools/receipt-normalizer/internal/reader"
	"github.com/recibos-tools/receipt-normalizer/internal/types"
	"github.com/recibos-tools/receipt-normalizer/pkg/utils"
)

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Processor drives the normalization pipeline for a single input file.
type Processor struct {
	path   string
	opts   config.Options
	logger Logger
}

// Logger is an interface for logging.
// CUSTOMIZATION: Implement this interface with your preferred logging library.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Result is the outcome of one file run.
type Result struct {
	// FilePath is the input file this result describes.
	FilePath string

	// Success is true when the file was read and mapped; individual rows
	// may still have failed (see Pipeline.Report).
	Success bool

	// Error is the file-level failure, when Success is false.
	Error error

	// Pipeline holds the full normalization output when Success is true.
	Pipeline *types.PipelineResult

	// Duration is the total processing time.
	Duration time.Duration
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Processor instance.
//
// PARAMETERS:
//   - path: the input file to process.
//   - opts: per-run configuration; defaults are applied on Run.
//
// RETURNS:
//   - A new Processor instance.
func New(path string, opts config.Options) *Processor {
	return &Processor{
		path:   path,
		opts:   opts,
		logger: &defaultLogger{},
	}
}

// SetLogger replaces the default logger.
func (p *Processor) SetLogger(logger Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the normalization pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
//
// PROCESSING STEPS:
//   1. Inspect the file (existence, size, extension)
//   2. Read it once: delimited text or Excel workbook by extension
//   3. Resolve the column mapping
//   4. Validate and normalize every data row
//   5. Aggregate the dataset insights
func (p *Processor) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: p.path,
		Success:  false,
	}

	p.opts.ApplyDefaults()
	p.logger.Info("Processing file: %s", p.path)

	// =========================================================================
	// STEP 1: Pre-flight inspection
	// =========================================================================
	fileWarnings, err := utils.InspectFile(p.path, p.opts.MaxFileSizeBytes)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		p.logger.Error("File inspection failed: %v", err)
		return result
	}
	for _, w := range fileWarnings {
		p.logger.Warn("%s", w)
	}

	// =========================================================================
	// STEP 2: Single sequential read
	// =========================================================================
	input, err := p.readInput()
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		p.logger.Error("Failed to read input: %v", err)
		return result
	}
	p.logger.Debug("Read %d data rows (%d columns, encoding %s)",
		len(input.Rows), len(input.Headers), input.Encoding)

	// =========================================================================
	// STEP 3-5: Pure pipeline
	// =========================================================================
	pipeline, err := Process(input.Headers, input.Rows, p.opts)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		p.logger.Error("Processing failed: %v", err)
		return result
	}

	pipeline.RunID = uuid.New().String()
	pipeline.SourceFile = p.path
	pipeline.FileWarnings = fileWarnings

	for field, header := range pipeline.Mapping {
		p.logger.Debug("Mapped column %q to %s", header, field)
	}

	result.Pipeline = pipeline
	result.Success = true
	result.Duration = time.Since(startTime)

	p.logger.Info("Completed in %s: %d/%d rows valid, quality score %.1f",
		result.Duration.Round(time.Millisecond),
		pipeline.Report.ValidRows,
		pipeline.Report.TotalRows,
		pipeline.Insights.QualityScore)

	return result
}

// readInput selects the reader by extension and performs the single read.
func (p *Processor) readInput() (*reader.Input, error) {
	if utils.IsXLSX(p.path) {
		return reader.ReadXLSX(p.path)
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return reader.ReadCSV(p.path, data)
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger is a simple logger that prints to stderr.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+msg+"\n", args...)
}
