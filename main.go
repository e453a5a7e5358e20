// =============================================================================
// POS Receipt Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the POS Receipt Converter CLI. It hands
// control to the Cobra commands in the cmd package.
//
// USAGE:
//   receipt print <receipt-key>  - Render a POS export and print it
//   receipt render <file>        - Render an export file without printing
//   receipt version              - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, layout, delivery and persistence
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/pos-receipt-converter/cmd"
)

func main() {
	cmd.Execute()
}
