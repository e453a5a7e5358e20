// =============================================================================
// POS Receipt Converter - Record Diagnostics
// =============================================================================
//
// This module reports malformed export records. It never rejects a record:
// the receipt is still produced with blank or "NaN" text in the affected
// positions. Issues are collected so the converter can log and count them.
//
// CHECKS:
//   1. Field count: a well-formed record has 20 tab-separated fields
//   2. Monetary fields: amounts that do not start with a number render as NaN
//
// Monetary fields that are empty are reported only when the record is long
// enough to contain them; a short record is already reported once by the
// field count check.
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ginjaninja78/pos-receipt-converter/internal/currency"
	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Rule names carried by issues.
const (
	RuleFieldCount = "field_count"
	RuleNumeric    = "numeric"
)

// Issue is a single non-fatal problem found in a record.
type Issue struct {
	// Rule is the check that flagged the record.
	Rule string

	// Field is the schema name of the offending position, if any.
	Field string

	// Value is the raw value that was flagged.
	Value string

	// Message is a human-readable description.
	Message string

	// LineNumber is the 1-indexed input line.
	LineNumber int
}

// Error implements the error interface.
func (i *Issue) Error() string {
	if i.Field == "" {
		return fmt.Sprintf("[WARNING] Line %d: %s", i.LineNumber, i.Message)
	}
	return fmt.Sprintf("[WARNING] Line %d, Field '%s': %s (value: '%s')",
		i.LineNumber, i.Field, i.Message, i.Value)
}

// monetaryFields are the positions that go through the currency formatter.
var monetaryFields = []int{
	types.FieldUnitPrice,
	types.FieldTotal,
	types.FieldTotalWithDiscount,
	types.FieldSumUSD,
	types.FieldSumKHR,
	types.FieldGrandTotalUSD,
	types.FieldGrandTotalKHR,
	types.FieldReceivedUSD,
	types.FieldReceivedKHR,
	types.FieldChangeUSD,
	types.FieldChangeKHR,
}

// =============================================================================
// CHECKS
// =============================================================================

// Check returns the issues found in a record. A nil result means the record
// is well-formed.
func Check(record types.TransactionRecord) []*Issue {
	var issues []*Issue

	if !record.WellFormed() {
		issues = append(issues, &Issue{
			Rule:       RuleFieldCount,
			Message:    fmt.Sprintf("expected %d fields, found %d", types.FieldCount, len(record.Fields)),
			LineNumber: record.LineNumber,
		})
	}

	for _, idx := range monetaryFields {
		if idx >= len(record.Fields) {
			continue
		}

		value := record.Fields[idx]
		if !math.IsNaN(currency.ParseNumber(value)) {
			continue
		}

		issues = append(issues, &Issue{
			Rule:       RuleNumeric,
			Field:      types.FieldNames[idx],
			Value:      value,
			Message:    "amount is not numeric and will print as NaN",
			LineNumber: record.LineNumber,
		})
	}

	return issues
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Collector accumulates issues across the records of one run.
type Collector struct {
	Issues  []*Issue
	Records int
}

// Observe checks a record and keeps its issues.
func (c *Collector) Observe(record types.TransactionRecord) {
	c.Records++
	c.Issues = append(c.Issues, Check(record)...)
}

// MalformedRecords returns the number of distinct lines with issues.
func (c *Collector) MalformedRecords() int {
	lines := make(map[int]struct{})
	for _, issue := range c.Issues {
		lines[issue.LineNumber] = struct{}{}
	}
	return len(lines)
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No record issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Found %d record issue(s):\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}
