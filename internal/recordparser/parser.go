// =============================================================================
// POS Receipt Converter - Record Parser Module
// =============================================================================
//
// This module decodes the tab-delimited POS export, one line at a time, into
// the shared record model. It handles:
//   - Splitting a line into the fixed 20-position schema
//   - Seeding the receipt header from the first line only
//   - Rendering one item row for every line (the first line included)
//   - Streaming lines from a reader without buffering the whole file
//
// BEST-EFFORT POLICY:
//   The export format is loosely specified, so the parser never rejects a
//   line. Missing positions read as "" and non-numeric amounts format as
//   "NaN". Diagnostics for such lines live in the validation package.
//
// =============================================================================

package recordparser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/pos-receipt-converter/internal/currency"
	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
)

// MaxLineSize is the longest export line the streaming parser accepts.
const MaxLineSize = 1024 * 1024

// =============================================================================
// LINE DECODING
// =============================================================================

// Split decodes a raw export line into a record. A trailing carriage return
// is dropped so CRLF exports decode the same as LF ones.
func Split(rawLine string, lineNumber int) types.TransactionRecord {
	line := strings.TrimSuffix(rawLine, "\r")
	return types.TransactionRecord{
		Fields:     strings.Split(line, "\t"),
		LineNumber: lineNumber,
	}
}

// OnLine feeds one export line into the model. The header is derived from
// the first line seen and left untouched afterwards; every line appends
// exactly one rendered item row.
//
// RETURNS:
//   - The decoded record, for observers such as the journal.
func OnLine(rawLine string, model *types.Model) types.TransactionRecord {
	record := Split(rawLine, len(model.Items)+1)
	Apply(record, model)
	return record
}

// Apply updates the model with an already decoded record.
func Apply(record types.TransactionRecord, model *types.Model) {
	if model.Header == nil {
		header := DeriveHeader(record)
		model.Header = &header
	}
	model.Items = append(model.Items, RenderItem(record))
}

// DeriveHeader builds the receipt-level snapshot from a record.
func DeriveHeader(r types.TransactionRecord) types.HeaderInfo {
	return types.HeaderInfo{
		ReceiptNo:       r.Field(types.FieldReceiptNo),
		Cashier:         r.Field(types.FieldCashier),
		SumUSD:          currency.Format(r.Field(types.FieldSumUSD), currency.TagUSD),
		SumKHR:          currency.Format(r.Field(types.FieldSumKHR), currency.TagKHR),
		DiscountCart:    r.Field(types.FieldDiscountCart) + "%",
		GrandTotalUSD:   currency.Format(r.Field(types.FieldGrandTotalUSD), currency.TagUSD),
		GrandTotalKHR:   currency.Format(r.Field(types.FieldGrandTotalKHR), currency.TagKHR),
		PayBy:           r.Field(types.FieldPayBy),
		DeliveryService: r.Field(types.FieldDeliveryService),
		ReceivedUSD:     currency.Format(r.Field(types.FieldReceivedUSD), currency.TagUSD),
		ReceivedKHR:     currency.Format(r.Field(types.FieldReceivedKHR), currency.TagKHR),
		ChangeUSD:       currency.Format(r.Field(types.FieldChangeUSD), currency.TagUSD),
		ChangeKHR:       currency.Format(r.Field(types.FieldChangeKHR), currency.TagKHR),
	}
}

// HasUnitDiscount reports whether the record carries a usable per-unit
// discount, which selects the discounted item row.
func HasUnitDiscount(r types.TransactionRecord) bool {
	return currency.IsNonZero(currency.ParseNumber(r.Field(types.FieldDiscountUnit)))
}

// RenderItem renders the item row for a record.
//
// ROW VARIANTS:
//   plain:      "<code>" "<name>" |
//                   ||"<price>" x "<qty>"| "<total>"
//   discounted: "<code>" "<name>" |
//                   ||| "<price>" x "<qty>" | "<discount>"| "<discounted total>"
func RenderItem(r types.TransactionRecord) string {
	code := r.Field(types.FieldItemCode)
	name := r.Field(types.FieldItemName)
	price := currency.Format(r.Field(types.FieldUnitPrice), currency.TagNone)
	qty := r.Field(types.FieldQty)

	if HasUnitDiscount(r) {
		return fmt.Sprintf("\"%s\" \"%s\" |\n    ||| \"%s\" x \"%s\" | \"%s\"| \"%s\"\n",
			code, name, price, qty,
			r.Field(types.FieldDiscountUnit),
			currency.Format(r.Field(types.FieldTotalWithDiscount), currency.TagPlaceholder))
	}

	return fmt.Sprintf("\"%s\" \"%s\" |\n    ||\"%s\" x \"%s\"| \"%s\"\n",
		code, name, price, qty,
		currency.Format(r.Field(types.FieldTotal), currency.TagPlaceholder))
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads export lines one at a time from a reader.
//
// USAGE:
//   parser := NewStreamingParser(file)
//   for parser.Next() {
//       record := parser.Record()
//       // Process the record...
//   }
//   if err := parser.Err(); err != nil {
//       return err
//   }
type StreamingParser struct {
	scanner    *bufio.Scanner
	current    types.TransactionRecord
	lineNumber int
	err        error
}

// NewStreamingParser creates a streaming parser over r.
func NewStreamingParser(r io.Reader) *StreamingParser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	return &StreamingParser{scanner: scanner}
}

// Next advances to the next line. Returns false at end of input or on error.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			p.err = fmt.Errorf("error reading line %d: %w", p.lineNumber+1, err)
		}
		return false
	}

	p.lineNumber++
	p.current = Split(p.scanner.Text(), p.lineNumber)
	return true
}

// Record returns the current record.
func (p *StreamingParser) Record() types.TransactionRecord {
	return p.current
}

// LineNumber returns the number of lines read so far.
func (p *StreamingParser) LineNumber() int {
	return p.lineNumber
}

// Err returns any error that occurred while reading.
func (p *StreamingParser) Err() error {
	return p.err
}

// Parse streams every line of r into model, in order. observe, when not nil,
// is called with each record after the model has been updated.
//
// RETURNS:
//   - The number of lines consumed.
//   - A read error or the context error if ctx is done between lines.
func Parse(ctx context.Context, r io.Reader, model *types.Model, observe func(types.TransactionRecord)) (int, error) {
	parser := NewStreamingParser(r)

	for parser.Next() {
		if err := ctx.Err(); err != nil {
			return parser.LineNumber() - 1, err
		}

		record := parser.Record()
		Apply(record, model)

		if observe != nil {
			observe(record)
		}
	}

	if err := parser.Err(); err != nil {
		return parser.LineNumber(), err
	}

	return parser.LineNumber(), nil
}
