// =============================================================================
// POS Receipt Converter - Shared Types
// =============================================================================
//
// This package contains the record model shared by the parser, the layout
// composer, the journal and the converter. Keeping it here avoids import
// cycles between those packages.
//
// RECORD SCHEMA:
//   Each export line carries 20 tab-separated positional fields. The order is
//   fixed by the POS export and never changes:
//
//   | Idx | Field               | Idx | Field               |
//   |-----|---------------------|-----|---------------------|
//   |  0  | receipt number      | 10  | subtotal KHR        |
//   |  1  | cashier             | 11  | cart discount (%)   |
//   |  2  | item code           | 12  | grand total USD     |
//   |  3  | item name           | 13  | grand total KHR     |
//   |  4  | unit price          | 14  | paid by             |
//   |  5  | quantity            | 15  | delivery service    |
//   |  6  | line total          | 16  | cash received USD   |
//   |  7  | per-unit discount   | 17  | cash received KHR   |
//   |  8  | discounted total    | 18  | change USD          |
//   |  9  | subtotal USD        | 19  | change KHR          |
//
// =============================================================================

package types

// =============================================================================
// FIELD POSITIONS
// =============================================================================

// Positional indexes of the export schema.
const (
	FieldReceiptNo = iota
	FieldCashier
	FieldItemCode
	FieldItemName
	FieldUnitPrice
	FieldQty
	FieldTotal
	FieldDiscountUnit
	FieldTotalWithDiscount
	FieldSumUSD
	FieldSumKHR
	FieldDiscountCart
	FieldGrandTotalUSD
	FieldGrandTotalKHR
	FieldPayBy
	FieldDeliveryService
	FieldReceivedUSD
	FieldReceivedKHR
	FieldChangeUSD
	FieldChangeKHR

	// FieldCount is the number of fields in a well-formed record.
	FieldCount
)

// FieldNames are the human-readable names of each position, used in
// diagnostics and as journal column headers.
var FieldNames = [FieldCount]string{
	"Receipt No",
	"Cashier",
	"Item Code",
	"Item Name",
	"Unit Price",
	"Qty",
	"Total",
	"Discount Unit",
	"Total With Discount",
	"Sum USD",
	"Sum KHR",
	"Cart Discount",
	"Grand Total USD",
	"Grand Total KHR",
	"Paid By",
	"Delivery Service",
	"Received USD",
	"Received KHR",
	"Change USD",
	"Change KHR",
}

// =============================================================================
// TRANSACTION RECORD
// =============================================================================

// TransactionRecord is one decoded export line.
type TransactionRecord struct {
	// Fields holds the raw values as split from the line. It may be shorter
	// or longer than FieldCount; use Field to read positions.
	Fields []string

	// LineNumber is the 1-indexed position of the line in the input.
	LineNumber int
}

// Field returns the value at position i. Positions missing from a short
// line read as the empty string.
func (r TransactionRecord) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// WellFormed reports whether the record has every positional field.
func (r TransactionRecord) WellFormed() bool {
	return len(r.Fields) >= FieldCount
}

// =============================================================================
// HEADER INFO
// =============================================================================

// HeaderInfo is the receipt-level snapshot taken from the first record.
// Monetary values are already formatted for display.
type HeaderInfo struct {
	ReceiptNo       string
	Cashier         string
	SumUSD          string
	SumKHR          string
	DiscountCart    string
	GrandTotalUSD   string
	GrandTotalKHR   string
	PayBy           string
	DeliveryService string
	ReceivedUSD     string
	ReceivedKHR     string
	ChangeUSD       string
	ChangeKHR       string
}

// =============================================================================
// MODEL
// =============================================================================

// Model accumulates the state of one document generation run.
// Header is set once from the first record and never replaced; Items grows
// by exactly one rendered row per input line.
type Model struct {
	Header *HeaderInfo
	Items  []string
}

// NewModel returns an empty model for a single run.
func NewModel() *Model {
	return &Model{}
}

// HasHeader reports whether a header has been derived yet.
func (m *Model) HasHeader() bool {
	return m.Header != nil
}
