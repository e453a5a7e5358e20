// =============================================================================
// POS Receipt Converter - XLSX Journal
// =============================================================================
//
// This module keeps a spreadsheet copy of each converted export for the back
// office. Records are streamed into the workbook as they are parsed, so the
// journal never holds the whole input in memory.
//
// WORKBOOK STRUCTURE:
//   | Sheet   | Contents                                            |
//   |---------|-----------------------------------------------------|
//   | Receipt | header snapshot as Field / Value rows               |
//   | Items   | one row per input line: Line + the 20 raw fields    |
//
// =============================================================================

package journal

import (
	"fmt"

	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetReceipt = "Receipt"
	SheetItems   = "Items"
)

// Writer streams records into an XLSX workbook.
type Writer struct {
	path   string
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// Create starts a new journal that will be saved to path on Close.
func Create(path string) (*Writer, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetReceipt); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name receipt sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetItems); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create items sheet: %w", err)
	}

	stream, err := f.NewStreamWriter(SheetItems)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open items stream: %w", err)
	}

	w := &Writer{path: path, file: f, stream: stream, row: 1}

	headings := make([]interface{}, 0, types.FieldCount+1)
	headings = append(headings, "Line")
	for _, name := range types.FieldNames {
		headings = append(headings, name)
	}
	if err := stream.SetRow("A1", headings); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write item headings: %w", err)
	}

	return w, nil
}

// Add appends one record to the Items sheet.
func (w *Writer) Add(record types.TransactionRecord) error {
	w.row++

	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}

	values := make([]interface{}, 0, types.FieldCount+1)
	values = append(values, record.LineNumber)
	for i := 0; i < types.FieldCount; i++ {
		values = append(values, record.Field(i))
	}

	if err := w.stream.SetRow(cell, values); err != nil {
		return fmt.Errorf("failed to write journal row %d: %w", w.row, err)
	}
	return nil
}

// Rows returns the number of records added so far.
func (w *Writer) Rows() int {
	return w.row - 1
}

// Close writes the header sheet and saves the workbook. A nil header leaves
// the Receipt sheet empty.
func (w *Writer) Close(header *types.HeaderInfo) error {
	defer w.file.Close()

	if err := w.stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal items: %w", err)
	}

	if header != nil {
		for i, kv := range headerRows(header) {
			row := i + 1
			if err := w.file.SetCellValue(SheetReceipt, fmt.Sprintf("A%d", row), kv[0]); err != nil {
				return err
			}
			if err := w.file.SetCellValue(SheetReceipt, fmt.Sprintf("B%d", row), kv[1]); err != nil {
				return err
			}
		}
	}

	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save journal %s: %w", w.path, err)
	}
	return nil
}

// Abort discards the workbook without saving.
func (w *Writer) Abort() {
	w.file.Close()
}

func headerRows(h *types.HeaderInfo) [][2]string {
	return [][2]string{
		{"Field", "Value"},
		{"Receipt No", h.ReceiptNo},
		{"Cashier", h.Cashier},
		{"Sub Total USD", h.SumUSD},
		{"Sub Total KHR", h.SumKHR},
		{"Cart Discount", h.DiscountCart},
		{"Total USD", h.GrandTotalUSD},
		{"Total KHR", h.GrandTotalKHR},
		{"Paid By", h.PayBy},
		{"Delivery Service", h.DeliveryService},
		{"Received USD", h.ReceivedUSD},
		{"Received KHR", h.ReceivedKHR},
		{"Change USD", h.ChangeUSD},
		{"Change KHR", h.ChangeKHR},
	}
}
