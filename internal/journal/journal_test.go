package journal

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
	"github.com/xuri/excelize/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_WritesHeaderAndItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.xlsx")

	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.Add(types.TransactionRecord{
		Fields:     []string{"0001", "A", "I1", "Apple", "1.00", "2"},
		LineNumber: 1,
	}))
	require.NoError(t, w.Add(types.TransactionRecord{
		Fields:     []string{"0001", "A", "I2", "Pear"},
		LineNumber: 2,
	}))
	assert.Equal(t, 2, w.Rows())

	header := &types.HeaderInfo{ReceiptNo: "0001", Cashier: "A", GrandTotalUSD: "3.00 USD"}
	require.NoError(t, w.Close(header))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetReceipt, SheetItems}, f.GetSheetList())

	items, err := f.GetRows(SheetItems)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Line", items[0][0])
	assert.Equal(t, types.FieldNames[types.FieldItemName], items[0][1+types.FieldItemName])
	assert.Equal(t, "1", items[1][0])
	assert.Equal(t, "Apple", items[1][1+types.FieldItemName])
	assert.Equal(t, "Pear", items[2][1+types.FieldItemName])

	receipt, err := f.GetRows(SheetReceipt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Receipt No", "0001"}, receipt[1])
	assert.Equal(t, []string{"Total USD", "3.00 USD"}, receipt[6])
}

func TestJournal_NilHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close(nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	receipt, err := f.GetRows(SheetReceipt)
	require.NoError(t, err)
	assert.Empty(t, receipt)
}
