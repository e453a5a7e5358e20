package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/pos-receipt-converter/internal/recordparser"
	"github.com/ginjaninja78/pos-receipt-converter/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 5, 9, 7, 0, 0, time.Local)

func baseHeader() *types.HeaderInfo {
	return &types.HeaderInfo{
		ReceiptNo:     "0001",
		Cashier:       "A",
		SumUSD:        "2.00 USD",
		SumKHR:        "8,200 KHR",
		DiscountCart:  "0%",
		GrandTotalUSD: "2.00 USD",
		GrandTotalKHR: "8,200 KHR",
		PayBy:         "CASH",
		ReceivedUSD:   "0.00 USD",
		ReceivedKHR:   "0 KHR",
		ChangeUSD:     "0.00 USD",
		ChangeKHR:     "0 KHR",
	}
}

func TestRender_EndToEnd(t *testing.T) {
	model := types.NewModel()
	recordparser.OnLine("0001\tA\tI1\tApple\t1.00\t2\t2.00\t0\t0\t2.00\t0\t0\t2.00\t0\tCASH\t\t2.00\t0\t0\t0\n", model)

	out, err := Render(model.Header, model.Items, fixedNow)
	require.NoError(t, err)

	expected := "\n" + DefaultLogo() + "\n\n" +
		"Riceball PNH\nST.360 AND ST.57, BKK\n069-823-736\n\n" +
		"Receipt No.    | \"0001\"\n|2024/03/05 09:07       | POS No. 001\nCashier        | \"A\"\n\n" +
		"\"I1\" \"Apple\" |\n    ||\"1.00\" x \"2\"| \"2.00    \"\n" + "\n" +
		Rule + "\n" +
		"\nTotal     USD       | \"2.00 USD\"\n| KHR | \"0 KHR\"|\n" +
		Rule + "\n" +
		"Paid by |\"CASH\" ||| \"\"\n" +
		"Received  USD | \"2.00 USD\"\n    | KHR | \"0 KHR\"|\n    Change    USD   | \"0.00 USD\"\n    | KHR | \"0 KHR\"|" +
		"\n\nThank you for your visit!\n"

	assert.Equal(t, expected, out)
	assert.NotContains(t, out, "Cart Discount")
}

func TestCompose_BlockOrder(t *testing.T) {
	header := baseHeader()
	header.DiscountCart = "10%"
	header.ReceivedUSD = "5.00 USD"

	doc, err := New(Options{}).Compose(header, []string{"row\n"}, fixedNow)
	require.NoError(t, err)

	var names []string
	for _, b := range doc.Blocks {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{
		BlockLogo, BlockStore, BlockMetadata, BlockItems, BlockRule,
		BlockDiscount, BlockTotals, BlockRule, BlockPayment, BlockChange, BlockFooter,
	}, names)

	discount, ok := doc.Block(BlockDiscount)
	require.True(t, ok)
	assert.Equal(t, "Sub Total USD | \"2.00 USD\"\n      Cart Discount                           \"10%\" |\n", discount.Text)
}

func TestCompose_DiscountSection(t *testing.T) {
	tests := []struct {
		cart     string
		included bool
	}{
		{cart: "10%", included: true},
		{cart: " 2.5 %", included: true},
		{cart: "0%", included: false},
		{cart: "0.00%", included: false},
		{cart: "%", included: false},
		{cart: "abc%", included: false},
	}

	for _, tt := range tests {
		t.Run(tt.cart, func(t *testing.T) {
			header := baseHeader()
			header.DiscountCart = tt.cart

			doc, err := New(Options{}).Compose(header, nil, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.included, doc.Has(BlockDiscount))
		})
	}
}

func TestCompose_ChangeSection(t *testing.T) {
	tests := []struct {
		name     string
		usd      string
		khr      string
		included bool
	}{
		{name: "usd received", usd: "5.00 USD", khr: "0 KHR", included: true},
		{name: "khr received", usd: "0.00 USD", khr: "20,000 KHR", included: true},
		{name: "large usd", usd: "1,000.00 USD", khr: "0 KHR", included: true},
		{name: "nothing received", usd: "0.00 USD", khr: "0 KHR", included: false},
		{name: "missing amounts", usd: "NaN USD", khr: "NaN KHR", included: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := baseHeader()
			header.ReceivedUSD = tt.usd
			header.ReceivedKHR = tt.khr

			doc, err := New(Options{}).Compose(header, nil, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.included, doc.Has(BlockChange))
		})
	}
}

func TestRender_NoDiscountKeepsSingleBlankLine(t *testing.T) {
	out, err := Render(baseHeader(), nil, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, Rule+"\n\nTotal     USD")

	header := baseHeader()
	header.DiscountCart = "5%"
	out, err = Render(header, nil, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, "\"5%\" |\n\nTotal     USD")
}

func TestRender_ItemsInOrder(t *testing.T) {
	items := []string{"first\n", "second\n", "third\n"}

	out, err := Render(baseHeader(), items, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, out, "first\nsecond\nthird\n\n"+Rule)
}

func TestRender_NoHeader(t *testing.T) {
	out, err := Render(nil, []string{"row\n"}, fixedNow)
	assert.ErrorIs(t, err, ErrNoHeader)
	assert.Empty(t, out)
}

func TestNew_CustomOptions(t *testing.T) {
	c := New(Options{StoreName: "Riceball TK", POSNumber: "007", Logo: "{image:abc}"})

	out, err := c.Render(baseHeader(), nil, fixedNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\n{image:abc}\n\nRiceball TK\nST.360 AND ST.57, BKK\n"))
	assert.Contains(t, out, "| POS No. 007\n")
	assert.True(t, strings.HasSuffix(out, "\n\nThank you for your visit!\n"))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2024/12/31 23:59", FormatTimestamp(time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local)))
	assert.Equal(t, "2025/01/02 00:05", FormatTimestamp(time.Date(2025, 1, 2, 0, 5, 0, 0, time.Local)))
}

func TestDefaultLogo(t *testing.T) {
	logo := DefaultLogo()
	assert.True(t, strings.HasPrefix(logo, "{image:"))
	assert.True(t, strings.HasSuffix(logo, "}"))
}
