// =============================================================================
// POS Receipt Converter - Layout Composer
// =============================================================================
//
// This module assembles the printable receipt from the finalized model. The
// output is ReceiptLine markup: "|" splits columns, quoted text is emphasized
// and "{image:...}" embeds the logo.
//
// DOCUMENT STRUCTURE:
//   The receipt is an ordered list of named blocks, concatenated verbatim:
//
//   logo      <embedded logo asset>
//   store     store name, address, phone
//   metadata  receipt number, timestamp, POS number, cashier
//   items     one row per input line, in input order
//   rule      -----------------------------------------------
//   discount  sub total + cart discount        (only with a cart discount)
//   totals    grand total USD / KHR
//   rule      -----------------------------------------------
//   payment   paid by, delivery service
//   change    cash received + change           (only when cash was received)
//   footer    thank-you message
//
// The composer performs no I/O.
//
// =============================================================================

package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/pos-receipt-converter/internal/currency"
	"github.com/ginjaninja78/pos-receipt-converter/internal/types"
)

// ErrNoHeader is returned when the input produced no record to take the
// receipt header from.
var ErrNoHeader = errors.New("no receipt header: input contained no records")

// Rule separates the item, totals and payment sections.
const Rule = "-----------------------------------------------"

// TimestampLayout renders YYYY/MM/DD HH:MM on a 24-hour clock.
const TimestampLayout = "2006/01/02 15:04"

//go:embed assets/logo.txt
var defaultLogo string

// Block names, in document order.
const (
	BlockLogo     = "logo"
	BlockStore    = "store"
	BlockMetadata = "metadata"
	BlockItems    = "items"
	BlockRule     = "rule"
	BlockDiscount = "discount"
	BlockTotals   = "totals"
	BlockPayment  = "payment"
	BlockChange   = "change"
	BlockFooter   = "footer"
)

// =============================================================================
// COMPOSE OPTIONS
// =============================================================================

// Options holds the static parts of the receipt. None of them come from the
// export file.
type Options struct {
	// Logo is the markup for the logo block.
	// Default: the embedded logo asset
	Logo string

	// StoreName, StoreAddress and StorePhone make up the store identity block.
	StoreName    string
	StoreAddress string
	StorePhone   string

	// POSNumber identifies the till in the metadata block.
	// Default: "001"
	POSNumber string

	// Footer is the closing message.
	Footer string
}

// DefaultOptions returns the store identity printed on every receipt.
func DefaultOptions() Options {
	return Options{
		Logo:         DefaultLogo(),
		StoreName:    "Riceball PNH",
		StoreAddress: "ST.360 AND ST.57, BKK",
		StorePhone:   "069-823-736",
		POSNumber:    "001",
		Footer:       "Thank you for your visit!",
	}
}

// DefaultLogo returns the embedded logo markup.
func DefaultLogo() string {
	return strings.TrimRight(defaultLogo, "\r\n")
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Block is one named, independently rendered section of the receipt.
type Block struct {
	Name string
	Text string
}

// Document is the composed receipt.
type Document struct {
	Blocks []Block
}

// String concatenates the blocks in order.
func (d *Document) String() string {
	var b strings.Builder
	for _, block := range d.Blocks {
		b.WriteString(block.Text)
	}
	return b.String()
}

// Has reports whether a block with the given name is present.
func (d *Document) Has(name string) bool {
	_, ok := d.Block(name)
	return ok
}

// Block returns the first block with the given name.
func (d *Document) Block(name string) (Block, bool) {
	for _, block := range d.Blocks {
		if block.Name == name {
			return block, true
		}
	}
	return Block{}, false
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composer renders receipts with a fixed set of options.
type Composer struct {
	options Options
}

// New creates a Composer. Empty options fall back to the defaults.
func New(options Options) *Composer {
	defaults := DefaultOptions()
	if options.Logo == "" {
		options.Logo = defaults.Logo
	}
	if options.StoreName == "" {
		options.StoreName = defaults.StoreName
	}
	if options.StoreAddress == "" {
		options.StoreAddress = defaults.StoreAddress
	}
	if options.StorePhone == "" {
		options.StorePhone = defaults.StorePhone
	}
	if options.POSNumber == "" {
		options.POSNumber = defaults.POSNumber
	}
	if options.Footer == "" {
		options.Footer = defaults.Footer
	}
	return &Composer{options: options}
}

// Render returns the receipt text for header and items, stamped with now.
func Render(header *types.HeaderInfo, items []string, now time.Time) (string, error) {
	return New(DefaultOptions()).Render(header, items, now)
}

// Render returns the receipt text.
func (c *Composer) Render(header *types.HeaderInfo, items []string, now time.Time) (string, error) {
	doc, err := c.Compose(header, items, now)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// Compose builds the ordered block list.
//
// RETURNS:
//   - The document.
//   - ErrNoHeader if header is nil.
func (c *Composer) Compose(header *types.HeaderInfo, items []string, now time.Time) (*Document, error) {
	if header == nil {
		return nil, ErrNoHeader
	}

	blocks := []Block{
		{Name: BlockLogo, Text: "\n" + c.options.Logo + "\n\n"},
		{Name: BlockStore, Text: c.storeBlock()},
		{Name: BlockMetadata, Text: c.metadataBlock(header, now)},
		{Name: BlockItems, Text: strings.Join(items, "") + "\n"},
		{Name: BlockRule, Text: Rule + "\n"},
	}

	if HasCartDiscount(header) {
		blocks = append(blocks, Block{Name: BlockDiscount, Text: discountBlock(header)})
	}

	blocks = append(blocks,
		Block{Name: BlockTotals, Text: totalsBlock(header)},
		Block{Name: BlockRule, Text: Rule + "\n"},
		Block{Name: BlockPayment, Text: fmt.Sprintf("Paid by |\"%s\" ||| \"%s\"\n", header.PayBy, header.DeliveryService)},
	)

	if HasCashReceived(header) {
		blocks = append(blocks, Block{Name: BlockChange, Text: changeBlock(header)})
	}

	blocks = append(blocks, Block{Name: BlockFooter, Text: "\n\n" + c.options.Footer + "\n"})

	return &Document{Blocks: blocks}, nil
}

// =============================================================================
// SECTION RULES
// =============================================================================

// HasCartDiscount reports whether the cart discount, with its "%" suffix
// removed, is a finite non-zero number.
func HasCartDiscount(header *types.HeaderInfo) bool {
	raw := strings.TrimSpace(strings.Replace(header.DiscountCart, "%", "", 1))
	return currency.IsNonZero(currency.ParseNumber(raw))
}

// HasCashReceived reports whether either received amount is a finite
// non-zero number.
func HasCashReceived(header *types.HeaderInfo) bool {
	return receivedAmount(header.ReceivedUSD, "USD") || receivedAmount(header.ReceivedKHR, "KHR")
}

// receivedAmount strips the currency marker and grouping commas from a
// formatted amount and tests it.
func receivedAmount(formatted, marker string) bool {
	raw := strings.TrimSpace(strings.Replace(formatted, marker, "", 1))
	raw = strings.ReplaceAll(raw, ",", "")
	return currency.IsNonZero(currency.ParseNumber(raw))
}

// FormatTimestamp renders now as local YYYY/MM/DD HH:MM.
func FormatTimestamp(now time.Time) string {
	return now.Local().Format(TimestampLayout)
}

// =============================================================================
// BLOCK RENDERERS
// =============================================================================

func (c *Composer) storeBlock() string {
	return c.options.StoreName + "\n" +
		c.options.StoreAddress + "\n" +
		c.options.StorePhone + "\n\n"
}

func (c *Composer) metadataBlock(header *types.HeaderInfo, now time.Time) string {
	return fmt.Sprintf("Receipt No.    | \"%s\"\n|%s       | POS No. %s\nCashier        | \"%s\"\n\n",
		header.ReceiptNo, FormatTimestamp(now), c.options.POSNumber, header.Cashier)
}

func discountBlock(header *types.HeaderInfo) string {
	return fmt.Sprintf("Sub Total USD | \"%s\"\n      Cart Discount                           \"%s\" |\n",
		header.SumUSD, header.DiscountCart)
}

func totalsBlock(header *types.HeaderInfo) string {
	return fmt.Sprintf("\nTotal     USD       | \"%s\"\n| KHR | \"%s\"|\n",
		header.GrandTotalUSD, header.GrandTotalKHR)
}

func changeBlock(header *types.HeaderInfo) string {
	return fmt.Sprintf("Received  USD | \"%s\"\n    | KHR | \"%s\"|\n    Change    USD   | \"%s\"\n    | KHR | \"%s\"|",
		header.ReceivedUSD, header.ReceivedKHR, header.ChangeUSD, header.ChangeKHR)
}
