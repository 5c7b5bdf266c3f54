package receipt

import (
	"fmt"
	"strings"
	"time"
)

// Width is the character width of a 58mm thermal line. Every layout rule in
// this package right-aligns against this column.
const Width = 32

// maxItemName caps the item name so the qty prefix and price always fit.
const maxItemName = 20

const currencyGlyph = "$"

// Divider returns a full-width dashed line.
func Divider() string {
	return strings.Repeat("-", Width)
}

// Money renders an amount with the fixed currency glyph and two decimals.
func Money(amount float64) string {
	return fmt.Sprintf("%s%.2f", currencyGlyph, amount)
}

// ItemLine renders one item as "{qty}x {name}" with the price right-aligned
// to column 32. Names longer than 20 characters are truncated.
func ItemLine(it Item) string {
	name := it.Name
	if len(name) > maxItemName {
		name = name[:maxItemName]
	}
	left := fmt.Sprintf("%dx %s", it.Quantity, name)
	price := Money(float64(it.Quantity) * it.Price)

	pad := Width - len(left) - len(price)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + price
}

// TotalLine renders the total with the amount right-aligned to column 32.
func TotalLine(total float64) string {
	left := "TOTAL"
	price := Money(total)
	pad := Width - len(left) - len(price)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + price
}

// center pads a string to the middle of the line. Strings at or over the
// width pass through untouched.
func center(s string) string {
	if len(s) >= Width {
		return s
	}
	pad := (Width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// DisplayDate formats an ISO-8601 order date for the receipt. Unparseable
// dates print as-is rather than blocking the job.
func DisplayDate(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return iso
}

// Text renders the full fixed-width receipt for plain text backends. The
// caller-resolved store block wins over the one embedded in the order.
func Text(o *Order, store *StoreInfo) string {
	if store == nil {
		store = o.StoreInfo
	}

	var b strings.Builder

	if store != nil && store.Name != "" {
		b.WriteString(center(store.Name) + "\n")
		if store.Address != "" {
			b.WriteString(center(store.Address) + "\n")
		}
		if store.Phone != "" {
			b.WriteString(center(store.Phone) + "\n")
		}
		b.WriteString(Divider() + "\n")
	}

	b.WriteString(fmt.Sprintf("Order: %s\n", o.Number()))
	b.WriteString(fmt.Sprintf("Date:  %s\n", DisplayDate(o.OrderDate)))
	if o.CustomerName != "" {
		b.WriteString(fmt.Sprintf("Cust:  %s\n", o.CustomerName))
	}
	b.WriteString(Divider() + "\n")

	for _, it := range o.Items {
		b.WriteString(ItemLine(it) + "\n")
	}

	b.WriteString(Divider() + "\n")
	b.WriteString(TotalLine(o.TotalAmount) + "\n")
	b.WriteString("\n")
	b.WriteString(center("Thank you!") + "\n")

	return b.String()
}

// TestText renders the short block used for test prints.
func TestText() string {
	var b strings.Builder
	b.WriteString(center("PRINTER TEST") + "\n")
	b.WriteString(Divider() + "\n")
	b.WriteString("If you can read this, the\n")
	b.WriteString("printer is working.\n")
	b.WriteString(Divider() + "\n")
	return b.String()
}

// QRPayload is the scannable order reference encoded on the receipt.
func QRPayload(o *Order) string {
	return "laundropos://order/" + o.OrderID
}
