package receipt

import "fmt"

// Line is one labelled line for the vendor SDK backend, which only knows
// text, emphasis, and a wide variant.
type Line struct {
	Text string
	Bold bool
	Wide bool
}

// VendorLines renders the fixed labelled-line receipt the handheld firmware
// expects: store block, divider, order metadata, customer, items right-
// aligned to the 32-column width, total, footer.
func VendorLines(o *Order, store *StoreInfo) []Line {
	if store == nil {
		store = o.StoreInfo
	}

	var lines []Line

	if store != nil && store.Name != "" {
		lines = append(lines, Line{Text: store.Name, Bold: true, Wide: true})
		if store.Address != "" {
			lines = append(lines, Line{Text: store.Address})
		}
		if store.Phone != "" {
			lines = append(lines, Line{Text: "Tel: " + store.Phone})
		}
	}

	lines = append(lines,
		Line{Text: Divider()},
		Line{Text: "RECEIPT", Bold: true},
		Line{Text: fmt.Sprintf("Order: %s", o.Number())},
		Line{Text: fmt.Sprintf("Date:  %s", DisplayDate(o.OrderDate))},
	)

	if o.CustomerName != "" {
		lines = append(lines, Line{Text: "Customer: " + o.CustomerName})
	}

	lines = append(lines, Line{Text: Divider()})
	for _, it := range o.Items {
		lines = append(lines, Line{Text: ItemLine(it)})
	}
	lines = append(lines,
		Line{Text: Divider()},
		Line{Text: TotalLine(o.TotalAmount), Bold: true},
		Line{Text: ""},
		Line{Text: center("Thank you!")},
	)

	return lines
}
