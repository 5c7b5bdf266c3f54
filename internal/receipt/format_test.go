package receipt

import (
	"strings"
	"testing"
)

var testOrder = &Order{
	OrderID:      "abc123",
	OrderNumber:  "ORD-0007",
	OrderDate:    "2025-11-02T10:30:00Z",
	CustomerName: "Jane Doe",
	Items: []Item{
		{Name: "Wash & Fold", Quantity: 2, Price: 15.00},
	},
	TotalAmount: 30.00,
}

func TestItemLineWidth(t *testing.T) {
	items := []Item{
		{Name: "Wash & Fold", Quantity: 2, Price: 15.00},
		{Name: "Dry Clean", Quantity: 1, Price: 8.50},
	}

	for _, it := range items {
		line := ItemLine(it)
		if len(line) != Width {
			t.Errorf("ItemLine(%q) length = %d, want %d: %q", it.Name, len(line), Width, line)
		}
	}
}

func TestItemLinePriceRightAligned(t *testing.T) {
	line := ItemLine(Item{Name: "Wash & Fold", Quantity: 2, Price: 15.00})

	if !strings.HasPrefix(line, "2x Wash & Fold") {
		t.Errorf("Unexpected left side: %q", line)
	}
	if !strings.HasSuffix(line, "$30.00") {
		t.Errorf("Price not right-aligned: %q", line)
	}
}

func TestItemLineTruncatesLongNames(t *testing.T) {
	line := ItemLine(Item{Name: "Extremely Long Service Name That Overflows", Quantity: 1, Price: 5.00})
	if len(line) != Width {
		t.Errorf("Truncated line length = %d, want %d: %q", len(line), Width, line)
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := map[float64]string{
		30.0:  "$30.00",
		8.5:   "$8.50",
		0:     "$0.00",
		12.25: "$12.25",
	}
	for amount, want := range cases {
		if got := Money(amount); got != want {
			t.Errorf("Money(%v) = %q, want %q", amount, got, want)
		}
	}
}

func TestTextContainsOrderFields(t *testing.T) {
	text := Text(testOrder, &StoreInfo{Name: "LaundroPOS", Phone: "555-0100"})

	for _, want := range []string{"ORD-0007", "Jane Doe", "30.00", "LaundroPOS"} {
		if !strings.Contains(text, want) {
			t.Errorf("Receipt text missing %q:\n%s", want, text)
		}
	}
}

func TestTextEveryItemLineFullWidth(t *testing.T) {
	o := &Order{
		OrderID:   "x1",
		OrderDate: "2025-11-02",
		Items: []Item{
			{Name: "Wash & Fold", Quantity: 2, Price: 15.00},
			{Name: "Ironing", Quantity: 3, Price: 4.00},
		},
		TotalAmount: 42.00,
	}

	itemCount := 0
	for _, line := range strings.Split(Text(o, nil), "\n") {
		if strings.Contains(line, "x Wash") || strings.Contains(line, "x Ironing") {
			itemCount++
			if len(line) != Width {
				t.Errorf("Item line not %d chars: %q (%d)", Width, line, len(line))
			}
		}
	}
	if itemCount != 2 {
		t.Errorf("Expected 2 item lines, found %d", itemCount)
	}
}

func TestEmbeddedOpsOrdering(t *testing.T) {
	body := EmbeddedBody(testOrder, nil)
	if len(body) == 0 {
		t.Fatal("Expected body ops")
	}
	for _, op := range body {
		if op.Kind == OpQR {
			t.Error("QR must not appear in the body ops")
		}
	}

	tail := EmbeddedTail(testOrder)
	qrIndex := -1
	for i, op := range tail {
		if op.Kind == OpQR {
			qrIndex = i
		}
	}
	if qrIndex < 0 {
		t.Fatal("Expected a QR op in the tail")
	}
	// Center alignment must precede the QR, and a reset must follow it.
	if tail[qrIndex-1].Kind != OpAlign || tail[qrIndex-1].Align != AlignCenter {
		t.Error("QR op must be preceded by center alignment")
	}
	if tail[qrIndex+1].Kind != OpAlign || tail[qrIndex+1].Align != AlignLeft {
		t.Error("QR op must be followed by alignment reset")
	}
	last := tail[len(tail)-1]
	if last.Kind != OpFeed {
		t.Error("Tail must end with a feed for manual tear")
	}
}

func TestVendorLines(t *testing.T) {
	lines := VendorLines(testOrder, &StoreInfo{Name: "LaundroPOS", Address: "1 Main St"})

	if !lines[0].Bold || !lines[0].Wide || lines[0].Text != "LaundroPOS" {
		t.Errorf("First line should be the bold wide store name, got %+v", lines[0])
	}

	var sawItem, sawTotal bool
	for _, l := range lines {
		if strings.HasSuffix(l.Text, "$30.00") && strings.HasPrefix(l.Text, "2x") {
			sawItem = true
			if len(l.Text) != Width {
				t.Errorf("Vendor item line not %d chars: %q", Width, l.Text)
			}
		}
		if strings.HasPrefix(l.Text, "TOTAL") && l.Bold {
			sawTotal = true
		}
	}
	if !sawItem {
		t.Error("Vendor lines missing item line")
	}
	if !sawTotal {
		t.Error("Vendor lines missing bold total line")
	}
}

func TestQRPayload(t *testing.T) {
	if got := QRPayload(testOrder); got != "laundropos://order/abc123" {
		t.Errorf("Unexpected QR payload: %q", got)
	}
}

func TestRenderLabel(t *testing.T) {
	img, err := RenderLabel(testOrder, &StoreInfo{Name: "LaundroPOS"}, 384)
	if err != nil {
		t.Fatalf("RenderLabel failed: %v", err)
	}
	if img.Bounds().Dx() != 384 {
		t.Errorf("Label width = %d, want 384", img.Bounds().Dx())
	}
}
