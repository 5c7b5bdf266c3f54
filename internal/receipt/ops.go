package receipt

// Alignment codes understood by the embedded print service.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font sizes the embedded service accepts. Anything else is coerced to 24
// by the hardware layer.
const (
	FontSmall  = 16
	FontNormal = 24
	FontLarge  = 32
	FontHuge   = 48
)

// QR error-correction levels for the embedded service.
const (
	QRLevelL = 0
	QRLevelM = 1
	QRLevelQ = 2
	QRLevelH = 3
)

// Barcode symbologies the embedded service accepts, standard ESC/POS
// numbering.
const (
	BarcodeUPCA    = 0
	BarcodeUPCE    = 1
	BarcodeEAN13   = 2
	BarcodeEAN8    = 3
	BarcodeCode39  = 4
	BarcodeITF     = 5
	BarcodeCodabar = 6
	BarcodeCode93  = 7
	BarcodeCode128 = 8
)

// OpKind discriminates buffered operations for the embedded backend.
type OpKind int

const (
	OpText OpKind = iota
	OpAlign
	OpFeed
	OpQR
)

// Op is one buffered operation in the embedded service's print job. Ops
// accumulate on the hardware side and print only on commit.
type Op struct {
	Kind     OpKind
	Text     string
	FontSize int
	Align    int
	Lines    int
	Payload  string
	ECLevel  int
	ModSize  int
}

func textOp(s string, size int) Op { return Op{Kind: OpText, Text: s, FontSize: size} }
func alignOp(a int) Op             { return Op{Kind: OpAlign, Align: a} }
func feedOp(n int) Op              { return Op{Kind: OpFeed, Lines: n} }

// EmbeddedBody builds the header and body text ops for the rich backend.
// The driver verifies printer status after buffering these, before the tail.
func EmbeddedBody(o *Order, store *StoreInfo) []Op {
	if store == nil {
		store = o.StoreInfo
	}

	ops := []Op{}

	if store != nil && store.Name != "" {
		ops = append(ops, alignOp(AlignCenter))
		ops = append(ops, textOp(store.Name+"\n", FontLarge))
		if store.Address != "" {
			ops = append(ops, textOp(store.Address+"\n", FontSmall))
		}
		if store.Phone != "" {
			ops = append(ops, textOp(store.Phone+"\n", FontSmall))
		}
		ops = append(ops, alignOp(AlignLeft))
		ops = append(ops, textOp(Divider()+"\n", FontNormal))
	}

	ops = append(ops, textOp("Order: "+o.Number()+"\n", FontNormal))
	ops = append(ops, textOp("Date:  "+DisplayDate(o.OrderDate)+"\n", FontNormal))
	if o.CustomerName != "" {
		ops = append(ops, textOp("Cust:  "+o.CustomerName+"\n", FontNormal))
	}
	ops = append(ops, textOp(Divider()+"\n", FontNormal))

	for _, it := range o.Items {
		ops = append(ops, textOp(ItemLine(it)+"\n", FontNormal))
	}

	ops = append(ops, textOp(Divider()+"\n", FontNormal))
	ops = append(ops, textOp(TotalLine(o.TotalAmount)+"\n", FontLarge))

	return ops
}

// EmbeddedTail builds the trailing ops: spacing, centered QR, alignment
// reset, and the feed/dashed-line/feed run that gives the cashier room to
// tear the paper (the hardware has no cutter).
func EmbeddedTail(o *Order) []Op {
	return []Op{
		feedOp(1),
		alignOp(AlignCenter),
		{Kind: OpQR, Payload: QRPayload(o), ECLevel: QRLevelM, ModSize: 6},
		alignOp(AlignLeft),
		feedOp(2),
		textOp(Divider()+"\n", FontNormal),
		feedOp(3),
	}
}

// EmbeddedTest builds the short op block for a test print.
func EmbeddedTest() []Op {
	return []Op{
		alignOp(AlignCenter),
		textOp("PRINTER TEST\n", FontLarge),
		alignOp(AlignLeft),
		textOp(Divider()+"\n", FontNormal),
		textOp("Embedded service OK\n", FontNormal),
		feedOp(3),
	}
}
