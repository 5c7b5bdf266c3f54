// Package receipt converts orders into backend-specific print content:
// fixed-width text for plain backends, a structured op sequence for the
// embedded service, and a raster label for image-capable transports.
package receipt

// Item is a single ordered line.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StoreInfo is the store block printed at the top of a receipt.
type StoreInfo struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Order is the caller-supplied record a receipt is rendered from. It is
// immutable for the duration of a print call and not retained afterwards.
type Order struct {
	OrderID      string     `json:"orderId"`
	OrderNumber  string     `json:"orderNumber,omitempty"`
	OrderDate    string     `json:"orderDate"` // ISO-8601
	CustomerName string     `json:"customerName"`
	Items        []Item     `json:"items"`
	TotalAmount  float64    `json:"totalAmount"`
	StoreInfo    *StoreInfo `json:"storeInfo,omitempty"`
}

// Number returns the human-readable order number, falling back to the id.
func (o *Order) Number() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.OrderID
}
