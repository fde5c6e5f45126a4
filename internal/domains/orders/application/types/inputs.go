// Package types holds the already-validated inputs the orders service
// accepts. The HTTP layer binds raw payloads into these shapes before they
// reach the placement engine; the engine never sees untyped input.
package types

// LineRequest asks for a quantity of one product. It is never persisted as-is;
// placement freezes it into an order line snapshot.
type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderInput is a complete placement request for an already-resolved
// caller.
type PlaceOrderInput struct {
	UserID          int64         `json:"user_id"`
	Lines           []LineRequest `json:"lines"`
	ShippingAddress string        `json:"shipping_address"`
	PaymentMethod   string        `json:"payment_method"`
	Notes           string        `json:"notes"`
}
