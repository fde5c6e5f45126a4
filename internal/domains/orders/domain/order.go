package domain

import (
	"errors"
	"strings"
	"time"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// PaymentStatus tracks whether an order has been paid.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Pricing constants applied to every order.
const (
	TaxRate     = 0.10
	ShippingFee = 50.0
)

var (
	ErrNoLines              = errors.New("order must contain at least one line")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrEmptyShippingAddress = errors.New("shipping address must not be empty")
	ErrEmptyPaymentMethod   = errors.New("payment method must not be empty")
	ErrInvalidUser          = errors.New("user id must be greater than zero")
	ErrNotCancellable       = errors.New("only pending orders can be cancelled")
	ErrNotDeletable         = errors.New("only cancelled orders can be deleted")
	ErrTotalsMismatch       = errors.New("order totals do not add up from its lines")
)

// Line is a snapshot of one (product, quantity) pairing with its price frozen
// at order-creation time. Lines are immutable once the order is created.
type Line struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       float64
	Total       float64
	// Product is hydrated on reads when the catalog row still exists.
	Product *catalogdomain.Product
}

// NewLine freezes a product's effective price against a requested quantity.
func NewLine(product *catalogdomain.Product, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	price := product.EffectivePrice()
	return Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		Price:       price,
		Total:       price * float64(quantity),
	}, nil
}

// Order is the placement aggregate: a header plus its immutable lines.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	Lines           []Line
	Subtotal        float64
	Tax             float64
	Shipping        float64
	Total           float64
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder assembles a pending order from frozen lines and derives its totals:
// subtotal from the lines, then tax and the flat shipping fee on top.
func NewOrder(userID int64, number string, lines []Line, shippingAddress, paymentMethod, notes string) (*Order, error) {
	order := &Order{
		Number:          number,
		UserID:          userID,
		Lines:           lines,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		ShippingAddress: strings.TrimSpace(shippingAddress),
		Notes:           notes,
	}
	for _, line := range lines {
		order.Subtotal += line.Total
	}
	order.Tax = order.Subtotal * TaxRate
	order.Shipping = ShippingFee
	order.Total = order.Subtotal + order.Tax + order.Shipping
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if o.UserID <= 0 {
		return ErrInvalidUser
	}
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range o.Lines {
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	if o.ShippingAddress == "" {
		return ErrEmptyShippingAddress
	}
	if o.PaymentMethod == "" {
		return ErrEmptyPaymentMethod
	}
	var subtotal float64
	for _, line := range o.Lines {
		subtotal += line.Total
	}
	if o.Subtotal != subtotal || o.Total != o.Subtotal+o.Tax+o.Shipping {
		return ErrTotalsMismatch
	}
	return nil
}

// Cancel transitions the order to cancelled. Completed and already-cancelled
// orders are terminal for this transition.
func (o *Order) Cancel() error {
	if o.Status == StatusCompleted || o.Status == StatusCancelled {
		return ErrNotCancellable
	}
	o.Status = StatusCancelled
	return nil
}

// EnsureDeletable guards destruction: only cancelled orders may be removed,
// since their stock has already been restored.
func (o *Order) EnsureDeletable() error {
	if o.Status != StatusCancelled {
		return ErrNotDeletable
	}
	return nil
}
