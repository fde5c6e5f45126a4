package http

import (
	"time"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

// Order is the transport shape for order payloads.
type Order struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	UserID          int64     `json:"user_id"`
	Lines           []Line    `json:"lines"`
	Subtotal        float64   `json:"subtotal"`
	Tax             float64   `json:"tax"`
	Shipping        float64   `json:"shipping"`
	Total           float64   `json:"total"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	PaymentMethod   string    `json:"payment_method"`
	ShippingAddress string    `json:"shipping_address"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Line is the transport shape for one order line snapshot.
type Line struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	Price       float64      `json:"price"`
	Total       float64      `json:"total"`
	Product     *LineProduct `json:"product,omitempty"`
}

// LineProduct is the current catalog state of a line's product, when it still
// exists. The line's own fields remain the authoritative snapshot.
type LineProduct struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug,omitempty"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Stock     int      `json:"stock"`
	Image     string   `json:"image,omitempty"`
}

// OrderPage is the transport shape for paginated order listings.
type OrderPage struct {
	Items   []Order `json:"items"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Total   int64   `json:"total"`
}

func fromDomainOrder(order *domain.Order) Order {
	lines := make([]Line, 0, len(order.Lines))
	for i := range order.Lines {
		lines = append(lines, fromDomainLine(&order.Lines[i]))
	}
	return Order{
		ID:              order.ID,
		Number:          order.Number,
		UserID:          order.UserID,
		Lines:           lines,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Shipping:        order.Shipping,
		Total:           order.Total,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func fromDomainLine(line *domain.Line) Line {
	dto := Line{
		ID:          line.ID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		Price:       line.Price,
		Total:       line.Total,
	}
	if line.Product != nil {
		dto.Product = fromDomainLineProduct(line.Product)
	}
	return dto
}

func fromDomainLineProduct(product *catalogdomain.Product) *LineProduct {
	return &LineProduct{
		ID:        product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Stock:     product.Stock,
		Image:     product.Image,
	}
}

func fromDomainOrderPage(page *ports.OrderPage) OrderPage {
	items := make([]Order, 0, len(page.Items))
	for _, order := range page.Items {
		items = append(items, fromDomainOrder(order))
	}
	return OrderPage{Items: items, Page: page.Page, PerPage: page.PerPage, Total: page.Total}
}
