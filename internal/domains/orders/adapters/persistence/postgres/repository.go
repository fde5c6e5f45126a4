package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Placement writes run
// through Within, which wraps them in one database transaction; the stock
// check-and-adjust sequence relies on SELECT ... FOR UPDATE row locks.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderLineRecord{})
	}
	return repo
}

// orderRecord maps the order header to a relational table.
type orderRecord struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	Number          string    `gorm:"column:number;uniqueIndex;size:64"`
	UserID          int64     `gorm:"column:user_id;index:idx_orders_user_created"`
	Subtotal        float64   `gorm:"column:subtotal"`
	Tax             float64   `gorm:"column:tax"`
	Shipping        float64   `gorm:"column:shipping"`
	Total           float64   `gorm:"column:total"`
	Status          string    `gorm:"column:status;type:varchar(32);index"`
	PaymentStatus   string    `gorm:"column:payment_status;type:varchar(32)"`
	PaymentMethod   string    `gorm:"column:payment_method"`
	ShippingAddress string    `gorm:"column:shipping_address"`
	Notes           string    `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at;index:idx_orders_user_created"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderLineRecord maps one immutable line snapshot.
type orderLineRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	OrderID     int64     `gorm:"column:order_id;index"`
	ProductID   int64     `gorm:"column:product_id;index"`
	ProductName string    `gorm:"column:product_name;size:255"`
	Quantity    int       `gorm:"column:quantity"`
	Price       float64   `gorm:"column:price"`
	Total       float64   `gorm:"column:total"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// productRecord is the slice of the catalog's products table this context
// touches: price fields for snapshots, stock for reservation.
type productRecord struct {
	ID        int64    `gorm:"primaryKey;column:id"`
	Name      string   `gorm:"column:name"`
	Price     float64  `gorm:"column:price"`
	SalePrice *float64 `gorm:"column:sale_price"`
	Stock     int      `gorm:"column:stock"`
}

func (productRecord) TableName() string { return "products" }

// Within runs fn inside one database transaction. A lock-wait deadline
// surfacing from the driver is reported as ErrUnavailable.
func (r *Repository) Within(ctx context.Context, fn func(tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&txScope{db: gtx})
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}
	return err
}

// GetByUser fetches one of the user's orders with lines and products hydrated.
func (r *Repository) GetByUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).
		First(&record, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	orders := []*domain.Order{record.toDomain()}
	if err := hydrateOrders(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders[0], nil
}

// ListByUser returns one page of the user's orders, newest first, hydrated.
func (r *Repository) ListByUser(ctx context.Context, userID int64, page int) (*ports.OrderPage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(ports.PageSize).
		Offset((page - 1) * ports.PageSize).
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	if err := hydrateOrders(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return &ports.OrderPage{Items: orders, Page: page, PerPage: ports.PageSize, Total: total}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// txScope implements the unit-of-work write surface on a transactional handle.
type txScope struct {
	db *gorm.DB
}

var _ ports.Tx = (*txScope)(nil)

func (t *txScope) ProductForUpdate(ctx context.Context, productID int64) (*catalogdomain.Product, error) {
	var record productRecord
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return &catalogdomain.Product{
		ID:        record.ID,
		Name:      record.Name,
		Price:     record.Price,
		SalePrice: record.SalePrice,
		Stock:     record.Stock,
	}, nil
}

func (t *txScope) AdjustStock(ctx context.Context, productID int64, delta int) error {
	result := t.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (t *txScope) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toOrderRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	order.CreatedAt = record.CreatedAt
	order.UpdatedAt = record.UpdatedAt
	for i := range order.Lines {
		line := toLineRecord(record.ID, &order.Lines[i])
		if err := t.db.WithContext(ctx).Create(&line).Error; err != nil {
			return err
		}
		order.Lines[i].ID = line.ID
	}
	return nil
}

func (t *txScope) OrderForUpdate(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	var record orderRecord
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	order := record.toDomain()
	var lines []orderLineRecord
	if err := t.db.WithContext(ctx).Find(&lines, "order_id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	for i := range lines {
		order.Lines = append(order.Lines, lines[i].toDomain())
	}
	return order, nil
}

func (t *txScope) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) error {
	result := t.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"status": string(status), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (t *txScope) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := t.db.WithContext(ctx).Delete(&orderLineRecord{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	result := t.db.WithContext(ctx).Delete(&orderRecord{}, orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

// hydrateOrders attaches lines to the given orders and batch-fetches the
// products those lines still reference.
func hydrateOrders(ctx context.Context, db *gorm.DB, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	orderIDs := make([]int64, 0, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
		byID[order.ID] = order
	}
	var lines []orderLineRecord
	if err := db.WithContext(ctx).
		Order("id").
		Find(&lines, "order_id IN ?", orderIDs).Error; err != nil {
		return err
	}
	productIDs := make([]int64, 0, len(lines))
	seen := map[int64]bool{}
	for i := range lines {
		if order, ok := byID[lines[i].OrderID]; ok {
			order.Lines = append(order.Lines, lines[i].toDomain())
		}
		if !seen[lines[i].ProductID] {
			seen[lines[i].ProductID] = true
			productIDs = append(productIDs, lines[i].ProductID)
		}
	}
	if len(productIDs) == 0 {
		return nil
	}
	var products []productRecord
	if err := db.WithContext(ctx).Find(&products, "id IN ?", productIDs).Error; err != nil {
		return err
	}
	productByID := make(map[int64]*catalogdomain.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &catalogdomain.Product{
			ID:        products[i].ID,
			Name:      products[i].Name,
			Price:     products[i].Price,
			SalePrice: products[i].SalePrice,
			Stock:     products[i].Stock,
		}
	}
	for _, order := range orders {
		for i := range order.Lines {
			order.Lines[i].Product = productByID[order.Lines[i].ProductID]
		}
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		Number:          order.Number,
		UserID:          order.UserID,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Shipping:        order.Shipping,
		Total:           order.Total,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:              r.ID,
		Number:          r.Number,
		UserID:          r.UserID,
		Subtotal:        r.Subtotal,
		Tax:             r.Tax,
		Shipping:        r.Shipping,
		Total:           r.Total,
		Status:          domain.Status(r.Status),
		PaymentStatus:   domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod:   r.PaymentMethod,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toLineRecord(orderID int64, line *domain.Line) orderLineRecord {
	return orderLineRecord{
		ID:          line.ID,
		OrderID:     orderID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Quantity:    line.Quantity,
		Price:       line.Price,
		Total:       line.Total,
	}
}

func (r orderLineRecord) toDomain() domain.Line {
	return domain.Line{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Total:       r.Total,
	}
}
