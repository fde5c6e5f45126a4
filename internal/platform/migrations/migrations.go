package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name;size:255"`
	Slug        string    `gorm:"column:slug;uniqueIndex;size:255"`
	Description string    `gorm:"column:description"`
	Image       string    `gorm:"column:image"`
	IsActive    bool      `gorm:"column:is_active;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64          `gorm:"primaryKey;column:id"`
	CategoryID  int64          `gorm:"column:category_id;index"`
	Name        string         `gorm:"column:name;size:255;index"`
	Slug        string         `gorm:"column:slug;size:255;index"`
	Description string         `gorm:"column:description"`
	Price       float64        `gorm:"column:price"`
	SalePrice   *float64       `gorm:"column:sale_price"`
	SKU         string         `gorm:"column:sku;uniqueIndex;size:64"`
	Stock       int            `gorm:"column:stock"`
	Image       string         `gorm:"column:image"`
	Images      pq.StringArray `gorm:"column:images;type:text[]"`
	IsFeatured  bool           `gorm:"column:is_featured;index"`
	IsActive    bool           `gorm:"column:is_active;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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

// Order line schema mirrors the orders Postgres adapter.
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

// User schema holds the resolved caller identities.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;size:255"`
	Email     string    `gorm:"column:email;uniqueIndex;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
