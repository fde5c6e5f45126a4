package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ptr(v float64) *float64 { return &v }

// Seed upserts the demo catalog plus a demo user and returns a fresh API token
// for that user. Safe to run repeatedly; rows are keyed by slug/sku/email.
func Seed(db *gorm.DB, sessionTTL time.Duration) (string, error) {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	categories := []categoryRecord{
		{Name: "Electronics", Slug: "electronics", Description: "Phones, laptops and audio", IsActive: true},
		{Name: "Fashion", Slug: "fashion", Description: "Clothing and footwear", IsActive: true},
		{Name: "Home & Garden", Slug: "home-garden", Description: "Appliances and household goods", IsActive: true},
	}
	for i := range categories {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "is_active", "updated_at"}),
		}).Create(&categories[i]).Error; err != nil {
			return "", err
		}
	}
	bySlug := map[string]int64{}
	for _, c := range categories {
		var rec categoryRecord
		if err := db.First(&rec, "slug = ?", c.Slug).Error; err != nil {
			return "", err
		}
		bySlug[c.Slug] = rec.ID
	}

	products := []productRecord{
		{
			CategoryID: bySlug["electronics"], Name: "Laptop Dell XPS 15", Slug: "laptop-dell-xps-15",
			Description: "High-performance laptop with Intel Core i7",
			Price:       1299.99, SalePrice: ptr(1199.99), SKU: "DELL-XPS-15", Stock: 50,
			IsFeatured: true, IsActive: true,
		},
		{
			CategoryID: bySlug["electronics"], Name: "iPhone 15 Pro", Slug: "iphone-15-pro",
			Description: "Latest iPhone with A17 Pro chip",
			Price:       999.99, SalePrice: ptr(949.99), SKU: "IPHONE-15-PRO", Stock: 100,
			IsFeatured: true, IsActive: true,
		},
		{
			CategoryID: bySlug["electronics"], Name: "Sony WH-1000XM5 Headphones", Slug: "sony-wh-1000xm5",
			Description: "Noise cancelling wireless headphones",
			Price:       399.99, SKU: "SONY-WH-1000XM5", Stock: 75,
			IsActive: true,
		},
		{
			CategoryID: bySlug["fashion"], Name: "Nike Air Max Sneakers", Slug: "nike-air-max",
			Description: "Comfortable and stylish sneakers",
			Price:       129.99, SalePrice: ptr(99.99), SKU: "NIKE-AIR-MAX", Stock: 200,
			IsFeatured: true, IsActive: true,
		},
		{
			CategoryID: bySlug["fashion"], Name: "Levi's Denim Jacket", Slug: "levis-denim-jacket",
			Description: "Classic denim jacket",
			Price:       89.99, SKU: "LEVIS-DENIM", Stock: 150,
			IsActive: true,
		},
		{
			CategoryID: bySlug["home-garden"], Name: "Robot Vacuum Cleaner", Slug: "robot-vacuum",
			Description: "Smart robot vacuum with auto-charging",
			Price:       299.99, SalePrice: ptr(249.99), SKU: "ROBOT-VAC-001", Stock: 60,
			IsFeatured: true, IsActive: true,
		},
	}
	for i := range products {
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category_id", "name", "slug", "description", "price", "sale_price",
				"stock", "is_featured", "is_active", "updated_at",
			}),
		}).Create(&products[i]).Error; err != nil {
			return "", err
		}
	}

	user := userRecord{Name: "Demo Shopper", Email: "demo@emarket.local"}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&user).Error; err != nil {
		return "", err
	}
	if user.ID == 0 {
		var rec userRecord
		if err := db.First(&rec, "email = ?", user.Email).Error; err != nil {
			return "", err
		}
		user.ID = rec.ID
	}

	token := uuid.NewString()
	expiry := time.Now().Add(sessionTTL)
	session := sessionRecord{Token: token, UserID: user.ID, ExpiresAt: &expiry}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}
	return token, nil
}
