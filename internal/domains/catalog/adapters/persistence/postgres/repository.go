package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/emarket/emarket-api/internal/domains/catalog/domain"
	"github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&categoryRecord{}, &productRecord{})
	}
	return repo
}

// categoryRecord maps the category aggregate to a relational table.
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

// productRecord maps the product aggregate to a relational table.
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

// ListCategories returns active categories with their product counts.
func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	counts, err := r.productCounts(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		category := records[i].toDomain()
		category.ProductsCount = counts[category.ID]
		categories = append(categories, category)
	}
	return categories, nil
}

// GetCategory fetches a category by identifier.
func (r *Repository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	category := record.toDomain()
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	category.ProductsCount = count
	return category, nil
}

// SaveCategory inserts or updates a category.
func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := toCategoryRecord(category)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return r.GetCategory(ctx, record.ID)
}

// DeleteCategory removes a category by identifier.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&categoryRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// ListProducts returns one page of active products matching the filter, with
// categories batch-fetched.
func (r *Repository) ListProducts(ctx context.Context, filter ports.ProductFilter) (*ports.ProductPage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{}).Where("is_active = ?", true)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = ports.DefaultPerPage
	}
	var records []productRecord
	if err := query.
		Order(orderClause(filter.SortBy, filter.SortOrder)).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&records).Error; err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return &ports.ProductPage{Items: products, Page: page, PerPage: perPage, Total: total}, nil
}

// GetProduct fetches a product by identifier with its category resolved.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	product := record.toDomain()
	if err := r.attachCategories(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct inserts or updates a product, enforcing SKU uniqueness.
func (r *Repository) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	var conflicts int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("sku = ? AND id <> ?", product.SKU, product.ID).
		Count(&conflicts).Error; err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ports.ErrDuplicateSKU
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, record.ID)
}

// DeleteProduct removes a product by identifier.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *Repository) productCounts(ctx context.Context) (map[int64]int64, error) {
	type row struct {
		CategoryID int64
		Count      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&productRecord{}).
		Select("category_id, count(*) as count").
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[int64]int64, len(rows))
	for _, item := range rows {
		counts[item.CategoryID] = item.Count
	}
	return counts, nil
}

// attachCategories batch-fetches the categories referenced by the given
// products and attaches them.
func (r *Repository) attachCategories(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	seen := map[int64]bool{}
	for _, product := range products {
		if !seen[product.CategoryID] {
			seen[product.CategoryID] = true
			ids = append(ids, product.CategoryID)
		}
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Find(&records, "id IN ?", ids).Error; err != nil {
		return err
	}
	byID := make(map[int64]*domain.Category, len(records))
	for i := range records {
		byID[records[i].ID] = records[i].toDomain()
	}
	for _, product := range products {
		product.Category = byID[product.CategoryID]
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
}

func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func toCategoryRecord(category *domain.Category) categoryRecord {
	return categoryRecord{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Image:       category.Image,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		SalePrice:   product.SalePrice,
		SKU:         product.SKU,
		Stock:       product.Stock,
		Image:       product.Image,
		Images:      pq.StringArray(product.Images),
		IsFeatured:  product.IsFeatured,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		SKU:         r.SKU,
		Stock:       r.Stock,
		Image:       r.Image,
		Images:      []string(r.Images),
		IsFeatured:  r.IsFeatured,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
