package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/emarket/emarket-api/internal/domains/catalog/application/types"
	catalogdomain "github.com/emarket/emarket-api/internal/domains/catalog/domain"
	catalogports "github.com/emarket/emarket-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/emarket/emarket-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListCategories(ctx context.Context) ([]*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("categories.count", len(result)))
	return result, nil
}

func (s *Service) CreateCategory(ctx context.Context, input types.CategoryInput) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory",
		trace.WithAttributes(attribute.String("category.name", input.Name)))
	defer span.End()

	result, err := s.inner.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("category.name", input.Name))
	}
	s.metrics.recordWrite(ctx, "category_created")
	s.logInfo(ctx, "category created", slog.Int64("category.id", result.ID), slog.String("category.slug", result.Slug))
	return result, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	result, err := s.inner.GetCategory(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load category", slog.Int64("category.id", id))
	}
	return result, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, input types.CategoryUpdate) (*catalogdomain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	result, err := s.inner.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update category", slog.Int64("category.id", id))
	}
	s.metrics.recordWrite(ctx, "category_updated")
	s.logInfo(ctx, "category updated", slog.Int64("category.id", result.ID))
	return result, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.Int64("category.id", id))
	}
	s.metrics.recordWrite(ctx, "category_deleted")
	s.logInfo(ctx, "category deleted", slog.Int64("category.id", id))
	return nil
}

func (s *Service) ListProducts(ctx context.Context, filter catalogports.ProductFilter) (*catalogports.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts",
		trace.WithAttributes(attribute.Int("page", filter.Page), attribute.String("search", filter.Search)))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(result.Items)))
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("product.sku", input.SKU)))
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.sku", input.SKU))
	}
	s.metrics.recordWrite(ctx, "product_created")
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID), slog.String("product.sku", result.SKU))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, input types.ProductUpdate) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.metrics.recordWrite(ctx, "product_updated")
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordWrite(ctx, "product_deleted")
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	writes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	writes, _ := m.Int64Counter("catalog.service.writes", metric.WithDescription("Number of catalog write operations"))
	return serviceMetrics{writes: writes}
}

func (m serviceMetrics) recordWrite(ctx context.Context, operation string) {
	if m.writes != nil {
		m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

var _ catalogports.Service = (*Service)(nil)
