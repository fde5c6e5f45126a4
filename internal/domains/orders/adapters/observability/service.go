package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	ordersdomain "github.com/emarket/emarket-api/internal/domains/orders/domain"
	ordersports "github.com/emarket/emarket-api/internal/domains/orders/ports"
)

const tracerName = "github.com/emarket/emarket-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("order.user_id", input.UserID), attribute.Int("order.line_count", len(input.Lines))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("user.id", input.UserID), slog.Int("line_count", len(input.Lines)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("user.id", input.UserID))
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.ID), slog.String("order.number", result.Number), slog.Float64("order.total", result.Total))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, userID, orderID int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("order.user_id", userID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", orderID), slog.Int64("user.id", userID))
	result, err := s.inner.CancelOrder(ctx, userID, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", result.ID), slog.String("order.number", result.Number))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("order.user_id", userID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", orderID), slog.Int64("user.id", userID))
	if err := s.inner.DeleteOrder(ctx, userID, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int64("order.user_id", userID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64, page int) (*ordersports.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders",
		trace.WithAttributes(attribute.Int64("order.user_id", userID), attribute.Int("page", page)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, userID, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result.Items)))
	return result, nil
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
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	ordersDeleted   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	ordersCancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersCancelled: ordersCancelled, ordersDeleted: ordersDeleted}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
