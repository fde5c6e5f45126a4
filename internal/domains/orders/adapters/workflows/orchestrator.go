package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/emarket/emarket-api/internal/domains/orders/application/types"
	ordersdomain "github.com/emarket/emarket-api/internal/domains/orders/domain"
	"github.com/emarket/emarket-api/internal/domains/orders/ports"
	orderactivities "github.com/emarket/emarket-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/emarket/emarket-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.PlacementOrchestrator = (*TemporalOrderPlacement)(nil)
	_ ports.PlacementOrchestrator = (*InlineOrderPlacement)(nil)
)

// TemporalOrderPlacement starts order placement workflows on a Temporal cluster.
type TemporalOrderPlacement struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderPlacement wires a Temporal client into the orchestrator.
func NewTemporalOrderPlacement(c client.Client) *TemporalOrderPlacement {
	return &TemporalOrderPlacement{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that places an order aggregate and
// waits for its result. Typed failures are translated back into the service's
// error taxonomy.
func (o *TemporalOrderPlacement) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order placement not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-placement-%d-%s", input.UserID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	// Start by registered name, not by function reference: the worker registers
	// the workflow under OrderPlacementWorkflowName, and a function reference
	// would resolve to the short Go function name instead.
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
			var order ordersdomain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, orderactivities.RestoreError(err)
			}
			return &order, nil
		}
		return nil, err
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, orderactivities.RestoreError(err)
	}
	return &order, nil
}

// InlineOrderPlacement executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderPlacement struct {
	service ports.Service
}

// NewInlineOrderPlacement wraps the order service for synchronous execution.
func NewInlineOrderPlacement(service ports.Service) *InlineOrderPlacement {
	return &InlineOrderPlacement{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderPlacement) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order placement not configured")
	}
	return o.service.PlaceOrder(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
