package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/emarket/emarket-api/internal/domains/orders/application/types"
	ordersdomain "github.com/emarket/emarket-api/internal/domains/orders/domain"
	orderactivities "github.com/emarket/emarket-api/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the ordered set of activities needed to
// place an order aggregate.
func RunOrderPlacementSequence(ctx workflow.Context, input orderstypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID, "lineCount", len(input.Lines))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID, "orderNumber", order.Number)
	return &order, nil
}
