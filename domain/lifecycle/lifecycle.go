package lifecycle

import (
	"context"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
)

// IOrderLifecycle drives the order state machine:
//
//	PendingPayment -> Processing -> {Completed | Cancelled}
//
// Completed and Cancelled are terminal. Both transitions notify the customer,
// mark the order notified and persist it. Calls on an already terminal order
// are no-ops returning the current order.
type IOrderLifecycle interface {
	Complete(ctx context.Context, order *entities.Order) (*entities.Order, error)

	Cancel(ctx context.Context, order *entities.Order, reason string) (*entities.Order, error)

	// Persist saves the order without a state change, used when a gateway
	// response leaves the order still awaiting customer action.
	Persist(ctx context.Context, order *entities.Order) (*entities.Order, error)
}
