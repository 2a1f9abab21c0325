package sale

import (
	"context"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
)

const (
	// MethodCode identifies this payment method on orders.
	MethodCode string = "paynet_sale"
)

// CardData is the raw card input assigned to a payment before save.
type CardData struct {
	CcOwner    string
	CcNumber   string
	CcCid      string
	CcExpMonth int
	CcExpYear  int
}

// IPaymentMethod is the explicit payment-method surface the order system
// drives before any gateway traffic happens.
type IPaymentMethod interface {
	// Initialize puts a fresh order into pending payment and persists it.
	Initialize(ctx context.Context, order *entities.Order) (*entities.Order, error)

	// AssignData copies raw card input onto the order's payment. The fields
	// stay plaintext and transient until PrepareSave.
	AssignData(order *entities.Order, data CardData) error

	// PrepareSave encrypts the card number and cvv for storage and blanks
	// the plaintext fields.
	PrepareSave(order *entities.Order) error

	// GetRedirectURL returns the route the customer is sent to after
	// placing an order with this method.
	GetRedirectURL() string
}

// ISaleOrchestrator composes transaction building, the gateway client and the
// order lifecycle into the three entry protocols. Every gateway failure
// cancels the order with a generic reason and then surfaces the original
// error, there is no retry at this layer.
//
// Callers must serialize access per order, reconciliation is a
// read-modify-write on the order state.
type ISaleOrchestrator interface {
	IPaymentMethod

	// StartSale executes the sale query. On success the gateway-assigned
	// transaction id is stored on the order's payment, one open payment
	// transaction record is appended and the order is saved. Completion is
	// decided later by UpdateStatus or FinishSale.
	StartSale(ctx context.Context, orderId string, callbackUrl string) (*gateway_service.Response, error)

	// UpdateStatus polls the gateway and reconciles: approved completes the
	// order, finished-but-not-approved cancels it with the gateway reason,
	// still pending persists the order unchanged.
	UpdateStatus(ctx context.Context, orderId string) (*gateway_service.Response, error)

	// FinishSale validates an inbound customer-return callback and
	// reconciles like UpdateStatus, except a not-approved terminal outcome
	// always cancels. An order already processing (or terminal) is returned
	// as is without contacting the gateway, duplicate callbacks must not
	// re-finish it.
	FinishSale(ctx context.Context, orderId string, rawCallback map[string]string) (*gateway_service.CallbackResponse, *entities.Order, error)
}
