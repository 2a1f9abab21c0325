package gateway_service

import (
	"context"

	"github.com/ecomia/paynet-sale-service/domain/paynet"
)

const (
	QuerySale   string = "sale"
	QueryStatus string = "status"
)

// IGatewayService executes named queries against the Paynet gateway and
// validates inbound customer-return callbacks. Execute and
// ProcessCustomerReturn refine the transaction's status and gateway id as a
// side effect. No retry happens at this layer.
type IGatewayService interface {
	Execute(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*Response, error)

	ProcessCustomerReturn(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*CallbackResponse, error)
}

// Response is the parsed gateway reply for a sale or status query.
type Response struct {
	Type            string
	Status          string
	PaynetOrderId   string
	MerchantOrderId string
	SerialNumber    string
	ErrorCode       string
	ErrorMessage    string
	Html            string
	RedirectUrl     string
}

// NeedsHtmlDisplay reports whether the gateway returned an html fragment
// (3-D Secure page) the caller must present to the customer.
func (response Response) NeedsHtmlDisplay() bool {
	return response.Html != ""
}

// IsStatusUpdateNeeded reports whether the transaction is still in flight on
// the gateway side and the caller should poll the status query again.
func (response Response) IsStatusUpdateNeeded() bool {
	return response.Status == "processing"
}

// CallbackResponse carries the validated fields of an inbound gateway
// callback plus the raw form for auditing.
type CallbackResponse struct {
	Status          string
	PaynetOrderId   string
	MerchantOrderId string
	Amount          string
	ErrorMessage    string
	Raw             map[string]string
}
