package gateway_service

import (
	"context"

	"github.com/ecomia/paynet-sale-service/domain/paynet"
)

type GatewayServiceMock struct {
	ExecuteFn               func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*Response, error)
	ProcessCustomerReturnFn func(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*CallbackResponse, error)
	ExecuteCalls            int
	ProcessCalls            int
}

func NewGatewayServiceMock() *GatewayServiceMock {
	return &GatewayServiceMock{}
}

func (mock *GatewayServiceMock) Execute(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*Response, error) {
	mock.ExecuteCalls++
	if mock.ExecuteFn != nil {
		return mock.ExecuteFn(ctx, query, txn)
	}
	txn.SetStatus(paynet.StatusProcessing)
	return &Response{Type: "async-response", Status: "processing"}, nil
}

func (mock *GatewayServiceMock) ProcessCustomerReturn(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*CallbackResponse, error) {
	mock.ProcessCalls++
	if mock.ProcessCustomerReturnFn != nil {
		return mock.ProcessCustomerReturnFn(ctx, rawCallback, txn)
	}
	txn.SetStatus(paynet.StatusApproved)
	return &CallbackResponse{Status: "approved", Raw: rawCallback}, nil
}
