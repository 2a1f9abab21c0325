package sale

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ecomia/paynet-sale-service/domain/lifecycle"
	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/paynet"
	"github.com/ecomia/paynet-sale-service/infrastructure/secret"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
	notify_service "github.com/ecomia/paynet-sale-service/infrastructure/services/notification"
)

type fixture struct {
	repo         *order_repository.OrderRepositoryMock
	gateway      *gateway_service.GatewayServiceMock
	notify       *notify_service.NotificationServiceMock
	orchestrator ISaleOrchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := order_repository.NewOrderRepositoryMock()
	gatewayMock := gateway_service.NewGatewayServiceMock()
	notifyMock := notify_service.NewNotificationServiceMock()
	crypter, err := secret.NewCrypter("unit-test-key")
	require.Nil(t, err)

	stateMachine := lifecycle.NewOrderLifecycle(repo, notifyMock, "Main Store")

	config := paynet.QueryConfig{
		EndpointId:        "291",
		Login:             "merchant-login",
		SigningKey:        "signing-key",
		GatewayMode:       paynet.ModeSandbox,
		GatewayUrlSandbox: "https://sandbox.gateway.example",
	}

	return &fixture{
		repo:    repo,
		gateway: gatewayMock,
		notify:  notifyMock,
		orchestrator: NewSaleOrchestrator(repo, gatewayMock, stateMachine, crypter, config,
			"Main Store", "https://shop.example"),
	}
}

func (fix *fixture) seedOrder(t *testing.T) *entities.Order {
	t.Helper()

	order := &entities.Order{
		IncrementId: "1001",
		Customer: entities.CustomerInfo{
			Email:     "buyer@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			ClientIp:  "10.0.0.7",
		},
		BillingAddress: entities.AddressInfo{
			Country:    "US",
			City:       "Houston",
			FirstLine:  "2704 Colonial Drive",
			ZipCode:    "77056",
			Phone:      "660-485-6353",
			RegionCode: "TX",
			Email:      "buyer@example.com",
		},
		Invoice: entities.Invoice{
			GrandTotal:     entities.Money{Amount: "49.99", Currency: "USD"},
			PaymentGateway: "paynet",
		},
	}

	require.Nil(t, fix.orchestrator.AssignData(order, CardData{
		CcOwner:    "JANE DOE",
		CcNumber:   "4444333322221111",
		CcCid:      "123",
		CcExpMonth: 12,
		CcExpYear:  2029,
	}))
	require.Nil(t, fix.orchestrator.PrepareSave(order))
	require.Empty(t, order.Payment.CcNumber)
	require.Empty(t, order.Payment.CcCid)
	require.NotEmpty(t, order.Payment.CcNumberEnc)

	saved, err := fix.orchestrator.Initialize(context.Background(), order)
	require.Nil(t, err)
	require.Equal(t, entities.StatePendingPayment, saved.Status)
	require.Equal(t, MethodCode, saved.Invoice.PaymentMethod)
	return saved
}

func (fix *fixture) storedOrder(t *testing.T, incrementId string) *entities.Order {
	t.Helper()
	order, err := fix.repo.FindByIncrementId(context.Background(), incrementId)
	require.Nil(t, err)
	return order
}

func TestStartSaleSuccess(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		require.Equal(t, gateway_service.QuerySale, query)
		require.Equal(t, "1001", txn.Payment.ClientId)
		require.Equal(t, "4444333322221111", txn.Payment.CreditCard.CreditCardNumber)
		require.Equal(t, "https://shop.example/paynet/callback/1001", txn.QueryConfig.RedirectUrl)
		require.Equal(t, txn.QueryConfig.RedirectUrl, txn.QueryConfig.CallbackUrl)
		txn.Payment.PaynetId = "gw-555"
		return &gateway_service.Response{Type: "async-response", Status: "processing", PaynetOrderId: "gw-555"}, nil
	}

	response, err := fix.orchestrator.StartSale(context.Background(), "1001", "https://shop.example/paynet/callback/1001")
	require.Nil(t, err)
	require.Equal(t, "gw-555", response.PaynetOrderId)

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, "gw-555", stored.Payment.LastTransId)
	require.False(t, stored.Payment.IsClosed)
	require.Len(t, stored.Payment.Transactions, 1)
	require.Equal(t, entities.TransactionTypePayment, stored.Payment.Transactions[0].Type)
	require.False(t, stored.Payment.Transactions[0].IsClosed)
	require.Equal(t, entities.StatePendingPayment, stored.Status)
}

func TestStartSaleGatewayErrorCancelsOrder(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	gatewayErr := errors.New("connection reset")
	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		return nil, gatewayErr
	}

	_, err := fix.orchestrator.StartSale(context.Background(), "1001", "https://shop.example/return")
	require.Error(t, err)
	require.Equal(t, gatewayErr, errors.Cause(err))

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCancelled, stored.Status)
	require.NotEmpty(t, stored.StatusReason)
}

func TestStartSaleUnknownOrder(t *testing.T) {
	fix := newFixture(t)

	_, err := fix.orchestrator.StartSale(context.Background(), "9999", "https://shop.example/return")
	require.Error(t, err)
	require.Equal(t, order_repository.ErrorOrderNotFound, errors.Cause(err))
	require.Equal(t, 0, fix.gateway.ExecuteCalls)
}

func TestUpdateStatusApprovedCompletesOrder(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		require.Equal(t, gateway_service.QueryStatus, query)
		require.Empty(t, txn.QueryConfig.RedirectUrl)
		txn.SetStatus(paynet.StatusApproved)
		return &gateway_service.Response{Type: "status-response", Status: "approved"}, nil
	}

	response, err := fix.orchestrator.UpdateStatus(context.Background(), "1001")
	require.Nil(t, err)
	require.Equal(t, "approved", response.Status)

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCompleted, stored.Status)
	require.True(t, stored.IsNotified)
	require.Len(t, fix.notify.Requests, 1)
}

func TestUpdateStatusDeclinedCancelsWithGatewayReason(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		txn.SetLastError("2", "card declined")
		txn.SetStatus(paynet.StatusDeclined)
		return &gateway_service.Response{Type: "status-response", Status: "declined", ErrorMessage: "card declined"}, nil
	}

	_, err := fix.orchestrator.UpdateStatus(context.Background(), "1001")
	require.Nil(t, err)

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCancelled, stored.Status)
	require.Equal(t, "card declined", stored.StatusReason)
}

func TestUpdateStatusPendingPersistsUnchanged(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	savesBefore := fix.repo.SaveCalls
	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		txn.SetStatus(paynet.StatusProcessing)
		return &gateway_service.Response{Type: "status-response", Status: "processing"}, nil
	}

	response, err := fix.orchestrator.UpdateStatus(context.Background(), "1001")
	require.Nil(t, err)
	require.True(t, response.IsStatusUpdateNeeded())

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StatePendingPayment, stored.Status)
	require.Greater(t, fix.repo.SaveCalls, savesBefore)
	require.Empty(t, fix.notify.Requests)
}

func TestUpdateStatusGatewayErrorCancelsAndPropagates(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	gatewayErr := errors.New("gateway timeout")
	fix.gateway.ExecuteFn = func(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*gateway_service.Response, error) {
		return nil, gatewayErr
	}

	_, err := fix.orchestrator.UpdateStatus(context.Background(), "1001")
	require.Error(t, err)
	require.Equal(t, gatewayErr, errors.Cause(err))

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCancelled, stored.Status)
	require.NotEmpty(t, stored.StatusReason)
}

func TestFinishSaleApprovedCompletesOrder(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	raw := map[string]string{"status": "approved", "orderid": "gw-555", "client_orderid": "1001", "merchant_order": "1001"}
	fix.gateway.ProcessCustomerReturnFn = func(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*gateway_service.CallbackResponse, error) {
		require.Equal(t, paynet.StatusProcessing, txn.Status())
		txn.Payment.PaynetId = "gw-555"
		txn.SetStatus(paynet.StatusApproved)
		return &gateway_service.CallbackResponse{Status: "approved", PaynetOrderId: "gw-555", Raw: rawCallback}, nil
	}

	callbackResponse, order, err := fix.orchestrator.FinishSale(context.Background(), "1001", raw)
	require.Nil(t, err)
	require.Equal(t, "approved", callbackResponse.Status)
	require.Equal(t, entities.StateCompleted, order.Status)

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCompleted, stored.Status)
}

func TestFinishSaleNotApprovedCancels(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	fix.gateway.ProcessCustomerReturnFn = func(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*gateway_service.CallbackResponse, error) {
		txn.SetLastError("2", "card declined")
		txn.SetStatus(paynet.StatusDeclined)
		return &gateway_service.CallbackResponse{Status: "declined", Raw: rawCallback}, nil
	}

	_, order, err := fix.orchestrator.FinishSale(context.Background(), "1001", map[string]string{"status": "declined"})
	require.Nil(t, err)
	require.Equal(t, entities.StateCancelled, order.Status)
	require.Equal(t, "card declined", order.StatusReason)
}

func TestFinishSaleIdempotenceGuard(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(t)

	order.Status = entities.StateProcessing
	_, err := fix.repo.Save(context.Background(), *order)
	require.Nil(t, err)

	callbackResponse, returned, err := fix.orchestrator.FinishSale(context.Background(), "1001",
		map[string]string{"status": "approved"})
	require.Nil(t, err)
	require.Nil(t, callbackResponse)
	require.Equal(t, entities.StateProcessing, returned.Status)
	require.Equal(t, 0, fix.gateway.ProcessCalls)
}

func TestFinishSaleUnknownOrder(t *testing.T) {
	fix := newFixture(t)

	_, _, err := fix.orchestrator.FinishSale(context.Background(), "9999", map[string]string{"status": "approved"})
	require.Error(t, err)
	require.Equal(t, order_repository.ErrorOrderNotFound, errors.Cause(err))
	require.Equal(t, 0, fix.gateway.ProcessCalls)
}

func TestFinishSaleGatewayErrorCancelsAndPropagates(t *testing.T) {
	fix := newFixture(t)
	fix.seedOrder(t)

	gatewayErr := errors.New("control code check failed")
	fix.gateway.ProcessCustomerReturnFn = func(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*gateway_service.CallbackResponse, error) {
		return nil, gatewayErr
	}

	_, _, err := fix.orchestrator.FinishSale(context.Background(), "1001", map[string]string{"status": "approved"})
	require.Error(t, err)
	require.Equal(t, gatewayErr, errors.Cause(err))

	stored := fix.storedOrder(t, "1001")
	require.Equal(t, entities.StateCancelled, stored.Status)
	require.NotEmpty(t, stored.StatusReason)
}

func TestGetRedirectURL(t *testing.T) {
	fix := newFixture(t)
	require.Equal(t, "https://shop.example/paynet/sale/redirect", fix.orchestrator.GetRedirectURL())
}
