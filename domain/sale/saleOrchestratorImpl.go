package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/lifecycle"
	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/paynet"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
	"github.com/ecomia/paynet-sale-service/infrastructure/secret"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
)

type iSaleOrchestratorImpl struct {
	orderRepository order_repository.IOrderRepository
	gatewayService  gateway_service.IGatewayService
	orderLifecycle  lifecycle.IOrderLifecycle
	crypter         secret.ICrypter
	queryConfig     paynet.QueryConfig
	storeName       string
	redirectUrlBase string

	// route segment for redirect urls, set at construction instead of being
	// derived from a type name
	kind string
}

func NewSaleOrchestrator(orderRepository order_repository.IOrderRepository,
	gatewayService gateway_service.IGatewayService,
	orderLifecycle lifecycle.IOrderLifecycle,
	crypter secret.ICrypter,
	queryConfig paynet.QueryConfig,
	storeName string,
	redirectUrlBase string) ISaleOrchestrator {
	return &iSaleOrchestratorImpl{
		orderRepository: orderRepository,
		gatewayService:  gatewayService,
		orderLifecycle:  orderLifecycle,
		crypter:         crypter,
		queryConfig:     queryConfig,
		storeName:       storeName,
		redirectUrlBase: redirectUrlBase,
		kind:            "sale",
	}
}

func (orchestrator iSaleOrchestratorImpl) Initialize(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	order.Status = entities.StatePendingPayment
	order.IsNotified = false
	order.Invoice.PaymentMethod = MethodCode
	if order.Payment == nil {
		order.Payment = &entities.Payment{}
	}

	saved, err := orchestrator.orderRepository.Save(ctx, *order)
	if err != nil {
		return nil, errors.Wrapf(err, "initialize order '%s' failed", order.IncrementId)
	}
	return saved, nil
}

func (orchestrator iSaleOrchestratorImpl) AssignData(order *entities.Order, data CardData) error {
	if order.Payment == nil {
		order.Payment = &entities.Payment{}
	}

	order.Payment.CcOwner = data.CcOwner
	order.Payment.CcNumber = data.CcNumber
	order.Payment.CcCid = data.CcCid
	order.Payment.CcExpMonth = data.CcExpMonth
	order.Payment.CcExpYear = data.CcExpYear
	return nil
}

func (orchestrator iSaleOrchestratorImpl) PrepareSave(order *entities.Order) error {
	if order.Payment == nil {
		return errors.Errorf("order '%s' has no payment", order.IncrementId)
	}

	numberEnc, err := orchestrator.crypter.Encrypt(order.Payment.CcNumber)
	if err != nil {
		return errors.Wrapf(err, "encrypt card number of order '%s' failed", order.IncrementId)
	}
	cidEnc, err := orchestrator.crypter.Encrypt(order.Payment.CcCid)
	if err != nil {
		return errors.Wrapf(err, "encrypt card cvv of order '%s' failed", order.IncrementId)
	}

	order.Payment.CcNumberEnc = numberEnc
	order.Payment.CcCidEnc = cidEnc
	order.Payment.CcNumber = ""
	order.Payment.CcCid = ""
	return nil
}

func (orchestrator iSaleOrchestratorImpl) GetRedirectURL() string {
	return fmt.Sprintf("%s/paynet/%s/redirect", orchestrator.redirectUrlBase, orchestrator.kind)
}

func (orchestrator iSaleOrchestratorImpl) StartSale(ctx context.Context, orderId string, callbackUrl string) (*gateway_service.Response, error) {
	order, err := orchestrator.orderRepository.FindByIncrementId(ctx, orderId)
	if err != nil {
		return nil, errors.Wrapf(err, "load order '%s' failed", orderId)
	}

	txn, err := orchestrator.buildTransaction(order, callbackUrl)
	if err != nil {
		return nil, err
	}

	response, err := orchestrator.gatewayService.Execute(ctx, gateway_service.QuerySale, txn)
	if err != nil {
		orchestrator.cancelOnGatewayError(ctx, order)
		operationCounter.WithLabelValues("start_sale", "error").Inc()
		return nil, err
	}

	order.Payment.LastTransId = txn.Payment.PaynetId
	order.Payment.IsClosed = false
	order.Payment.Transactions = append(order.Payment.Transactions, entities.PaymentTransaction{
		RecordId:  uuid.NewString(),
		TxnId:     txn.Payment.PaynetId,
		Type:      entities.TransactionTypePayment,
		IsClosed:  false,
		CreatedAt: time.Now().UTC(),
	})

	if _, err := orchestrator.orderLifecycle.Persist(ctx, order); err != nil {
		return nil, err
	}

	operationCounter.WithLabelValues("start_sale", "ok").Inc()
	applog.Audit("sale started, oid: %s, paynetOrderId: %s", orderId, txn.Payment.PaynetId)
	return response, nil
}

func (orchestrator iSaleOrchestratorImpl) UpdateStatus(ctx context.Context, orderId string) (*gateway_service.Response, error) {
	order, err := orchestrator.orderRepository.FindByIncrementId(ctx, orderId)
	if err != nil {
		return nil, errors.Wrapf(err, "load order '%s' failed", orderId)
	}

	// server-to-server poll, no redirect url
	txn, err := orchestrator.buildTransaction(order, "")
	if err != nil {
		return nil, err
	}

	response, err := orchestrator.gatewayService.Execute(ctx, gateway_service.QueryStatus, txn)
	if err != nil {
		orchestrator.cancelOnGatewayError(ctx, order)
		operationCounter.WithLabelValues("update_status", "error").Inc()
		return nil, err
	}

	if err := orchestrator.reconcile(ctx, order, txn, false); err != nil {
		return nil, err
	}

	operationCounter.WithLabelValues("update_status", "ok").Inc()
	return response, nil
}

func (orchestrator iSaleOrchestratorImpl) FinishSale(ctx context.Context, orderId string, rawCallback map[string]string) (*gateway_service.CallbackResponse, *entities.Order, error) {
	order, err := orchestrator.orderRepository.FindByIncrementId(ctx, orderId)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "order with id '%s' not found", orderId)
	}

	// Duplicate callbacks must not re-finish the order. Processing marks an
	// order whose finish is underway, terminal states never change again.
	if order.Status == entities.StateProcessing || order.Status.IsTerminal() {
		applog.Audit("finish sale short-circuit, oid: %s, status: %s", orderId, order.Status)
		return nil, order, nil
	}

	txn, err := orchestrator.buildTransaction(order, "")
	if err != nil {
		return nil, nil, err
	}
	txn.SetStatus(paynet.StatusProcessing)

	// Best-effort duplicate defense, not a substitute for per-order
	// serialization at the store.
	order.Status = entities.StateProcessing
	order, err = orchestrator.orderLifecycle.Persist(ctx, order)
	if err != nil {
		return nil, nil, err
	}

	callbackResponse, err := orchestrator.gatewayService.ProcessCustomerReturn(ctx, rawCallback, txn)
	if err != nil {
		orchestrator.cancelOnGatewayError(ctx, order)
		operationCounter.WithLabelValues("finish_sale", "error").Inc()
		return nil, nil, err
	}

	if err := orchestrator.reconcile(ctx, order, txn, true); err != nil {
		return nil, nil, err
	}

	operationCounter.WithLabelValues("finish_sale", "ok").Inc()
	return callbackResponse, order, nil
}

// reconcile maps the transaction outcome onto the order lifecycle. With
// cancelWhenUnfinished a not-approved outcome always cancels, this is the
// customer-return path where the gateway already reported a final result.
func (orchestrator iSaleOrchestratorImpl) reconcile(ctx context.Context, order *entities.Order, txn *paynet.PaymentTransaction, cancelWhenUnfinished bool) error {
	switch {
	case txn.IsApproved():
		saved, err := orchestrator.orderLifecycle.Complete(ctx, order)
		if err != nil {
			return err
		}
		*order = *saved
	case txn.IsFinished() || cancelWhenUnfinished:
		saved, err := orchestrator.orderLifecycle.Cancel(ctx, order, txn.LastErrorMessage())
		if err != nil {
			return err
		}
		*order = *saved
	default:
		saved, err := orchestrator.orderLifecycle.Persist(ctx, order)
		if err != nil {
			return err
		}
		*order = *saved
	}
	return nil
}

// cancelOnGatewayError is the blanket compensation: any failure talking to
// the gateway is fatal to this order. The original error still goes back to
// the caller, a failed compensation is only logged.
func (orchestrator iSaleOrchestratorImpl) cancelOnGatewayError(ctx context.Context, order *entities.Order) {
	gatewayErrorCounter.Inc()
	reason := fmt.Sprintf("Order '%s' cancelled, error occurred", order.IncrementId)
	if _, err := orchestrator.orderLifecycle.Cancel(ctx, order, reason); err != nil {
		applog.Err("compensating cancel failed, oid: %s, error: %s", order.IncrementId, err.Error())
	}
}

func (orchestrator iSaleOrchestratorImpl) buildTransaction(order *entities.Order, redirectUrl string) (*paynet.PaymentTransaction, error) {
	card, err := orchestrator.decryptCard(order)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("shopping at %s; order id: %s", orchestrator.storeName, order.IncrementId)
	return paynet.BuildTransaction(order, card, orchestrator.queryConfig, description, redirectUrl)
}

// decryptCard restores the transient plaintext card block from the encrypted
// stored fields. Plaintext left over from AssignData in the same request is
// used as is.
func (orchestrator iSaleOrchestratorImpl) decryptCard(order *entities.Order) (paynet.Card, error) {
	if order.Payment == nil {
		return paynet.Card{}, errors.Errorf("order '%s' has no payment", order.IncrementId)
	}

	payment := order.Payment
	number := payment.CcNumber
	cid := payment.CcCid

	var err error
	if number == "" && payment.CcNumberEnc != "" {
		number, err = orchestrator.crypter.Decrypt(payment.CcNumberEnc)
		if err != nil {
			return paynet.Card{}, errors.Wrapf(err, "decrypt card number of order '%s' failed", order.IncrementId)
		}
	}
	if cid == "" && payment.CcCidEnc != "" {
		cid, err = orchestrator.crypter.Decrypt(payment.CcCidEnc)
		if err != nil {
			return paynet.Card{}, errors.Wrapf(err, "decrypt card cvv of order '%s' failed", order.IncrementId)
		}
	}

	return paynet.Card{
		PrintedName: payment.CcOwner,
		Number:      number,
		ExpireMonth: payment.CcExpMonth,
		ExpireYear:  payment.CcExpYear,
		Cvv2:        cid,
	}, nil
}
