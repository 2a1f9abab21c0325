package lifecycle

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
	notify_service "github.com/ecomia/paynet-sale-service/infrastructure/services/notification"
)

type iOrderLifecycleImpl struct {
	orderRepository order_repository.IOrderRepository
	notifyService   notify_service.INotificationService
	storeName       string
}

func NewOrderLifecycle(orderRepository order_repository.IOrderRepository,
	notifyService notify_service.INotificationService, storeName string) IOrderLifecycle {
	return &iOrderLifecycleImpl{
		orderRepository: orderRepository,
		notifyService:   notifyService,
		storeName:       storeName,
	}
}

func (state iOrderLifecycleImpl) Complete(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	if order.Status.IsTerminal() {
		applog.Warn("complete called on terminal order, oid: %s, status: %s", order.IncrementId, order.Status)
		return order, nil
	}

	order.Status = entities.StateCompleted
	order.StatusReason = ""

	state.sendOrderUpdateEmail(ctx, order,
		fmt.Sprintf("Your order %s at %s has been paid and completed.", order.IncrementId, state.storeName))
	order.IsNotified = true

	saved, err := state.orderRepository.Save(ctx, *order)
	if err != nil {
		return nil, errors.Wrapf(err, "persist completed order '%s' failed", order.IncrementId)
	}

	applog.Audit("order completed, oid: %s", saved.IncrementId)
	return saved, nil
}

func (state iOrderLifecycleImpl) Cancel(ctx context.Context, order *entities.Order, reason string) (*entities.Order, error) {
	if order.Status.IsTerminal() {
		applog.Warn("cancel called on terminal order, oid: %s, status: %s", order.IncrementId, order.Status)
		return order, nil
	}

	order.Status = entities.StateCancelled
	order.StatusReason = reason

	state.sendOrderUpdateEmail(ctx, order,
		fmt.Sprintf("Your order %s at %s has been cancelled: %s", order.IncrementId, state.storeName, reason))
	order.IsNotified = true

	saved, err := state.orderRepository.Save(ctx, *order)
	if err != nil {
		return nil, errors.Wrapf(err, "persist cancelled order '%s' failed", order.IncrementId)
	}

	applog.Audit("order cancelled, oid: %s, reason: %s", saved.IncrementId, reason)
	return saved, nil
}

func (state iOrderLifecycleImpl) Persist(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	saved, err := state.orderRepository.Save(ctx, *order)
	if err != nil {
		return nil, errors.Wrapf(err, "persist order '%s' failed", order.IncrementId)
	}
	return saved, nil
}

// Notification failure must not fail the reconciliation, the order state is
// the source of truth and the email is best effort.
func (state iOrderLifecycleImpl) sendOrderUpdateEmail(ctx context.Context, order *entities.Order, body string) {
	to := order.Customer.Email
	if to == "" {
		to = order.BillingAddress.Email
	}
	if to == "" {
		applog.Warn("order has no customer email, skipping update email, oid: %s", order.IncrementId)
		return
	}

	err := state.notifyService.NotifyByMail(ctx, notify_service.EmailRequest{
		To:      to,
		Subject: fmt.Sprintf("Order %s update", order.IncrementId),
		Body:    body,
	})
	if err != nil {
		applog.Err("send order update email failed, oid: %s, error: %s", order.IncrementId, err.Error())
	}
}
