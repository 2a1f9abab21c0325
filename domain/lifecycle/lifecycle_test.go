package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	notify_service "github.com/ecomia/paynet-sale-service/infrastructure/services/notification"
)

func newPendingOrder(t *testing.T, repo order_repository.IOrderRepository) *entities.Order {
	order := &entities.Order{
		IncrementId: "1001",
		Status:      entities.StatePendingPayment,
		Customer:    entities.CustomerInfo{Email: "buyer@example.com", FirstName: "Jane", LastName: "Doe"},
		Invoice: entities.Invoice{
			GrandTotal:    entities.Money{Amount: "49.99", Currency: "USD"},
			PaymentMethod: "paynet_sale",
		},
		Payment: &entities.Payment{},
	}
	require.Nil(t, repo.Insert(context.Background(), order))
	return order
}

func TestCompleteTransitionsAndNotifies(t *testing.T) {
	repo := order_repository.NewOrderRepositoryMock()
	notify := notify_service.NewNotificationServiceMock()
	stateMachine := NewOrderLifecycle(repo, notify, "Main Store")

	order := newPendingOrder(t, repo)

	saved, err := stateMachine.Complete(context.Background(), order)
	require.Nil(t, err)
	require.Equal(t, entities.StateCompleted, saved.Status)
	require.True(t, saved.IsNotified)

	stored, err := repo.FindByIncrementId(context.Background(), "1001")
	require.Nil(t, err)
	require.Equal(t, entities.StateCompleted, stored.Status)

	require.Len(t, notify.Requests, 1)
	require.Equal(t, "buyer@example.com", notify.Requests[0].To)
}

func TestCancelStoresReason(t *testing.T) {
	repo := order_repository.NewOrderRepositoryMock()
	notify := notify_service.NewNotificationServiceMock()
	stateMachine := NewOrderLifecycle(repo, notify, "Main Store")

	order := newPendingOrder(t, repo)

	saved, err := stateMachine.Cancel(context.Background(), order, "card declined")
	require.Nil(t, err)
	require.Equal(t, entities.StateCancelled, saved.Status)
	require.Equal(t, "card declined", saved.StatusReason)
	require.True(t, saved.IsNotified)

	require.Len(t, notify.Requests, 1)
	require.Contains(t, notify.Requests[0].Body, "card declined")
}

func TestTerminalOrderIsNotRevived(t *testing.T) {
	repo := order_repository.NewOrderRepositoryMock()
	notify := notify_service.NewNotificationServiceMock()
	stateMachine := NewOrderLifecycle(repo, notify, "Main Store")

	order := newPendingOrder(t, repo)

	saved, err := stateMachine.Cancel(context.Background(), order, "card declined")
	require.Nil(t, err)

	completed, err := stateMachine.Complete(context.Background(), saved)
	require.Nil(t, err)
	require.Equal(t, entities.StateCancelled, completed.Status)
	require.Len(t, notify.Requests, 1)
}

func TestNotificationFailureDoesNotFailTransition(t *testing.T) {
	repo := order_repository.NewOrderRepositoryMock()
	notify := notify_service.NewNotificationServiceMock()
	notify.FailWith = context.DeadlineExceeded
	stateMachine := NewOrderLifecycle(repo, notify, "Main Store")

	order := newPendingOrder(t, repo)

	saved, err := stateMachine.Complete(context.Background(), order)
	require.Nil(t, err)
	require.Equal(t, entities.StateCompleted, saved.Status)
}

func TestPersistKeepsState(t *testing.T) {
	repo := order_repository.NewOrderRepositoryMock()
	notify := notify_service.NewNotificationServiceMock()
	stateMachine := NewOrderLifecycle(repo, notify, "Main Store")

	order := newPendingOrder(t, repo)

	saved, err := stateMachine.Persist(context.Background(), order)
	require.Nil(t, err)
	require.Equal(t, entities.StatePendingPayment, saved.Status)
	require.Empty(t, notify.Requests)
}
