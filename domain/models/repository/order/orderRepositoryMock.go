package order_repository

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
)

// OrderRepositoryMock is an in-memory repository used by package tests
// across the service, it honors the same not-found and versioning semantics
// as the mongo implementation.
type OrderRepositoryMock struct {
	mutex  sync.Mutex
	orders map[string]*entities.Order

	SaveCalls int
}

func NewOrderRepositoryMock() *OrderRepositoryMock {
	return &OrderRepositoryMock{orders: make(map[string]*entities.Order, 16)}
}

func (repo *OrderRepositoryMock) Save(ctx context.Context, order entities.Order) (*entities.Order, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.SaveCalls++

	// same insert-vs-update decision as the mongo implementation
	if !order.IsPersisted() {
		if _, ok := repo.orders[order.IncrementId]; ok {
			return nil, errors.Errorf("order '%s' already exists", order.IncrementId)
		}
		copied := order
		copied.DocVersion = entities.DocumentVersion
		copied.CreatedAt = time.Now().UTC()
		copied.UpdatedAt = copied.CreatedAt
		repo.orders[order.IncrementId] = &copied
		return &copied, nil
	}

	stored, ok := repo.orders[order.IncrementId]
	if !ok || stored.DeletedAt != nil || stored.Version != order.Version {
		return nil, ErrorVersionUpdateFailed
	}

	copied := order
	copied.Version++
	copied.UpdatedAt = time.Now().UTC()
	repo.orders[order.IncrementId] = &copied
	return &copied, nil
}

func (repo *OrderRepositoryMock) Insert(ctx context.Context, order *entities.Order) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	order.DocVersion = entities.DocumentVersion
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	repo.orders[order.IncrementId] = &copied
	return nil
}

func (repo *OrderRepositoryMock) FindByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	order, ok := repo.orders[incrementId]
	if !ok || order.DeletedAt != nil {
		return nil, ErrorOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (repo *OrderRepositoryMock) FindByStatus(ctx context.Context, status entities.State, updatedBefore time.Time, limit int64) ([]*entities.Order, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	orders := make([]*entities.Order, 0, limit)
	for _, order := range repo.orders {
		if int64(len(orders)) >= limit {
			break
		}
		if order.DeletedAt != nil || order.Status != status || !order.UpdatedAt.Before(updatedBefore) {
			continue
		}
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (repo *OrderRepositoryMock) ExistsByIncrementId(ctx context.Context, incrementId string) (bool, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	order, ok := repo.orders[incrementId]
	return ok && order.DeletedAt == nil, nil
}

func (repo *OrderRepositoryMock) Count(ctx context.Context) (int64, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	var total int64
	for _, order := range repo.orders {
		if order.DeletedAt == nil {
			total++
		}
	}
	return total, nil
}

func (repo *OrderRepositoryMock) DeleteByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	order, ok := repo.orders[incrementId]
	if !ok || order.DeletedAt != nil {
		return nil, ErrorOrderNotFound
	}

	deletedAt := time.Now().UTC()
	order.DeletedAt = &deletedAt
	copied := *order
	return &copied, nil
}
