package order_repository

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
)

var ErrorOrderNotFound = errors.New("order not found")
var ErrorUpdateFailed = errors.New("update order failed")
var ErrorVersionUpdateFailed = errors.New("update order version failed")
var ErrorDeleteFailed = errors.New("update deletedAt field failed")

type IOrderRepository interface {
	Save(ctx context.Context, order entities.Order) (*entities.Order, error)

	Insert(ctx context.Context, order *entities.Order) error

	FindByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error)

	// FindByStatus returns at most limit orders in the given state whose last
	// update is older than updatedBefore, oldest first.
	FindByStatus(ctx context.Context, status entities.State, updatedBefore time.Time, limit int64) ([]*entities.Order, error)

	ExistsByIncrementId(ctx context.Context, incrementId string) (bool, error)

	Count(ctx context.Context) (int64, error)

	// only set DeletedAt field
	DeleteByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error)
}
