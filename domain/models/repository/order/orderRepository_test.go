package order_repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
)

func storedOrder(t *testing.T, repo *OrderRepositoryMock, incrementId string) *entities.Order {
	order := &entities.Order{
		IncrementId: incrementId,
		Status:      entities.StatePendingPayment,
		Invoice: entities.Invoice{
			GrandTotal:    entities.Money{Amount: "49.99", Currency: "USD"},
			PaymentMethod: "paynet_sale",
		},
		Payment: &entities.Payment{},
	}
	require.Nil(t, repo.Insert(context.Background(), order))
	return order
}

// A loaded order goes through bson decoding on the way out of the store. The
// decoded copy must still take the update path on Save, never a second insert.
func TestSaveAfterBsonRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepositoryMock()
	storedOrder(t, repo, "1001")

	loaded, err := repo.FindByIncrementId(ctx, "1001")
	require.Nil(t, err)

	raw, err := bson.Marshal(loaded)
	require.Nil(t, err)
	var decoded entities.Order
	require.Nil(t, bson.Unmarshal(raw, &decoded))

	require.True(t, decoded.IsPersisted())

	decoded.Status = entities.StateCompleted
	saved, err := repo.Save(ctx, decoded)
	require.Nil(t, err)
	require.Equal(t, entities.StateCompleted, saved.Status)
	require.Equal(t, uint64(1), saved.Version)

	total, err := repo.Count(ctx)
	require.Nil(t, err)
	require.Equal(t, int64(1), total)
}

func TestSaveFreshOrderInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepositoryMock()

	saved, err := repo.Save(ctx, entities.Order{
		IncrementId: "1001",
		Status:      entities.StatePendingPayment,
	})
	require.Nil(t, err)
	require.True(t, saved.IsPersisted())
	require.Equal(t, entities.DocumentVersion, saved.DocVersion)
}

func TestSaveFreshOrderRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepositoryMock()
	storedOrder(t, repo, "1001")

	_, err := repo.Save(ctx, entities.Order{
		IncrementId: "1001",
		Status:      entities.StatePendingPayment,
	})
	require.Error(t, err)
}

func TestSaveStaleVersionFails(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepositoryMock()
	order := storedOrder(t, repo, "1001")

	first := *order
	_, err := repo.Save(ctx, first)
	require.Nil(t, err)

	stale := *order
	_, err = repo.Save(ctx, stale)
	require.Equal(t, ErrorVersionUpdateFailed, err)
}
