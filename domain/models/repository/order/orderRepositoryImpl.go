package order_repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
)

type iOrderRepositoryImpl struct {
	collection *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, database, collection string) (IOrderRepository, error) {
	coll := client.Database(database).Collection(collection)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateMany(indexCtx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "incrementId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}},
		},
	})
	if err != nil {
		applog.Err("create order indexes failed, error: %s", err.Error())
		return nil, errors.Wrap(err, "create order indexes failed")
	}

	return &iOrderRepositoryImpl{collection: coll}, nil
}

func (repo iOrderRepositoryImpl) Save(ctx context.Context, order entities.Order) (*entities.Order, error) {
	if !order.IsPersisted() {
		if err := repo.Insert(ctx, &order); err != nil {
			return nil, err
		}
		return &order, nil
	}

	currentVersion := order.Version
	order.Version++
	order.UpdatedAt = time.Now().UTC()

	updateResult, err := repo.collection.UpdateOne(ctx,
		bson.D{
			{Key: "incrementId", Value: order.IncrementId},
			{Key: "version", Value: currentVersion},
			{Key: "deletedAt", Value: nil},
		},
		bson.D{{Key: "$set", Value: &order}})
	if err != nil {
		return nil, errors.Wrap(err, ErrorUpdateFailed.Error())
	}

	if updateResult.ModifiedCount != 1 {
		return nil, ErrorVersionUpdateFailed
	}

	return &order, nil
}

func (repo iOrderRepositoryImpl) Insert(ctx context.Context, order *entities.Order) error {
	order.DocVersion = entities.DocumentVersion
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt

	if _, err := repo.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(err, "order '%s' already exists", order.IncrementId)
		}
		return errors.Wrap(err, "insert order failed")
	}

	return nil
}

func (repo iOrderRepositoryImpl) FindByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error) {
	var order entities.Order
	singleResult := repo.collection.FindOne(ctx, bson.D{
		{Key: "incrementId", Value: incrementId},
		{Key: "deletedAt", Value: nil},
	})
	if err := singleResult.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrorOrderNotFound
		}
		return nil, errors.Wrapf(err, "find order '%s' failed", incrementId)
	}

	if err := singleResult.Decode(&order); err != nil {
		return nil, errors.Wrapf(err, "decode order '%s' failed", incrementId)
	}

	return &order, nil
}

func (repo iOrderRepositoryImpl) FindByStatus(ctx context.Context, status entities.State, updatedBefore time.Time, limit int64) ([]*entities.Order, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := repo.collection.Find(ctx, bson.D{
		{Key: "status", Value: status},
		{Key: "updatedAt", Value: bson.D{{Key: "$lt", Value: updatedBefore}}},
		{Key: "deletedAt", Value: nil},
	}, findOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "find orders with status '%s' failed", status)
	}
	defer func() { _ = cursor.Close(ctx) }()

	orders := make([]*entities.Order, 0, limit)
	for cursor.Next(ctx) {
		var order entities.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, errors.Wrap(err, "decode order failed")
		}
		orders = append(orders, &order)
	}

	return orders, cursor.Err()
}

func (repo iOrderRepositoryImpl) ExistsByIncrementId(ctx context.Context, incrementId string) (bool, error) {
	total, err := repo.collection.CountDocuments(ctx, bson.D{
		{Key: "incrementId", Value: incrementId},
		{Key: "deletedAt", Value: nil},
	})
	if err != nil {
		return false, errors.Wrapf(err, "count order '%s' failed", incrementId)
	}
	return total > 0, nil
}

func (repo iOrderRepositoryImpl) Count(ctx context.Context) (int64, error) {
	total, err := repo.collection.CountDocuments(ctx, bson.D{{Key: "deletedAt", Value: nil}})
	if err != nil {
		return 0, errors.Wrap(err, "count orders failed")
	}
	return total, nil
}

func (repo iOrderRepositoryImpl) DeleteByIncrementId(ctx context.Context, incrementId string) (*entities.Order, error) {
	order, err := repo.FindByIncrementId(ctx, incrementId)
	if err != nil {
		return nil, err
	}

	deletedAt := time.Now().UTC()
	order.DeletedAt = &deletedAt

	order, err = repo.Save(ctx, *order)
	if err != nil {
		return nil, errors.Wrap(err, ErrorDeleteFailed.Error())
	}

	return order, nil
}
