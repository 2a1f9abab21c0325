package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	mongo_options "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ecomia/paynet-sale-service/configs"
	"github.com/ecomia/paynet-sale-service/domain/lifecycle"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/sale"
	"github.com/ecomia/paynet-sale-service/infrastructure/secret"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
	notify_service "github.com/ecomia/paynet-sale-service/infrastructure/services/notification"
	worker_pool "github.com/ecomia/paynet-sale-service/infrastructure/workerPool"
)

type CtxKey int

const (
	CtxRequestID CtxKey = iota
)

var Globals struct {
	MongoClient      *mongo.Client
	Config           *configs.Config
	OrderRepository  order_repository.IOrderRepository
	GatewayService   gateway_service.IGatewayService
	NotifyService    notify_service.INotificationService
	Crypter          secret.ICrypter
	OrderLifecycle   lifecycle.IOrderLifecycle
	SaleOrchestrator sale.ISaleOrchestrator
	WorkerPool       worker_pool.IWorkerPool
}

func SetupMongoDriver(config configs.Config) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%d", config.Mongo.Host, config.Mongo.Port)
	clientOptions := mongo_options.Client().ApplyURI(uri).
		SetConnectTimeout(time.Duration(config.Mongo.ConnectionTimeout) * time.Second).
		SetMaxConnIdleTime(time.Duration(config.Mongo.MaxConnIdleTime) * time.Second).
		SetMaxPoolSize(uint64(config.Mongo.MaxPoolSize)).
		SetMinPoolSize(uint64(config.Mongo.MinPoolSize))

	if config.Mongo.User != "" {
		clientOptions.SetAuth(mongo_options.Credential{
			Username: config.Mongo.User,
			Password: config.Mongo.Pass,
		})
	}

	connCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(config.Mongo.ConnectionTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(connCtx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Connect failed")
	}

	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "mongo ping failed")
	}

	return client, nil
}
