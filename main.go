package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecomia/paynet-sale-service/app"
	"github.com/ecomia/paynet-sale-service/configs"
	"github.com/ecomia/paynet-sale-service/domain/lifecycle"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/paynet"
	"github.com/ecomia/paynet-sale-service/domain/sale"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
	"github.com/ecomia/paynet-sale-service/infrastructure/secret"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
	notify_service "github.com/ecomia/paynet-sale-service/infrastructure/services/notification"
	scheduler_service "github.com/ecomia/paynet-sale-service/infrastructure/services/scheduler"
	worker_pool "github.com/ecomia/paynet-sale-service/infrastructure/workerPool"
	http_server "github.com/ecomia/paynet-sale-service/server/httpserver"
)

var MainApp struct {
	httpServer       *http_server.Server
	schedulerService scheduler_service.ISchedulerService
}

func main() {
	var err error
	if os.Getenv("APP_ENV") == "dev" {
		app.Globals.Config, err = configs.LoadConfig("./testdata/.env")
	} else {
		app.Globals.Config, err = configs.LoadConfig("")
	}
	if err != nil {
		applog.Err("LoadConfig of main init failed, error: %s", err.Error())
		os.Exit(1)
	}
	config := app.Globals.Config

	app.Globals.MongoClient, err = app.SetupMongoDriver(*config)
	if err != nil {
		applog.Err("main SetupMongoDriver failed, configs: %v, error: %s", config.Mongo, err.Error())
		os.Exit(1)
	}

	app.Globals.OrderRepository, err = order_repository.NewOrderRepository(app.Globals.MongoClient,
		config.Mongo.Database, config.Mongo.Collection)
	if err != nil {
		applog.Err("order repository init failed, error: %s", err.Error())
		os.Exit(1)
	}

	app.Globals.Crypter, err = secret.NewCrypter(config.Secret.CardEncryptionKey)
	if err != nil {
		applog.Err("card crypter init failed, error: %s", err.Error())
		os.Exit(1)
	}

	app.Globals.GatewayService = gateway_service.NewGatewayService(
		time.Duration(config.PaynetGateway.Timeout) * time.Second)

	if config.Notification.MockEnabled {
		app.Globals.NotifyService = notify_service.NewNotificationServiceMock()
	} else {
		app.Globals.NotifyService = notify_service.NewNotificationService(
			config.Notification.SmtpHost, config.Notification.SmtpPort,
			config.Notification.SmtpUser, config.Notification.SmtpPass,
			config.Notification.FromAddress)
	}

	app.Globals.OrderLifecycle = lifecycle.NewOrderLifecycle(app.Globals.OrderRepository,
		app.Globals.NotifyService, config.App.StoreName)

	queryConfig := paynet.QueryConfig{
		EndpointId:           config.PaynetGateway.EndpointId,
		Login:                config.PaynetGateway.MerchantLogin,
		SigningKey:           config.PaynetGateway.MerchantKey,
		GatewayMode:          paynet.GatewayMode(config.PaynetGateway.GatewayMode),
		GatewayUrlSandbox:    config.PaynetGateway.SandboxUrl,
		GatewayUrlProduction: config.PaynetGateway.ProductionUrl,
	}

	app.Globals.SaleOrchestrator = sale.NewSaleOrchestrator(app.Globals.OrderRepository,
		app.Globals.GatewayService, app.Globals.OrderLifecycle, app.Globals.Crypter,
		queryConfig, config.App.StoreName, config.App.RedirectUrlBase)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.Scheduler.Enabled {
		app.Globals.WorkerPool, err = worker_pool.FactoryOf(config.Scheduler.WorkerPoolSize)
		if err != nil {
			applog.Err("worker pool init failed, error: %s", err.Error())
			os.Exit(1)
		}

		MainApp.schedulerService = scheduler_service.NewSchedulerService(
			app.Globals.OrderRepository, app.Globals.SaleOrchestrator, app.Globals.WorkerPool,
			time.Duration(config.Scheduler.IntervalSeconds)*time.Second,
			time.Duration(config.Scheduler.WorkerTimeout)*time.Second,
			time.Duration(config.Scheduler.PendingOlderThan)*time.Second,
			int64(config.Scheduler.PendingBatchLimit))
		go MainApp.schedulerService.Scheduler(ctx)
	}

	MainApp.httpServer = http_server.NewServer(config.HTTPServer.Address, config.HTTPServer.Port,
		app.Globals.SaleOrchestrator, app.Globals.OrderRepository,
		config.App.CallbackUrlBase, config.App.RedirectUrlBase)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		sig := <-signals
		applog.Audit("shutdown signal received: %s", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := MainApp.httpServer.Shutdown(shutdownCtx); err != nil {
			applog.Err("http server shutdown failed, error: %s", err.Error())
		}
		if app.Globals.WorkerPool != nil {
			app.Globals.WorkerPool.Shutdown()
		}
	}()

	if err := MainApp.httpServer.Start(); err != nil {
		applog.Err("http server failed, error: %s", err.Error())
		os.Exit(1)
	}
}
