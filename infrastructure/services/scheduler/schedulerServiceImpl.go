package scheduler_service

import (
	"context"
	"sync"
	"time"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/sale"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
	worker_pool "github.com/ecomia/paynet-sale-service/infrastructure/workerPool"
)

type iSchedulerServiceImpl struct {
	orderRepository   order_repository.IOrderRepository
	saleOrchestrator  sale.ISaleOrchestrator
	workerPool        worker_pool.IWorkerPool
	schedulerInterval time.Duration
	workerTimeout     time.Duration
	pendingOlderThan  time.Duration
	batchLimit        int64
}

func NewSchedulerService(orderRepository order_repository.IOrderRepository,
	saleOrchestrator sale.ISaleOrchestrator, workerPool worker_pool.IWorkerPool,
	schedulerInterval, workerTimeout, pendingOlderThan time.Duration,
	batchLimit int64) ISchedulerService {
	return &iSchedulerServiceImpl{
		orderRepository:   orderRepository,
		saleOrchestrator:  saleOrchestrator,
		workerPool:        workerPool,
		schedulerInterval: schedulerInterval,
		workerTimeout:     workerTimeout,
		pendingOlderThan:  pendingOlderThan,
		batchLimit:        batchLimit,
	}
}

func (scheduler *iSchedulerServiceImpl) Scheduler(ctx context.Context) {
	applog.Debug("scheduler started, interval: %s, pendingOlderThan: %s",
		scheduler.schedulerInterval, scheduler.pendingOlderThan)

	scheduleTimer := time.NewTimer(scheduler.schedulerInterval)
	defer scheduleTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			applog.Debug("scheduler context down, cause: %v", ctx.Err())
			return
		case <-scheduleTimer.C:
			scheduler.doProcess(ctx)
			scheduleTimer.Reset(scheduler.schedulerInterval)
		}
	}
}

func (scheduler *iSchedulerServiceImpl) doProcess(ctx context.Context) {
	updatedBefore := time.Now().UTC().Add(-scheduler.pendingOlderThan)
	orders, err := scheduler.orderRepository.FindByStatus(ctx, entities.StatePendingPayment,
		updatedBefore, scheduler.batchLimit)
	if err != nil {
		applog.Err("scheduler FindByStatus failed, error: %v", err)
		return
	}

	if len(orders) == 0 {
		return
	}

	var waitGroup sync.WaitGroup
	for _, order := range orders {
		if order.Payment == nil || order.Payment.LastTransId == "" {
			// sale never reached the gateway, nothing to poll yet
			continue
		}

		incrementId := order.IncrementId
		waitGroup.Add(1)
		task := func() {
			defer waitGroup.Done()
			workerCtx, cancel := context.WithTimeout(ctx, scheduler.workerTimeout)
			defer cancel()
			if _, err := scheduler.saleOrchestrator.UpdateStatus(workerCtx, incrementId); err != nil {
				applog.Err("scheduler UpdateStatus failed, orderId: %s, error: %v",
					incrementId, err)
			}
		}

		if err := scheduler.workerPool.SubmitTask(task); err != nil {
			waitGroup.Done()
			applog.Err("scheduler SubmitTask failed, orderId: %s, error: %v",
				incrementId, err)
		}
	}
	waitGroup.Wait()
}
