package sale

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paynet_sale_operations_total",
		Help: "Sale orchestrator operations by outcome.",
	}, []string{"operation", "result"})

	gatewayErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paynet_gateway_errors_total",
		Help: "Failed gateway calls which led to order cancellation.",
	})
)
