package http_server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/sale"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
)

type Server struct {
	address          string
	port             int
	saleOrchestrator sale.ISaleOrchestrator
	orderRepository  order_repository.IOrderRepository
	callbackUrlBase  string
	redirectUrlBase  string
	httpServer       *http.Server
}

func NewServer(address string, port int,
	saleOrchestrator sale.ISaleOrchestrator,
	orderRepository order_repository.IOrderRepository,
	callbackUrlBase, redirectUrlBase string) *Server {
	server := &Server{
		address:          address,
		port:             port,
		saleOrchestrator: saleOrchestrator,
		orderRepository:  orderRepository,
		callbackUrlBase:  callbackUrlBase,
		redirectUrlBase:  redirectUrlBase,
	}
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", address, port),
		Handler:      server.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return server
}

func (server *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/orders", server.ordersHandler)
	mux.HandleFunc("/api/v1/orders/", server.orderActionsHandler)
	mux.HandleFunc("/paynet/callback/", server.callbackHandler)
	mux.HandleFunc("/health", server.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (server *Server) Start() error {
	applog.Audit("http server listening on %s:%d", server.address, server.port)
	err := server.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (server *Server) Shutdown(ctx context.Context) error {
	return server.httpServer.Shutdown(ctx)
}
