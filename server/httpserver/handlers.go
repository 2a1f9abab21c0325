package http_server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
	order_repository "github.com/ecomia/paynet-sale-service/domain/models/repository/order"
	"github.com/ecomia/paynet-sale-service/domain/sale"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
	gateway_service "github.com/ecomia/paynet-sale-service/infrastructure/services/gateway"
)

type moneyView struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type customerView struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ClientIp  string `json:"clientIp"`
}

type addressView struct {
	Country    string `json:"country"`
	City       string `json:"city"`
	FirstLine  string `json:"firstLine"`
	ZipCode    string `json:"zipCode"`
	Phone      string `json:"phone"`
	RegionCode string `json:"regionCode"`
	Email      string `json:"email"`
}

type cardView struct {
	Owner    string `json:"owner"`
	Number   string `json:"number"`
	Cvv      string `json:"cvv"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
}

type createOrderRequest struct {
	IncrementId    string       `json:"incrementId"`
	GrandTotal     moneyView    `json:"grandTotal"`
	Customer       customerView `json:"customer"`
	BillingAddress addressView  `json:"billingAddress"`
	Card           cardView     `json:"card"`
}

type orderView struct {
	IncrementId   string    `json:"incrementId"`
	Status        string    `json:"status"`
	StatusReason  string    `json:"statusReason,omitempty"`
	GrandTotal    moneyView `json:"grandTotal"`
	PaymentMethod string    `json:"paymentMethod"`
	PaynetOrderId string    `json:"paynetOrderId,omitempty"`
	RedirectUrl   string    `json:"redirectUrl,omitempty"`
}

type saleView struct {
	Type              string `json:"type"`
	Status            string `json:"status"`
	PaynetOrderId     string `json:"paynetOrderId,omitempty"`
	ErrorCode         string `json:"errorCode,omitempty"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
	Html              string `json:"html,omitempty"`
	RedirectUrl       string `json:"redirectUrl,omitempty"`
	NeedsStatusUpdate bool   `json:"needsStatusUpdate"`
}

type callbackView struct {
	OrderId           string `json:"orderId"`
	OrderStatus       string `json:"orderStatus"`
	TransactionStatus string `json:"transactionStatus,omitempty"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
}

type errorView struct {
	Error string `json:"error"`
}

func (server *Server) ordersHandler(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writeError(writer, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body createOrderRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.IncrementId == "" || body.GrandTotal.Amount == "" ||
		body.Card.Number == "" || body.BillingAddress.Email == "" {
		writeError(writer, http.StatusBadRequest,
			"incrementId, grandTotal.amount, card.number and billingAddress.email are required")
		return
	}

	exists, err := server.orderRepository.ExistsByIncrementId(request.Context(), body.IncrementId)
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "order lookup failed")
		return
	}
	if exists {
		writeError(writer, http.StatusConflict, "order already exists")
		return
	}

	order := &entities.Order{
		IncrementId: body.IncrementId,
		Customer: entities.CustomerInfo{
			Email:     body.Customer.Email,
			FirstName: body.Customer.FirstName,
			LastName:  body.Customer.LastName,
			ClientIp:  body.Customer.ClientIp,
		},
		BillingAddress: entities.AddressInfo{
			Country:    body.BillingAddress.Country,
			City:       body.BillingAddress.City,
			FirstLine:  body.BillingAddress.FirstLine,
			ZipCode:    body.BillingAddress.ZipCode,
			Phone:      body.BillingAddress.Phone,
			RegionCode: body.BillingAddress.RegionCode,
			Email:      body.BillingAddress.Email,
		},
		Invoice: entities.Invoice{
			GrandTotal: entities.Money{
				Amount:   body.GrandTotal.Amount,
				Currency: body.GrandTotal.Currency,
			},
		},
	}

	if err := server.saleOrchestrator.AssignData(order, sale.CardData{
		CcOwner:    body.Card.Owner,
		CcNumber:   body.Card.Number,
		CcCid:      body.Card.Cvv,
		CcExpMonth: body.Card.ExpMonth,
		CcExpYear:  body.Card.ExpYear,
	}); err != nil {
		writeError(writer, http.StatusBadRequest, err.Error())
		return
	}

	if err := server.saleOrchestrator.PrepareSave(order); err != nil {
		applog.Err("prepare save failed, oid: %s, error: %s", order.IncrementId, err.Error())
		writeError(writer, http.StatusInternalServerError, "storing card data failed")
		return
	}

	saved, err := server.saleOrchestrator.Initialize(request.Context(), order)
	if err != nil {
		applog.Err("initialize order failed, oid: %s, error: %s", order.IncrementId, err.Error())
		writeError(writer, http.StatusInternalServerError, "creating order failed")
		return
	}

	view := orderToView(saved)
	view.RedirectUrl = server.saleOrchestrator.GetRedirectURL()
	writeJSON(writer, http.StatusCreated, view)
}

func (server *Server) orderActionsHandler(writer http.ResponseWriter, request *http.Request) {
	rest := strings.TrimPrefix(request.URL.Path, "/api/v1/orders/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(segments) == 1 && segments[0] != "" && request.Method == http.MethodGet:
		server.getOrder(writer, request, segments[0])
	case len(segments) == 2 && segments[1] == "sale" && request.Method == http.MethodPost:
		server.startSale(writer, request, segments[0])
	case len(segments) == 2 && segments[1] == "status" && request.Method == http.MethodPost:
		server.updateStatus(writer, request, segments[0])
	default:
		writeError(writer, http.StatusNotFound, "not found")
	}
}

func (server *Server) getOrder(writer http.ResponseWriter, request *http.Request, orderId string) {
	order, err := server.orderRepository.FindByIncrementId(request.Context(), orderId)
	if err != nil {
		if errors.Cause(err) == order_repository.ErrorOrderNotFound {
			writeError(writer, http.StatusNotFound, "order not found")
			return
		}
		writeError(writer, http.StatusInternalServerError, "order lookup failed")
		return
	}
	writeJSON(writer, http.StatusOK, orderToView(order))
}

func (server *Server) startSale(writer http.ResponseWriter, request *http.Request, orderId string) {
	callbackUrl := server.callbackUrlBase + "/paynet/callback/" + orderId
	response, err := server.saleOrchestrator.StartSale(request.Context(), orderId, callbackUrl)
	if err != nil {
		writeOperationError(writer, orderId, "start sale", err)
		return
	}
	writeJSON(writer, http.StatusOK, saleToView(response))
}

func (server *Server) updateStatus(writer http.ResponseWriter, request *http.Request, orderId string) {
	response, err := server.saleOrchestrator.UpdateStatus(request.Context(), orderId)
	if err != nil {
		writeOperationError(writer, orderId, "update status", err)
		return
	}
	writeJSON(writer, http.StatusOK, saleToView(response))
}

// callbackHandler is the customer-return endpoint the gateway redirects to.
// The raw form fields go to FinishSale untouched, signature checking happens
// there. When a redirect base is configured the customer is forwarded to the
// storefront result page, otherwise the outcome is returned as json.
func (server *Server) callbackHandler(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writeError(writer, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orderId := strings.Trim(strings.TrimPrefix(request.URL.Path, "/paynet/callback/"), "/")
	if orderId == "" || strings.Contains(orderId, "/") {
		writeError(writer, http.StatusNotFound, "not found")
		return
	}

	if err := request.ParseForm(); err != nil {
		writeError(writer, http.StatusBadRequest, "invalid form body")
		return
	}
	rawCallback := make(map[string]string, len(request.PostForm))
	for key, values := range request.PostForm {
		if len(values) > 0 {
			rawCallback[key] = values[0]
		}
	}

	callbackResponse, order, err := server.saleOrchestrator.FinishSale(request.Context(), orderId, rawCallback)
	if err != nil {
		if errors.Cause(err) == order_repository.ErrorOrderNotFound {
			writeError(writer, http.StatusNotFound, "order not found")
			return
		}
		applog.Warn("finish sale rejected, oid: %s, error: %s", orderId, err.Error())
		writeError(writer, http.StatusBadRequest, "callback rejected")
		return
	}

	if server.redirectUrlBase != "" {
		target := server.redirectUrlBase + "/checkout/failure"
		if order.Status == entities.StateCompleted {
			target = server.redirectUrlBase + "/checkout/success"
		}
		http.Redirect(writer, request, target, http.StatusFound)
		return
	}

	view := callbackView{
		OrderId:      order.IncrementId,
		OrderStatus:  string(order.Status),
		ErrorMessage: order.StatusReason,
	}
	if callbackResponse != nil {
		view.TransactionStatus = callbackResponse.Status
		view.ErrorMessage = callbackResponse.ErrorMessage
	}
	writeJSON(writer, http.StatusOK, view)
}

func (server *Server) healthHandler(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(`{"status":"up"}`))
}

func writeOperationError(writer http.ResponseWriter, orderId, operation string, err error) {
	applog.Err("%s failed, oid: %s, error: %s", operation, orderId, err.Error())
	if errors.Cause(err) == order_repository.ErrorOrderNotFound {
		writeError(writer, http.StatusNotFound, "order not found")
		return
	}
	writeError(writer, http.StatusBadGateway, operation+" failed")
}

func orderToView(order *entities.Order) orderView {
	view := orderView{
		IncrementId:  order.IncrementId,
		Status:       string(order.Status),
		StatusReason: order.StatusReason,
		GrandTotal: moneyView{
			Amount:   order.Invoice.GrandTotal.Amount,
			Currency: order.Invoice.GrandTotal.Currency,
		},
		PaymentMethod: order.Invoice.PaymentMethod,
	}
	if order.Payment != nil {
		view.PaynetOrderId = order.Payment.LastTransId
	}
	return view
}

func writeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		applog.Err("write json response failed, error: %s", err.Error())
	}
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, errorView{Error: message})
}

func saleToView(response *gateway_service.Response) saleView {
	return saleView{
		Type:              response.Type,
		Status:            response.Status,
		PaynetOrderId:     response.PaynetOrderId,
		ErrorCode:         response.ErrorCode,
		ErrorMessage:      response.ErrorMessage,
		Html:              response.Html,
		RedirectUrl:       response.RedirectUrl,
		NeedsStatusUpdate: response.IsStatusUpdateNeeded(),
	}
}
