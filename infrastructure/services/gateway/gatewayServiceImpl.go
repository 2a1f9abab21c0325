package gateway_service

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ecomia/paynet-sale-service/domain/paynet"
	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
)

const (
	defaultTimeout = 30 * time.Second
)

type iGatewayServiceImpl struct {
	httpClient *http.Client
}

func NewGatewayService(timeout time.Duration) IGatewayService {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &iGatewayServiceImpl{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (gateway iGatewayServiceImpl) Execute(ctx context.Context, query string, txn *paynet.PaymentTransaction) (*Response, error) {
	var form url.Values
	switch query {
	case QuerySale:
		form = saleForm(txn)
	case QueryStatus:
		form = statusForm(txn)
	default:
		return nil, errors.Errorf("unknown gateway query '%s'", query)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", strings.TrimRight(txn.QueryConfig.GatewayUrl(), "/"), query, txn.QueryConfig.EndpointId)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request failed", query)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResponse, err := gateway.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "%s query to gateway failed, clientOrderId: %s", query, txn.Payment.ClientId)
	}
	defer func() { _ = httpResponse.Body.Close() }()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response failed, clientOrderId: %s", query, txn.Payment.ClientId)
	}

	if httpResponse.StatusCode != http.StatusOK {
		return nil, errors.Errorf("gateway returned http %d for %s query, clientOrderId: %s",
			httpResponse.StatusCode, query, txn.Payment.ClientId)
	}

	response, err := parseResponse(string(body))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s response failed, clientOrderId: %s", query, txn.Payment.ClientId)
	}

	if response.Type == "validation-error" || response.Type == "error" {
		return nil, errors.Errorf("gateway rejected %s query: %s, clientOrderId: %s",
			query, response.ErrorMessage, txn.Payment.ClientId)
	}

	applyResponse(response, txn)

	applog.Audit("gateway %s query executed, clientOrderId: %s, paynetOrderId: %s, status: %s",
		query, txn.Payment.ClientId, response.PaynetOrderId, response.Status)

	return response, nil
}

func (gateway iGatewayServiceImpl) ProcessCustomerReturn(ctx context.Context, rawCallback map[string]string, txn *paynet.PaymentTransaction) (*CallbackResponse, error) {
	for _, field := range []string{"status", "orderid", "merchant_order", "client_orderid", "control"} {
		if rawCallback[field] == "" {
			return nil, errors.Errorf("callback field '%s' is missing, clientOrderId: %s", field, txn.Payment.ClientId)
		}
	}

	if rawCallback["client_orderid"] != txn.Payment.ClientId {
		return nil, errors.Errorf("callback client order id '%s' does not match expected '%s'",
			rawCallback["client_orderid"], txn.Payment.ClientId)
	}

	expected := signCallback(rawCallback, txn.QueryConfig.SigningKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(rawCallback["control"]))) != 1 {
		return nil, errors.Errorf("callback control code check failed, clientOrderId: %s", txn.Payment.ClientId)
	}

	status := rawCallback["status"]
	txn.Payment.PaynetId = rawCallback["orderid"]
	if message := rawCallback["error_message"]; message != "" {
		txn.SetLastError(rawCallback["error_code"], message)
	}
	txn.SetStatus(statusFromGateway(status))

	applog.Audit("customer return processed, clientOrderId: %s, paynetOrderId: %s, status: %s",
		txn.Payment.ClientId, rawCallback["orderid"], status)

	return &CallbackResponse{
		Status:          status,
		PaynetOrderId:   rawCallback["orderid"],
		MerchantOrderId: rawCallback["merchant_order"],
		Amount:          rawCallback["amount"],
		ErrorMessage:    rawCallback["error_message"],
		Raw:             rawCallback,
	}, nil
}

func saleForm(txn *paynet.PaymentTransaction) url.Values {
	payment := txn.Payment
	config := txn.QueryConfig

	form := url.Values{}
	form.Set("client_orderid", payment.ClientId)
	form.Set("order_desc", payment.Description)
	form.Set("amount", payment.Amount.StringFixed(2))
	form.Set("currency", payment.Currency)

	form.Set("address1", payment.BillingAddress.FirstLine)
	form.Set("city", payment.BillingAddress.City)
	form.Set("zip_code", payment.BillingAddress.ZipCode)
	form.Set("country", payment.BillingAddress.Country)
	form.Set("phone", payment.BillingAddress.Phone)
	if payment.BillingAddress.State != "" {
		form.Set("state", payment.BillingAddress.State)
	}

	form.Set("email", payment.Customer.Email)
	form.Set("first_name", payment.Customer.FirstName)
	form.Set("last_name", payment.Customer.LastName)
	form.Set("ipaddress", payment.Customer.IpAddress)

	form.Set("card_printed_name", payment.CreditCard.CardPrintedName)
	form.Set("credit_card_number", payment.CreditCard.CreditCardNumber)
	form.Set("expire_month", strconv.Itoa(payment.CreditCard.ExpireMonth))
	form.Set("expire_year", fmt.Sprintf("%02d", payment.CreditCard.ExpireYear))
	form.Set("cvv2", payment.CreditCard.Cvv2)

	if config.RedirectUrl != "" {
		form.Set("redirect_url", config.RedirectUrl)
	}
	if config.CallbackUrl != "" {
		form.Set("server_callback_url", config.CallbackUrl)
	}

	form.Set("control", signSale(txn))
	return form
}

func statusForm(txn *paynet.PaymentTransaction) url.Values {
	form := url.Values{}
	form.Set("login", txn.QueryConfig.Login)
	form.Set("client_orderid", txn.Payment.ClientId)
	form.Set("orderid", txn.Payment.PaynetId)
	form.Set("control", signStatus(txn))
	return form
}

// Control strings follow the gateway protocol: the sha1 hex digest of the
// concatenated identifying fields and the merchant signing key.
func signSale(txn *paynet.PaymentTransaction) string {
	return sha1Hex(
		txn.QueryConfig.EndpointId +
			txn.Payment.ClientId +
			strconv.FormatInt(txn.Payment.AmountInCents(), 10) +
			txn.Payment.Customer.Email +
			txn.QueryConfig.SigningKey)
}

func signStatus(txn *paynet.PaymentTransaction) string {
	return sha1Hex(
		txn.QueryConfig.Login +
			txn.Payment.ClientId +
			txn.Payment.PaynetId +
			txn.QueryConfig.SigningKey)
}

func signCallback(rawCallback map[string]string, signingKey string) string {
	return sha1Hex(
		rawCallback["status"] +
			rawCallback["orderid"] +
			rawCallback["client_orderid"] +
			signingKey)
}

func sha1Hex(value string) string {
	digest := sha1.Sum([]byte(value))
	return hex.EncodeToString(digest[:])
}

func parseResponse(body string) (*Response, error) {
	values, err := url.ParseQuery(strings.TrimSpace(body))
	if err != nil {
		return nil, errors.Wrap(err, "gateway response is not form encoded")
	}

	return &Response{
		Type:            values.Get("type"),
		Status:          values.Get("status"),
		PaynetOrderId:   values.Get("paynet-order-id"),
		MerchantOrderId: values.Get("merchant-order-id"),
		SerialNumber:    values.Get("serial-number"),
		ErrorCode:       values.Get("error-code"),
		ErrorMessage:    values.Get("error-message"),
		Html:            values.Get("html"),
		RedirectUrl:     values.Get("redirect-url"),
	}, nil
}

func applyResponse(response *Response, txn *paynet.PaymentTransaction) {
	if response.PaynetOrderId != "" {
		txn.Payment.PaynetId = response.PaynetOrderId
	}
	if response.ErrorMessage != "" {
		txn.SetLastError(response.ErrorCode, response.ErrorMessage)
	}
	if response.Status != "" {
		txn.SetStatus(statusFromGateway(response.Status))
	}
}

// statusFromGateway maps the gateway's wire status onto the transaction
// status classification. The orchestrator only ever asks approved / finished
// / still pending, so unknown statuses stay in processing.
func statusFromGateway(status string) paynet.TransactionStatus {
	switch status {
	case "approved":
		return paynet.StatusApproved
	case "declined":
		return paynet.StatusDeclined
	case "error":
		return paynet.StatusError
	case "filtered":
		return paynet.StatusFiltered
	case "processing":
		return paynet.StatusProcessing
	default:
		return paynet.StatusProcessing
	}
}
