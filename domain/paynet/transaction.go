package paynet

import (
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusNew        TransactionStatus = "new"
	StatusProcessing TransactionStatus = "processing"
	StatusApproved   TransactionStatus = "approved"
	StatusDeclined   TransactionStatus = "declined"
	StatusError      TransactionStatus = "error"
	StatusFiltered   TransactionStatus = "filtered"
)

type TransactionError struct {
	Code    string
	Message string
}

// BillingAddress is the gateway-side billing address block. State is set
// only when the region code passed validation.
type BillingAddress struct {
	Country   string
	City      string
	FirstLine string
	ZipCode   string
	Phone     string
	State     string
}

type Customer struct {
	Email     string
	FirstName string
	LastName  string
	IpAddress string
}

type CreditCard struct {
	CardPrintedName  string
	CreditCardNumber string
	ExpireMonth      int
	ExpireYear       int
	Cvv2             string
}

type Payment struct {
	ClientId       string
	PaynetId       string
	Description    string
	Amount         decimal.Decimal
	Currency       string
	Customer       Customer
	BillingAddress BillingAddress
	CreditCard     CreditCard
}

// AmountInCents returns the amount in the gateway's minor units.
func (payment Payment) AmountInCents() int64 {
	return payment.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// PaymentTransaction is the request/response envelope for one gateway query.
// It is built fresh on every orchestrator call and never persisted, only its
// effects on the owning order are.
type PaymentTransaction struct {
	Payment     Payment
	QueryConfig QueryConfig

	status    TransactionStatus
	lastError *TransactionError
}

func NewTransaction(payment Payment, config QueryConfig) *PaymentTransaction {
	return &PaymentTransaction{
		Payment:     payment,
		QueryConfig: config,
		status:      StatusNew,
	}
}

func (txn *PaymentTransaction) Status() TransactionStatus {
	return txn.status
}

// SetStatus advances the transaction status. A finished transaction is never
// revived, late status changes on it are dropped.
func (txn *PaymentTransaction) SetStatus(status TransactionStatus) {
	if txn.IsFinished() {
		return
	}
	txn.status = status
}

func (txn *PaymentTransaction) SetLastError(code, message string) {
	txn.lastError = &TransactionError{Code: code, Message: message}
}

func (txn *PaymentTransaction) LastError() *TransactionError {
	return txn.lastError
}

// LastErrorMessage returns the gateway-reported failure reason, or a generic
// one when the gateway supplied none.
func (txn *PaymentTransaction) LastErrorMessage() string {
	if txn.lastError != nil && txn.lastError.Message != "" {
		return txn.lastError.Message
	}
	return "payment was not approved by gateway"
}

func (txn *PaymentTransaction) IsApproved() bool {
	return txn.status == StatusApproved
}

// IsFinished reports whether the transaction reached a terminal state on the
// gateway side, approved or not.
func (txn *PaymentTransaction) IsFinished() bool {
	switch txn.status {
	case StatusApproved, StatusDeclined, StatusError, StatusFiltered:
		return true
	default:
		return false
	}
}
