package entities

import (
	"time"
)

const (
	DocumentVersion string = "1.0.0"
)

type State string

const (
	StatePendingPayment State = "pending_payment"
	StateProcessing     State = "processing"
	StateCompleted      State = "completed"
	StateCancelled      State = "cancelled"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (state State) IsTerminal() bool {
	return state == StateCompleted || state == StateCancelled
}

type Order struct {
	IncrementId    string       `bson:"incrementId"`
	Version        uint64       `bson:"version"`
	DocVersion     string       `bson:"docVersion"`
	Status         State        `bson:"status"`
	StatusReason   string       `bson:"statusReason"`
	IsNotified     bool         `bson:"isNotified"`
	Invoice        Invoice      `bson:"invoice"`
	Customer       CustomerInfo `bson:"customer"`
	BillingAddress AddressInfo  `bson:"billingAddress"`
	Payment        *Payment     `bson:"payment"`
	CreatedAt      time.Time    `bson:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt"`
	DeletedAt      *time.Time   `bson:"deletedAt"`
}

type Invoice struct {
	GrandTotal     Money  `bson:"grandTotal"`
	PaymentMethod  string `bson:"paymentMethod"`
	PaymentGateway string `bson:"paymentGateway"`
}

type Money struct {
	Amount   string `bson:"amount"`
	Currency string `bson:"cur"`
}

// IsPersisted reports whether the order has been stored before. CreatedAt is
// set exactly once, by the repository insert, and survives bson decoding.
func (order Order) IsPersisted() bool {
	return !order.CreatedAt.IsZero()
}
