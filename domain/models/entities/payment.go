package entities

import "time"

const (
	TransactionTypePayment string = "payment"
)

// Payment holds card data for an order. CcNumber and CcCid carry plaintext
// only between AssignData and PrepareSave, the persisted form is the
// encrypted pair.
type Payment struct {
	CcOwner      string               `bson:"ccOwner"`
	CcNumber     string               `bson:"-"`
	CcCid        string               `bson:"-"`
	CcNumberEnc  string               `bson:"ccNumberEnc"`
	CcCidEnc     string               `bson:"ccCidEnc"`
	CcExpMonth   int                  `bson:"ccExpMonth"`
	CcExpYear    int                  `bson:"ccExpYear"`
	LastTransId  string               `bson:"lastTransId"`
	IsClosed     bool                 `bson:"isClosed"`
	Transactions []PaymentTransaction `bson:"transactions"`
}

type PaymentTransaction struct {
	RecordId  string    `bson:"recordId"`
	TxnId     string    `bson:"txnId"`
	Type      string    `bson:"type"`
	IsClosed  bool      `bson:"isClosed"`
	CreatedAt time.Time `bson:"createdAt"`
}
