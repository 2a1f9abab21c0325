package paynet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status   TransactionStatus
		approved bool
		finished bool
	}{
		{StatusNew, false, false},
		{StatusProcessing, false, false},
		{StatusApproved, true, true},
		{StatusDeclined, false, true},
		{StatusError, false, true},
		{StatusFiltered, false, true},
	}

	for _, c := range cases {
		txn := NewTransaction(Payment{}, QueryConfig{})
		txn.SetStatus(c.status)
		require.Equal(t, c.approved, txn.IsApproved(), "status %s", c.status)
		require.Equal(t, c.finished, txn.IsFinished(), "status %s", c.status)
	}
}

func TestFinishedTransactionIsNotRevived(t *testing.T) {
	txn := NewTransaction(Payment{}, QueryConfig{})
	txn.SetStatus(StatusDeclined)
	txn.SetStatus(StatusProcessing)
	require.Equal(t, StatusDeclined, txn.Status())
}

func TestLastErrorMessageFallback(t *testing.T) {
	txn := NewTransaction(Payment{}, QueryConfig{})
	require.NotEmpty(t, txn.LastErrorMessage())

	txn.SetLastError("2", "card declined")
	require.Equal(t, "card declined", txn.LastErrorMessage())
}

func TestAmountInCents(t *testing.T) {
	payment := Payment{Amount: decimal.RequireFromString("49.99")}
	require.Equal(t, int64(4999), payment.AmountInCents())

	payment = Payment{Amount: decimal.RequireFromString("100")}
	require.Equal(t, int64(10000), payment.AmountInCents())
}

func TestGatewayUrlSelection(t *testing.T) {
	config := QueryConfig{
		GatewayMode:          ModeSandbox,
		GatewayUrlSandbox:    "https://sandbox.gateway.example",
		GatewayUrlProduction: "https://gateway.example",
	}
	require.Equal(t, "https://sandbox.gateway.example", config.GatewayUrl())

	config.GatewayMode = ModeProduction
	require.Equal(t, "https://gateway.example", config.GatewayUrl())
}
