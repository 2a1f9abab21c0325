package paynet

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ecomia/paynet-sale-service/domain/models/entities"
)

// Card is the transient plaintext card block handed to the builder. Callers
// must have decrypted the stored payment fields before this point, the
// builder itself does no decryption.
type Card struct {
	PrintedName string
	Number      string
	ExpireMonth int
	ExpireYear  int
	Cvv2        string
}

// BuildTransaction maps current order state to a fresh gateway transaction.
// Pure function of its inputs, identical inputs produce structurally
// identical transactions.
//
// The redirect url is applied to both the redirect and the callback slot of
// the query config, and only when it passes url validation. The region code
// is included only when it passes region validation.
func BuildTransaction(order *entities.Order, card Card, config QueryConfig, description string, redirectUrl string) (*PaymentTransaction, error) {
	if order == nil {
		return nil, errors.New("order must not be nil")
	}
	if order.Payment == nil {
		return nil, errors.Errorf("order '%s' has no payment", order.IncrementId)
	}

	amount, err := decimal.NewFromString(order.Invoice.GrandTotal.Amount)
	if err != nil {
		return nil, errors.Wrapf(err, "grand total of order '%s' is not a valid amount", order.IncrementId)
	}

	address := BillingAddress{
		Country:   order.BillingAddress.Country,
		City:      order.BillingAddress.City,
		FirstLine: order.BillingAddress.FirstLine,
		ZipCode:   order.BillingAddress.ZipCode,
		Phone:     order.BillingAddress.Phone,
	}

	if ValidateRegionCode(order.BillingAddress.RegionCode) {
		address.State = order.BillingAddress.RegionCode
	}

	customer := Customer{
		Email:     order.BillingAddress.Email,
		FirstName: order.Customer.FirstName,
		LastName:  order.Customer.LastName,
		IpAddress: order.Customer.ClientIp,
	}

	creditCard := CreditCard{
		CardPrintedName:  card.PrintedName,
		CreditCardNumber: card.Number,
		ExpireMonth:      card.ExpireMonth,
		// gateway expects the two-digit year
		ExpireYear: card.ExpireYear % 100,
		Cvv2:       card.Cvv2,
	}

	payment := Payment{
		ClientId:       order.IncrementId,
		PaynetId:       order.Payment.LastTransId,
		Description:    description,
		Amount:         amount,
		Currency:       order.Invoice.GrandTotal.Currency,
		Customer:       customer,
		BillingAddress: address,
		CreditCard:     creditCard,
	}

	if ValidateURL(redirectUrl) {
		config.RedirectUrl = redirectUrl
		config.CallbackUrl = redirectUrl
	} else {
		config.RedirectUrl = ""
		config.CallbackUrl = ""
	}

	return NewTransaction(payment, config), nil
}
