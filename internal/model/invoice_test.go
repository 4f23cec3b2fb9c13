package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	testInvoiceAmountValue      = "29.00"
	testInvoiceDetailsValue     = "Pro plan, monthly"
	testCardNumberValue         = "4242424242424242"
	testCardExpiryValue         = "12/27"
	testCardExpectedMaskedValue = "•••• •••• •••• 4242"
)

var testInvoiceMoment = time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)

func TestNewInvoiceStampsIdentifierAndCurrencyPrefix(t *testing.T) {
	invoice, invoiceErr := model.NewInvoice(model.InvoiceInput{
		Amount:  testInvoiceAmountValue,
		Details: testInvoiceDetailsValue,
	}, 2, testInvoiceMoment)
	require.NoError(t, invoiceErr)

	require.Equal(t, "INV-2024-003", invoice.ID)
	require.Equal(t, "2024-01-20", invoice.Date)
	require.Equal(t, "$29.00", invoice.Amount)
	require.Equal(t, model.InvoiceStatusPaid, invoice.Status)
}

func TestNewInvoiceKeepsExistingCurrencyPrefix(t *testing.T) {
	invoice, invoiceErr := model.NewInvoice(model.InvoiceInput{
		Amount:  "$5.00",
		Details: testInvoiceDetailsValue,
	}, 0, testInvoiceMoment)
	require.NoError(t, invoiceErr)
	require.Equal(t, "$5.00", invoice.Amount)
}

func TestNewInvoiceRequiresAmountAndDetails(t *testing.T) {
	_, amountErr := model.NewInvoice(model.InvoiceInput{Details: testInvoiceDetailsValue}, 0, testInvoiceMoment)
	require.ErrorIs(t, amountErr, model.ErrInvalidInvoiceAmount)

	_, detailsErr := model.NewInvoice(model.InvoiceInput{Amount: testInvoiceAmountValue}, 0, testInvoiceMoment)
	require.ErrorIs(t, detailsErr, model.ErrInvalidInvoiceDetails)
}

func TestNewPaymentCardValidatesFormValues(t *testing.T) {
	card, cardErr := model.NewPaymentCard(testCardNumberValue, testCardExpiryValue)
	require.NoError(t, cardErr)
	require.Equal(t, testCardNumberValue, card.Number)

	_, numberErr := model.NewPaymentCard("  ", testCardExpiryValue)
	require.ErrorIs(t, numberErr, model.ErrInvalidCardNumber)

	_, expiryErr := model.NewPaymentCard(testCardNumberValue, "")
	require.ErrorIs(t, expiryErr, model.ErrInvalidCardExpiry)
}

func TestMaskedNumberKeepsTrailingFourDigits(t *testing.T) {
	card := model.PaymentCard{Number: testCardNumberValue, Expiry: testCardExpiryValue}
	require.Equal(t, testCardExpectedMaskedValue, card.MaskedNumber())

	shortCard := model.PaymentCard{Number: "4242", Expiry: testCardExpiryValue}
	require.Equal(t, "4242", shortCard.MaskedNumber())
}
