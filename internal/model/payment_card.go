package model

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCardNumber = errors.New("invalid_card_number")
	ErrInvalidCardExpiry = errors.New("invalid_card_expiry")
)

// PaymentCard is one stored payment method. Cards have no identifier; the
// collection addresses them by position.
type PaymentCard struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

// NewPaymentCard constructs a card from the add-card form values.
func NewPaymentCard(number string, expiry string) (PaymentCard, error) {
	trimmedNumber := strings.TrimSpace(number)
	if trimmedNumber == "" {
		return PaymentCard{}, ErrInvalidCardNumber
	}
	trimmedExpiry := strings.TrimSpace(expiry)
	if trimmedExpiry == "" {
		return PaymentCard{}, ErrInvalidCardExpiry
	}
	return PaymentCard{Number: trimmedNumber, Expiry: trimmedExpiry}, nil
}

// MaskedNumber keeps only the trailing four digits for display.
func (card PaymentCard) MaskedNumber() string {
	if len(card.Number) <= 4 {
		return card.Number
	}
	return "•••• •••• •••• " + card.Number[len(card.Number)-4:]
}
