package collection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	// DefaultPlanName is the billing plan before any upgrade.
	DefaultPlanName = "Starter"

	notificationTitleInvoiceAdded = "Invoice Added"
	notificationTitleCardAdded    = "Card Added"
	notificationTitleCardRemoved  = "Card Removed"
	notificationTitlePlanChanged  = "Plan Changed"

	notificationMessageInvoiceAdded = "New billing record has been created"
	notificationMessageCardAdded    = "Payment card has been added successfully"
	notificationMessageCardRemoved  = "Payment card has been removed"
	notificationMessagePlanChanged  = "Your plan has been updated successfully"

	invoiceDocumentTemplate = `
INVOICE

Invoice ID: %s
Date: %s
Amount: %s
Status: %s
Details: %s
Plan: %s

Thank you for your business!
`

	logEventSaveBilling = "save_billing"
)

// Billing manages invoices, payment cards and the current plan. Invoices are
// immutable once created; cards are addressed by position.
type Billing struct {
	persistedStore store.Store
	notifier       Notifier
	logger         *zap.Logger
	clock          func() time.Time
}

// NewBilling creates the billing collection service.
func NewBilling(persistedStore store.Store, notifier Notifier, logger *zap.Logger) *Billing {
	return &Billing{persistedStore: persistedStore, notifier: notifier, logger: logger, clock: time.Now}
}

// WithClock overrides the invoice-date clock, primarily for tests.
func (billing *Billing) WithClock(clock func() time.Time) *Billing {
	billing.clock = clock
	return billing
}

// ListInvoices returns the owner's invoices, most recent first.
func (billing *Billing) ListInvoices(ctx context.Context, ownerID string) ([]model.Invoice, error) {
	return loadList[model.Invoice](ctx, billing.persistedStore, ownerID, store.KeyInvoices)
}

// AddInvoice creates an invoice dated now and prepends it.
func (billing *Billing) AddInvoice(ctx context.Context, ownerID string, input model.InvoiceInput) (model.Invoice, error) {
	allInvoices, loadErr := loadList[model.Invoice](ctx, billing.persistedStore, ownerID, store.KeyInvoices)
	if loadErr != nil {
		return model.Invoice{}, loadErr
	}

	newInvoice, constructErr := model.NewInvoice(input, len(allInvoices), billing.clock())
	if constructErr != nil {
		return model.Invoice{}, constructErr
	}

	if saveErr := billing.persistedStore.Set(ctx, ownerID, store.KeyInvoices, prepend(allInvoices, newInvoice)); saveErr != nil {
		billing.logger.Warn(logEventSaveBilling, zap.Error(saveErr))
		return model.Invoice{}, saveErr
	}

	billing.notifier.Success(ownerID, notificationTitleInvoiceAdded, notificationMessageInvoiceAdded)
	return newInvoice, nil
}

// DeleteInvoice removes the identified invoice. No delete surface exists in
// the dashboard, but removal is permitted at the data level; an absent
// identifier is a silent no-op.
func (billing *Billing) DeleteInvoice(ctx context.Context, ownerID string, invoiceID string) error {
	allInvoices, loadErr := loadList[model.Invoice](ctx, billing.persistedStore, ownerID, store.KeyInvoices)
	if loadErr != nil {
		return loadErr
	}

	remaining := make([]model.Invoice, 0, len(allInvoices))
	removed := false
	for _, invoice := range allInvoices {
		if invoice.ID == invoiceID {
			removed = true
			continue
		}
		remaining = append(remaining, invoice)
	}
	if !removed {
		return nil
	}

	if saveErr := billing.persistedStore.Set(ctx, ownerID, store.KeyInvoices, remaining); saveErr != nil {
		billing.logger.Warn(logEventSaveBilling, zap.Error(saveErr))
		return saveErr
	}
	return nil
}

// FindInvoice looks up one invoice by identifier.
func (billing *Billing) FindInvoice(ctx context.Context, ownerID string, invoiceID string) (model.Invoice, bool, error) {
	allInvoices, loadErr := loadList[model.Invoice](ctx, billing.persistedStore, ownerID, store.KeyInvoices)
	if loadErr != nil {
		return model.Invoice{}, false, loadErr
	}
	for _, invoice := range allInvoices {
		if invoice.ID == invoiceID {
			return invoice, true, nil
		}
	}
	return model.Invoice{}, false, nil
}

// RenderInvoiceDocument produces the downloadable text rendition of an invoice.
func (billing *Billing) RenderInvoiceDocument(ctx context.Context, ownerID string, invoice model.Invoice) (string, error) {
	currentPlan, planErr := billing.CurrentPlan(ctx, ownerID)
	if planErr != nil {
		return "", planErr
	}

	details := invoice.Details
	if strings.TrimSpace(details) == "" {
		details = "N/A"
	}
	return fmt.Sprintf(invoiceDocumentTemplate, invoice.ID, invoice.Date, invoice.Amount, invoice.Status, details, currentPlan), nil
}

// ListCards returns the stored payment cards in insertion order.
func (billing *Billing) ListCards(ctx context.Context, ownerID string) ([]model.PaymentCard, error) {
	return loadList[model.PaymentCard](ctx, billing.persistedStore, ownerID, store.KeyCards)
}

// AddCard appends a payment card.
func (billing *Billing) AddCard(ctx context.Context, ownerID string, number string, expiry string) (model.PaymentCard, error) {
	newCard, constructErr := model.NewPaymentCard(number, expiry)
	if constructErr != nil {
		return model.PaymentCard{}, constructErr
	}

	allCards, loadErr := loadList[model.PaymentCard](ctx, billing.persistedStore, ownerID, store.KeyCards)
	if loadErr != nil {
		return model.PaymentCard{}, loadErr
	}

	if saveErr := billing.persistedStore.Set(ctx, ownerID, store.KeyCards, append(allCards, newCard)); saveErr != nil {
		billing.logger.Warn(logEventSaveBilling, zap.Error(saveErr))
		return model.PaymentCard{}, saveErr
	}

	billing.notifier.Success(ownerID, notificationTitleCardAdded, notificationMessageCardAdded)
	return newCard, nil
}

// RemoveCard deletes the card at the given position. An out-of-range index is
// a silent no-op.
func (billing *Billing) RemoveCard(ctx context.Context, ownerID string, cardIndex int) error {
	allCards, loadErr := loadList[model.PaymentCard](ctx, billing.persistedStore, ownerID, store.KeyCards)
	if loadErr != nil {
		return loadErr
	}
	if cardIndex < 0 || cardIndex >= len(allCards) {
		return nil
	}

	remaining := append(allCards[:cardIndex:cardIndex], allCards[cardIndex+1:]...)
	if saveErr := billing.persistedStore.Set(ctx, ownerID, store.KeyCards, remaining); saveErr != nil {
		billing.logger.Warn(logEventSaveBilling, zap.Error(saveErr))
		return saveErr
	}

	billing.notifier.Success(ownerID, notificationTitleCardRemoved, notificationMessageCardRemoved)
	return nil
}

// CurrentPlan returns the stored plan name, defaulting to Starter.
func (billing *Billing) CurrentPlan(ctx context.Context, ownerID string) (string, error) {
	planName := DefaultPlanName
	if _, loadErr := store.Load(ctx, billing.persistedStore, ownerID, store.KeyCurrentPlan, &planName); loadErr != nil {
		return "", loadErr
	}
	if strings.TrimSpace(planName) == "" {
		planName = DefaultPlanName
	}
	return planName, nil
}

// SetCurrentPlan stores the plan name.
func (billing *Billing) SetCurrentPlan(ctx context.Context, ownerID string, planName string) error {
	trimmedPlanName := strings.TrimSpace(planName)
	if trimmedPlanName == "" {
		trimmedPlanName = DefaultPlanName
	}
	if saveErr := billing.persistedStore.Set(ctx, ownerID, store.KeyCurrentPlan, trimmedPlanName); saveErr != nil {
		billing.logger.Warn(logEventSaveBilling, zap.Error(saveErr))
		return saveErr
	}
	billing.notifier.Success(ownerID, notificationTitlePlanChanged, notificationMessagePlanChanged)
	return nil
}
