package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceRoutingKey is the routing key of invoice generation intents.
const InvoiceRoutingKey = "invoice.generate"

// InvoiceIntent asks the document system to produce an invoice for a paid booking.
type InvoiceIntent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	ClientID         uuid.UUID `json:"client_id"`
	Amount           float64   `json:"amount"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	RequestedAt      time.Time `json:"requested_at"`
}

type InvoiceSignaler interface {
	RequestInvoice(ctx context.Context, intent InvoiceIntent) error
}

// JSONPublisher is satisfied by the broker publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

type invoicePublisher struct {
	pub JSONPublisher
	log *zap.Logger
}

func NewInvoicePublisher(pub JSONPublisher, log *zap.Logger) InvoiceSignaler {
	if pub == nil {
		return &discardInvoiceSignaler{log: log.With(zap.String("service", "invoice"))}
	}
	return &invoicePublisher{
		pub: pub,
		log: log.With(zap.String("service", "invoice")),
	}
}

func (p *invoicePublisher) RequestInvoice(ctx context.Context, intent InvoiceIntent) error {
	if err := p.pub.PublishJSON(ctx, InvoiceRoutingKey, intent); err != nil {
		return err
	}
	p.log.Info("Invoice requested", zap.String("booking_id", intent.BookingID.String()))
	return nil
}

// discardInvoiceSignaler is used when no broker is configured.
type discardInvoiceSignaler struct {
	log *zap.Logger
}

func (d *discardInvoiceSignaler) RequestInvoice(_ context.Context, intent InvoiceIntent) error {
	d.log.Debug("Invoice intent dropped, no broker configured",
		zap.String("booking_id", intent.BookingID.String()),
	)
	return nil
}
