package worker

// email_worker.go
// Processes invoice email jobs from QueueEmail: renders the order's invoice
// PDF, stores it under the configured path and mails it to the customer.
// The SMTP call goes through a circuit breaker so a dead relay fails fast.

import (
	"context"
	"encoding/json"
	"fmt"

	"shopmate/internal/infra"
	"shopmate/internal/repository"

	"github.com/rs/zerolog/log"
)

// InvoiceSender delivers one invoice email. *infra.Mailer implements it.
type InvoiceSender interface {
	SendInvoice(to, subject, body, pdfPath string) error
}

// EmailWorker processes invoice email jobs.
type EmailWorker struct {
	orders         repository.OrderRepository
	invoices       repository.InvoiceRepository
	sender         InvoiceSender
	cb             *infra.CircuitBreaker
	pdfStoragePath string
}

func NewEmailWorker(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	sender InvoiceSender,
	cb *infra.CircuitBreaker,
	pdfStoragePath string,
) *EmailWorker {
	return &EmailWorker{
		orders:         orders,
		invoices:       invoices,
		sender:         sender,
		cb:             cb,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload InvoiceEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.To == "" {
		log.Warn().Str("order_id", payload.OrderID).Msg("email_worker: empty recipient, skipping")
		return nil
	}

	order, err := w.orders.FindByID(ctx, payload.OrderID, repository.OrderWithCustomer)
	if err != nil {
		return fmt.Errorf("email_worker: load order %s: %w", payload.OrderID, err)
	}
	lines, err := w.invoices.ProductQuantities(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("email_worker: load lines of %s: %w", payload.OrderID, err)
	}

	data, err := infra.RenderInvoicePDF(infra.InvoiceDocument{Order: *order, Customer: order.Customer, Lines: lines})
	if err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	path, err := infra.SaveInvoicePDF(w.pdfStoragePath, order.OrderID, data)
	if err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}

	subject := "Your invoice " + order.OrderID
	body := fmt.Sprintf("Hello,\n\nplease find attached the invoice for order %s.\n", order.OrderID)
	err = w.cb.Execute(func() error {
		return w.sender.SendInvoice(payload.To, subject, body, path)
	})
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.To, err)
	}
	log.Info().Str("order_id", order.OrderID).Str("to", payload.To).Msg("email_worker: invoice sent")
	return nil
}
