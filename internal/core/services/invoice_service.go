package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/flowlance/finplan_backend/internal/utils/invoicing"
	"github.com/google/uuid"
)

// invoiceService implements invoice lifecycle management. Creation is the
// single place an invoice number is requested, so the gapless counters stay
// gapless.
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepository
	sequenceSvc portssvc.SequenceSvcFacade
}

// InvoiceServiceOption is a functional option for configuring the invoice
// service.
type InvoiceServiceOption func(*invoiceService)

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepository, sequenceSvc portssvc.SequenceSvcFacade, options ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: invoiceRepo,
		sequenceSvc: sequenceSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure invoiceService implements the InvoiceSvcFacade interface.
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice recomputes every line amount and the rounded totals, draws
// the next invoice number for (company, issue year) and persists the result.
// Client-supplied amounts are never trusted.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	status := domain.InvoiceStatus(strings.ToUpper(req.Status))
	if req.Status == "" {
		status = domain.StatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, req.Status)
	}
	if req.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: tax rate cannot be negative", apperrors.ErrValidation)
	}
	if req.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}

	currency := strings.ToUpper(req.CurrencyCode)
	items := make([]domain.LineItem, len(req.LineItems))
	for i, item := range req.LineItems {
		items[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		}
		items[i].Amount = invoicing.LineAmount(items[i])
	}

	totals := invoicing.CalculateTotals(items, req.TaxRate, currency, req.Discount)

	number, err := s.sequenceSvc.NextInvoiceNumber(ctx, req.CompanyProfileID, req.IssueDate.Year())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:        uuid.NewString(),
		InvoiceNumber:    number,
		ClientID:         req.ClientID,
		CompanyProfileID: req.CompanyProfileID,
		LineItems:        items,
		Subtotal:         totals.Subtotal,
		TaxRate:          req.TaxRate,
		Tax:              totals.TaxAmount,
		Total:            totals.Total,
		CurrencyCode:     currency,
		Status:           status,
		IssueDate:        req.IssueDate,
		DueDate:          req.DueDate,
		FulfillmentDate:  req.FulfillmentDate,
		PaymentMethod:    req.PaymentMethod,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save invoice",
			slog.String("invoice_number", number))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", number),
		slog.String("currency", currency))
	return &invoice, nil
}

// GetInvoiceByID retrieves a single invoice with its line items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices returns every invoice.
func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoiceStatus relabels an invoice. Statuses are plain labels; the
// core does not police transitions.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updaterUserID string) (*domain.Invoice, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, status)
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, status, updaterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}
