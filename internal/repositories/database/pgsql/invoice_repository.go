package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	"github.com/flowlance/finplan_backend/internal/models"
	"github.com/flowlance/finplan_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolationCode = "23505"

const invoiceColumns = `invoice_id, invoice_number, client_id, company_profile_id, subtotal, tax_rate, tax, total, currency_code, status, issue_date, due_date, fulfillment_date, payment_method, created_at, created_by, last_updated_at, last_updated_by`

// PgxInvoiceRepository implements the ports.InvoiceRepository interface
// using pgxpool.
type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new PgxInvoiceRepository.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepository {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

// SaveInvoice stores the invoice header and its line items in one
// transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	return r.execInTx(ctx, func(tx pgx.Tx) error {
		insertHeader := `
			INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
		`
		_, err := tx.Exec(ctx, insertHeader,
			m.InvoiceID, m.InvoiceNumber, m.ClientID, m.CompanyProfileID,
			m.Subtotal, m.TaxRate, m.Tax, m.Total, m.CurrencyCode, m.Status,
			m.IssueDate, m.DueDate, m.FulfillmentDate, m.PaymentMethod,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
				return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, m.InvoiceNumber)
			}
			return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
		}

		insertItem := `
			INSERT INTO invoice_line_items (line_item_id, invoice_id, description, quantity, rate, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		for i, item := range invoice.LineItems {
			mi := mapping.ToModelLineItem(item, invoice.InvoiceID, i)
			_, err = tx.Exec(ctx, insertItem,
				mi.LineItemID, mi.InvoiceID, mi.Description, mi.Quantity, mi.Rate, mi.Amount, mi.Position,
			)
			if err != nil {
				return fmt.Errorf("failed to save line item for invoice %s: %w", m.InvoiceID, err)
			}
		}
		return nil
	})
}

// FindInvoiceByID retrieves an invoice together with its line items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	var m models.Invoice
	err := r.Pool.QueryRow(ctx, query, invoiceID).Scan(invoiceScanTargets(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	items, err := r.findLineItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainInvoice(m, items)
	return &d, nil
}

// ListInvoices returns every invoice with line items attached, newest issue
// date first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY issue_date DESC, invoice_number DESC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var headers []models.Invoice
	for rows.Next() {
		var m models.Invoice
		if err := rows.Scan(invoiceScanTargets(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating invoice rows: %w", err)
	}

	itemsByInvoice, err := r.loadAllLineItems(ctx)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, len(headers))
	for i, header := range headers {
		invoices[i] = mapping.ToDomainInvoice(header, itemsByInvoice[header.InvoiceID])
	}
	return invoices, nil
}

// UpdateInvoiceStatus relabels an invoice.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string) error {
	query := `
		UPDATE invoices
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, string(status), time.Now(), updatedBy, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to update invoice status %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInvoiceRepository) findLineItems(ctx context.Context, invoiceID string) ([]models.InvoiceLineItem, error) {
	query := `
		SELECT line_item_id, invoice_id, description, quantity, rate, amount, position
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	return scanLineItems(rows)
}

func (r *PgxInvoiceRepository) loadAllLineItems(ctx context.Context) (map[string][]models.InvoiceLineItem, error) {
	query := `
		SELECT line_item_id, invoice_id, description, quantity, rate, amount, position
		FROM invoice_line_items
		ORDER BY invoice_id, position;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	items, err := scanLineItems(rows)
	if err != nil {
		return nil, err
	}

	byInvoice := make(map[string][]models.InvoiceLineItem)
	for _, item := range items {
		byInvoice[item.InvoiceID] = append(byInvoice[item.InvoiceID], item)
	}
	return byInvoice, nil
}

func scanLineItems(rows pgx.Rows) ([]models.InvoiceLineItem, error) {
	var items []models.InvoiceLineItem
	for rows.Next() {
		var m models.InvoiceLineItem
		if err := rows.Scan(&m.LineItemID, &m.InvoiceID, &m.Description, &m.Quantity, &m.Rate, &m.Amount, &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating line item rows: %w", err)
	}
	return items, nil
}

func invoiceScanTargets(m *models.Invoice) []any {
	return []any{
		&m.InvoiceID, &m.InvoiceNumber, &m.ClientID, &m.CompanyProfileID,
		&m.Subtotal, &m.TaxRate, &m.Tax, &m.Total, &m.CurrencyCode, &m.Status,
		&m.IssueDate, &m.DueDate, &m.FulfillmentDate, &m.PaymentMethod,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
}
