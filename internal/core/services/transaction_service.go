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
	"github.com/google/uuid"
)

// transactionService implements transaction recording. Every record enters as
// a master; recurring ones trigger a materializer pass right away so their
// history catches up to today without waiting for the next scheduled run.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepository
	materializer portssvc.RecurringSvcFacade
}

// TransactionServiceOption is a functional option for configuring the
// transaction service.
type TransactionServiceOption func(*transactionService)

// WithMaterializer wires the recurring materializer that runs after a
// recurring master is created.
func WithMaterializer(materializer portssvc.RecurringSvcFacade) TransactionServiceOption {
	return func(s *transactionService) {
		s.materializer = materializer
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepository, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{txnRepo: txnRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface.
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a new transaction. The materializer runs as an
// explicit follow-up stage for recurring masters rather than reacting to the
// repository write, which keeps the pipeline re-entrancy-safe by
// construction.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	period := domain.RecurrencePeriod(req.Period)
	if req.Period == "" {
		period = domain.PeriodOneTime
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.TransactionType(req.Type),
		Amount:        req.Amount,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Date:          req.Date,
		Category:      req.Category,
		Description:   req.Description,
		Period:        period,
		Kind:          domain.MasterTransaction,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction")
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if period.IsRecurring() && s.materializer != nil {
		result, err := s.materializer.Materialize(ctx, now)
		if err != nil {
			// the master is saved; catch-up resumes on the next pass
			s.LogError(ctx, err, "Materializer pass after create failed",
				slog.String("transaction_id", txn.TransactionID))
		} else if !result.Skipped {
			s.LogInfo(ctx, "Materialized recurring master",
				slog.String("transaction_id", txn.TransactionID),
				slog.Int("created", result.CreatedCount))
		}
	}

	return &txn, nil
}

// GetTransactionByID retrieves a single transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns every transaction, masters and history alike.
func (s *transactionService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}
