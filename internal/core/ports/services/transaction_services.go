package services

import (
	"context"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/flowlance/finplan_backend/internal/dto"
)

// TransactionSvcFacade records transactions and exposes the collection to the
// analytics services. Creating a recurring master also kicks off a
// materializer pass so the anchor date is caught up immediately.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}
