package dto

import (
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
// Recurring masters are created with a repeating period; the materializer
// runs right after creation to catch the anchor date up to today.
type CreateTransactionRequest struct {
	Type         string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Date         time.Time       `json:"date" binding:"required"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Period       string          `json:"period" binding:"omitempty,oneof=ONE_TIME DAILY WEEKLY MONTHLY YEARLY"`
}

// TransactionResponse defines the API shape of a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Period        string          `json:"period"`
	Kind          string          `json:"kind"`
	OriginID      string          `json:"originID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its API shape.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		Date:          txn.Date,
		Category:      txn.Category,
		Description:   txn.Description,
		Period:        string(txn.Period),
		Kind:          string(txn.Kind),
		OriginID:      txn.OriginID,
		CreatedAt:     txn.CreatedAt,
	}
}

// MaterializeResponse reports the outcome of a materializer pass.
type MaterializeResponse struct {
	Skipped        bool `json:"skipped"`
	CreatedCount   int  `json:"createdCount"`
	AdvancedCount  int  `json:"advancedCount"`
	ResumableCount int  `json:"resumableCount"`
}

// ToMaterializeResponse converts a domain.MaterializeResult to its API shape.
func ToMaterializeResponse(result *domain.MaterializeResult) MaterializeResponse {
	return MaterializeResponse{
		Skipped:        result.Skipped,
		CreatedCount:   result.CreatedCount,
		AdvancedCount:  result.AdvancedCount,
		ResumableCount: result.ResumableCount,
	}
}

// ToListTransactionResponse converts a slice of transactions to API shapes.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
