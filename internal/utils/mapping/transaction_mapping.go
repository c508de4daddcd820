package mapping

import (
	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/flowlance/finplan_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Date:          d.Date,
		Category:      d.Category,
		Description:   d.Description,
		Period:        string(d.Period),
		Kind:          string(d.Kind),
		OriginID:      d.OriginID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Date:          m.Date,
		Category:      m.Category,
		Description:   m.Description,
		Period:        domain.RecurrencePeriod(m.Period),
		Kind:          domain.TransactionKind(m.Kind),
		OriginID:      m.OriginID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
