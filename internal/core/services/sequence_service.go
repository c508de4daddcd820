package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
)

// sequenceService issues formatted invoice numbers from the persisted
// per-(company, year) counters. A number handed out is consumed for good:
// requesting one and then abandoning the invoice leaves a permanent gap,
// which is accepted rather than remediated.
type sequenceService struct {
	BaseService
	seqRepo portsrepo.SequenceRepository
}

// NewSequenceService creates a new invoice number generator.
func NewSequenceService(seqRepo portsrepo.SequenceRepository) portssvc.SequenceSvcFacade {
	return &sequenceService{seqRepo: seqRepo}
}

// Ensure sequenceService implements the SequenceSvcFacade interface.
var _ portssvc.SequenceSvcFacade = (*sequenceService)(nil)

// NextInvoiceNumber increments the (companyID, year) counter and formats it
// as INV-{year}-{sequence padded to 4 digits}.
func (s *sequenceService) NextInvoiceNumber(ctx context.Context, companyID string, year int) (string, error) {
	if companyID == "" {
		return "", fmt.Errorf("%w: company ID is required", apperrors.ErrValidation)
	}
	if year < 1 {
		return "", fmt.Errorf("%w: year %d is not valid", apperrors.ErrValidation, year)
	}

	seq, err := s.seqRepo.NextSequence(ctx, companyID, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to advance invoice sequence",
			slog.String("company_id", companyID),
			slog.Int("year", year))
		return "", fmt.Errorf("failed to advance invoice sequence: %w", err)
	}

	return fmt.Sprintf("INV-%d-%04d", year, seq), nil
}
