package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
)

// maxCatchUpIterations caps how far a single pass catches up one master.
// A master anchored years in the past finishes over several passes instead of
// looping unbounded; the cursor it leaves behind is still in the past, so the
// next pass resumes from there.
const maxCatchUpIterations = 120

// materializerActor is recorded in audit fields for writes the materializer
// performs on its own behalf.
const materializerActor = "recurring-materializer"

// recurringService implements the recurring transaction materializer. It is
// invoked as an explicit pipeline stage (on data load, on transaction create,
// from the ops CLI); the in-flight flag stops a pass from re-entering itself
// through its own writes.
type recurringService struct {
	BaseService
	txnRepo  portsrepo.TransactionRepository
	inFlight atomic.Bool
}

// RecurringServiceOption is a functional option for configuring the recurring
// service.
type RecurringServiceOption func(*recurringService)

// NewRecurringService creates a new recurring transaction materializer.
func NewRecurringService(txnRepo portsrepo.TransactionRepository, options ...RecurringServiceOption) portssvc.RecurringSvcFacade {
	svc := &recurringService{txnRepo: txnRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure recurringService implements the RecurringSvcFacade interface.
var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// Materialize expands every recurring master into dated history occurrences
// up to the end of the day containing now.
//
// For each master a cursor starts at the stored anchor date and walks forward
// one period at a time. An occurrence is emitted at the cursor only when the
// following period boundary has also elapsed; the master's date then advances
// to the first cursor whose successor is still ahead of now. Occurrence IDs
// are the deterministic {masterID}_{date} key, so a re-run can never
// duplicate an occurrence: running the pass twice with no elapsed time
// produces an identical transaction set.
func (s *recurringService) Materialize(ctx context.Context, now time.Time) (*domain.MaterializeResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.LogDebug(ctx, "Materializer pass already in flight, skipping")
		return &domain.MaterializeResult{Skipped: true}, nil
	}
	defer s.inFlight.Store(false)

	masters, err := s.txnRepo.ListRecurringMasters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring masters: %w", err)
	}

	existing, err := s.txnRepo.ListOccurrenceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history occurrences: %w", err)
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	result := &domain.MaterializeResult{}

	for i := range masters {
		master := &masters[i]
		if !master.Period.IsRecurring() || master.Kind != domain.MasterTransaction {
			continue
		}
		if master.Date.IsZero() {
			// unparseable anchor contributes nothing but is not deleted
			s.LogWarn(ctx, "Skipping recurring master with invalid anchor date",
				slog.String("transaction_id", master.TransactionID))
			continue
		}

		created, cursor, capped, err := s.catchUp(ctx, master, existing, endOfDay)
		if err != nil {
			return nil, err
		}

		if len(created) > 0 {
			if err := s.txnRepo.SaveTransactions(ctx, created); err != nil {
				return nil, fmt.Errorf("failed to save occurrences for master %s: %w", master.TransactionID, err)
			}
			result.CreatedCount += len(created)
		}

		if !cursor.Equal(master.Date) {
			if err := s.txnRepo.UpdateTransactionDate(ctx, master.TransactionID, cursor, materializerActor); err != nil {
				return nil, fmt.Errorf("failed to advance master %s: %w", master.TransactionID, err)
			}
			result.AdvancedCount++
		}
		if capped {
			result.ResumableCount++
		}
	}

	s.LogInfo(ctx, "Materializer pass completed",
		slog.Int("created", result.CreatedCount),
		slog.Int("advanced", result.AdvancedCount),
		slog.Int("resumable", result.ResumableCount))
	return result, nil
}

// catchUp walks one master's cursor and returns the new occurrences, the
// final cursor position and whether the iteration cap cut the walk short.
// The existing set is updated in place so later masters in the same pass see
// occurrences emitted earlier in it.
func (s *recurringService) catchUp(ctx context.Context, master *domain.Transaction, existing map[string]struct{}, endOfDay time.Time) ([]domain.Transaction, time.Time, bool, error) {
	cursor := master.Date
	var created []domain.Transaction

	for iterations := 0; ; iterations++ {
		next, err := master.Period.NextAfter(cursor)
		if err != nil {
			return nil, master.Date, false, fmt.Errorf("master %s: %w", master.TransactionID, err)
		}
		if next.After(endOfDay) {
			return created, cursor, false, nil
		}
		if iterations >= maxCatchUpIterations {
			s.LogWarn(ctx, "Catch-up cap reached, master will resume next pass",
				slog.String("transaction_id", master.TransactionID),
				slog.Time("cursor", cursor))
			return created, cursor, true, nil
		}

		occurrenceID := domain.OccurrenceID(master.TransactionID, cursor)
		if _, ok := existing[occurrenceID]; !ok {
			created = append(created, s.newOccurrence(master, occurrenceID, cursor))
			existing[occurrenceID] = struct{}{}
		}
		cursor = next
	}
}

// newOccurrence snapshots a master at the given date. Occurrences are
// immutable and never themselves recurring.
func (s *recurringService) newOccurrence(master *domain.Transaction, occurrenceID string, date time.Time) domain.Transaction {
	now := time.Now()
	return domain.Transaction{
		TransactionID: occurrenceID,
		Type:          master.Type,
		Amount:        master.Amount,
		CurrencyCode:  master.CurrencyCode,
		Date:          date,
		Category:      master.Category,
		Description:   master.Description,
		Period:        domain.PeriodOneTime,
		Kind:          domain.HistoryTransaction,
		OriginID:      master.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     materializerActor,
			LastUpdatedAt: now,
			LastUpdatedBy: materializerActor,
		},
	}
}
