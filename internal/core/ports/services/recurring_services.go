package services

import (
	"context"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
)

// RecurringSvcFacade expands recurring master transactions into dated history
// occurrences. Materialize is invoked as an explicit pipeline stage after
// data loads and transaction writes, never as a reactive effect of its own
// output.
type RecurringSvcFacade interface {
	// Materialize catches masters up to the end of the day containing now.
	// A pass already in flight makes the call return immediately with
	// Skipped set; running it twice with no elapsed time creates nothing the
	// second time.
	Materialize(ctx context.Context, now time.Time) (*domain.MaterializeResult, error)
}
