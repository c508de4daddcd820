package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/flowlance/finplan_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeTransactionRepository is an in-memory TransactionRepository. The
// materializer's writes land here, so a second pass observes what the first
// one persisted.
type fakeTransactionRepository struct {
	transactions map[string]domain.Transaction

	// listMastersHook runs at the start of ListRecurringMasters, letting a
	// test interleave work with a pass that is still in flight.
	listMastersHook func()
}

func newFakeTransactionRepository() *fakeTransactionRepository {
	return &fakeTransactionRepository{transactions: make(map[string]domain.Transaction)}
}

func (r *fakeTransactionRepository) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	r.transactions[txn.TransactionID] = txn
	return nil
}

func (r *fakeTransactionRepository) SaveTransactions(_ context.Context, txns []domain.Transaction) error {
	for _, txn := range txns {
		r.transactions[txn.TransactionID] = txn
	}
	return nil
}

func (r *fakeTransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	txn, ok := r.transactions[transactionID]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (r *fakeTransactionRepository) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0, len(r.transactions))
	for _, txn := range r.transactions {
		out = append(out, txn)
	}
	return out, nil
}

func (r *fakeTransactionRepository) ListRecurringMasters(_ context.Context) ([]domain.Transaction, error) {
	if r.listMastersHook != nil {
		r.listMastersHook()
	}
	var out []domain.Transaction
	for _, txn := range r.transactions {
		if txn.Kind == domain.MasterTransaction && txn.Period.IsRecurring() {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepository) ListOccurrenceIDs(_ context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	for id, txn := range r.transactions {
		if txn.Kind == domain.HistoryTransaction {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func (r *fakeTransactionRepository) UpdateTransactionDate(_ context.Context, transactionID string, date time.Time, updatedBy string) error {
	txn := r.transactions[transactionID]
	txn.Date = date
	txn.LastUpdatedBy = updatedBy
	r.transactions[transactionID] = txn
	return nil
}

func (r *fakeTransactionRepository) historyDates(originID string) []string {
	var dates []string
	for _, txn := range r.transactions {
		if txn.Kind == domain.HistoryTransaction && txn.OriginID == originID {
			dates = append(dates, txn.Date.Format("2006-01-02"))
		}
	}
	return dates
}

// --- Test Suite ---
type RecurringServiceTestSuite struct {
	suite.Suite
	repo *fakeTransactionRepository
	now  time.Time
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.repo = newFakeTransactionRepository()
	suite.now = time.Date(2024, 4, 20, 10, 30, 0, 0, time.UTC)
}

func (suite *RecurringServiceTestSuite) seedMaster(id string, anchor time.Time, period domain.RecurrencePeriod) {
	suite.repo.transactions[id] = domain.Transaction{
		TransactionID: id,
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(50),
		CurrencyCode:  "USD",
		Date:          anchor,
		Category:      "rent",
		Period:        period,
		Kind:          domain.MasterTransaction,
	}
}

func (suite *RecurringServiceTestSuite) TestMonthlyCatchUp() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	result, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.False(result.Skipped)
	suite.Equal(3, result.CreatedCount)
	suite.Equal(1, result.AdvancedCount)
	suite.Equal(0, result.ResumableCount)

	suite.ElementsMatch([]string{"2024-01-15", "2024-02-15", "2024-03-15"}, suite.repo.historyDates("m1"))
	// the master waits at the most recent elapsed boundary
	suite.Equal("2024-04-15", suite.repo.transactions["m1"].Date.Format("2006-01-02"))
}

func (suite *RecurringServiceTestSuite) TestSecondPassIsIdempotent() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	_, err := svc.Materialize(ctx, suite.now)
	suite.Require().NoError(err)

	result, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Equal(0, result.AdvancedCount)
	suite.Len(suite.repo.historyDates("m1"), 3)
}

func (suite *RecurringServiceTestSuite) TestOccurrenceSnapshotsMaster() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	_, err := svc.Materialize(ctx, suite.now)
	suite.Require().NoError(err)

	occurrence, ok := suite.repo.transactions["m1_2024-03-15"]
	suite.Require().True(ok, "occurrence id must be deterministic")
	suite.Equal(domain.HistoryTransaction, occurrence.Kind)
	suite.Equal(domain.PeriodOneTime, occurrence.Period)
	suite.Equal("m1", occurrence.OriginID)
	suite.Equal(domain.Expense, occurrence.Type)
	suite.True(occurrence.Amount.Equal(decimal.NewFromInt(50)))
	suite.Equal("rent", occurrence.Category)
}

func (suite *RecurringServiceTestSuite) TestBoundaryNotYetElapsed() {
	ctx := context.Background()
	// next boundary is 2024-05-01, still ahead of now: nothing to emit
	suite.seedMaster("m1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	result, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Equal(0, result.AdvancedCount)
	suite.Equal("2024-04-01", suite.repo.transactions["m1"].Date.Format("2006-01-02"))
}

func (suite *RecurringServiceTestSuite) TestOneTimeMastersIgnored() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), domain.PeriodOneTime)
	svc := services.NewRecurringService(suite.repo)

	result, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Empty(suite.repo.historyDates("m1"))
}

func (suite *RecurringServiceTestSuite) TestCapLeavesResumableCursor() {
	ctx := context.Background()
	// 200 elapsed daily boundaries, well past the per-pass cap
	anchor := suite.now.AddDate(0, 0, -200).Truncate(24 * time.Hour)
	suite.seedMaster("m1", anchor, domain.PeriodDaily)
	svc := services.NewRecurringService(suite.repo)

	first, err := svc.Materialize(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal(120, first.CreatedCount)
	suite.Equal(1, first.ResumableCount)
	suite.Equal(1, first.AdvancedCount)

	second, err := svc.Materialize(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal(80, second.CreatedCount)
	suite.Equal(0, second.ResumableCount)

	suite.Len(suite.repo.historyDates("m1"), 200)
}

func (suite *RecurringServiceTestSuite) TestNestedRunDuringPassIsSkipped() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	// re-enter from inside the outer pass, as a reactive trigger on the
	// materializer's own writes would
	var nested *domain.MaterializeResult
	suite.repo.listMastersHook = func() {
		suite.repo.listMastersHook = nil
		inner, err := svc.Materialize(ctx, suite.now)
		suite.Require().NoError(err)
		nested = inner
	}

	outer, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Require().NotNil(nested)
	suite.True(nested.Skipped)
	suite.Equal(0, nested.CreatedCount)
	suite.Equal(0, nested.AdvancedCount)

	// the outer pass is unaffected by the rejected nested call
	suite.False(outer.Skipped)
	suite.Equal(3, outer.CreatedCount)

	// the flag is released once the pass finishes
	again, err := svc.Materialize(ctx, suite.now)
	suite.Require().NoError(err)
	suite.False(again.Skipped)
}

func (suite *RecurringServiceTestSuite) TestZeroAnchorDateSkipped() {
	ctx := context.Background()
	suite.seedMaster("m1", time.Time{}, domain.PeriodMonthly)
	svc := services.NewRecurringService(suite.repo)

	result, err := svc.Materialize(ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Equal(0, result.AdvancedCount)
}

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
