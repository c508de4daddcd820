package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/core/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	repo    *fakeTransactionRepository
	service portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.repo = newFakeTransactionRepository()
	materializer := services.NewRecurringService(suite.repo)
	suite.service = services.NewTransactionService(suite.repo, services.WithMaterializer(materializer))
}

func (suite *TransactionServiceTestSuite) TestCreateOneTimeTransaction() {
	ctx := context.Background()

	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:         "EXPENSE",
		Amount:       decimal.NewFromInt(120),
		CurrencyCode: "usd",
		Date:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Category:     "software",
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.Expense, txn.Type)
	suite.Equal("USD", txn.CurrencyCode)
	suite.Equal(domain.PeriodOneTime, txn.Period)
	suite.Equal(domain.MasterTransaction, txn.Kind)
	suite.Equal("user-1", txn.CreatedBy)
	suite.Len(suite.repo.transactions, 1)
}

func (suite *TransactionServiceTestSuite) TestCreateRecurringTriggersMaterializer() {
	ctx := context.Background()

	anchor := time.Now().UTC().AddDate(0, 0, -10)
	txn, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:         "EXPENSE",
		Amount:       decimal.NewFromInt(50),
		CurrencyCode: "USD",
		Date:         anchor,
		Category:     "gym",
		Period:       "DAILY",
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodDaily, txn.Period)
	// ten elapsed daily boundaries are materialized immediately
	suite.Len(suite.repo.historyDates(txn.TransactionID), 10)
	master, err := suite.repo.FindTransactionByID(ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.True(master.Date.After(anchor), "master anchor advances after catch-up")
}

func (suite *TransactionServiceTestSuite) TestCreateRejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Type:         "INCOME",
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
		Date:         time.Now(),
	}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.repo.transactions)
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
