package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/core/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fakeSequenceRepository keeps per-(company, year) counters in memory.
type fakeSequenceRepository struct {
	counters map[string]int64
}

func newFakeSequenceRepository() *fakeSequenceRepository {
	return &fakeSequenceRepository{counters: make(map[string]int64)}
}

func (r *fakeSequenceRepository) NextSequence(_ context.Context, companyID string, year int) (int64, error) {
	key := fmt.Sprintf("%s/%d", companyID, year)
	r.counters[key]++
	return r.counters[key], nil
}

// --- Test Suite ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInvoiceRepository
	seqRepo  *fakeSequenceRepository
	service  portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInvoiceRepository)
	suite.seqRepo = newFakeSequenceRepository()
	sequenceSvc := services.NewSequenceService(suite.seqRepo)
	suite.service = services.NewInvoiceService(suite.mockRepo, sequenceSvc)
}

func (suite *InvoiceServiceTestSuite) createRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID:         "client-1",
		CompanyProfileID: "company-1",
		CurrencyCode:     "USD",
		TaxRate:          decimal.NewFromInt(20),
		LineItems: []dto.LineItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100)},
		},
		IssueDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RecomputesAmountsAndTotals() {
	ctx := context.Background()
	suite.mockRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.createRequest(), "user-1")

	suite.Require().NoError(err)
	suite.Equal("INV-2025-0001", invoice.InvoiceNumber)
	suite.Equal(domain.StatusDraft, invoice.Status)
	suite.Require().Len(invoice.LineItems, 1)
	suite.NotEmpty(invoice.LineItems[0].LineItemID)
	suite.True(invoice.LineItems[0].Amount.Equal(decimal.NewFromInt(200)))
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(200)))
	suite.True(invoice.Tax.Equal(decimal.NewFromInt(40)))
	suite.True(invoice.Total.Equal(decimal.NewFromInt(240)))
	suite.Equal("user-1", invoice.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_SequenceAdvancesPerYear() {
	ctx := context.Background()
	suite.mockRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Times(4)

	var numbers []string
	for i := 0; i < 3; i++ {
		invoice, err := suite.service.CreateInvoice(ctx, suite.createRequest(), "user-1")
		suite.Require().NoError(err)
		numbers = append(numbers, invoice.InvoiceNumber)
	}

	req := suite.createRequest()
	req.IssueDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	invoice, err := suite.service.CreateInvoice(ctx, req, "user-1")
	suite.Require().NoError(err)

	suite.Equal([]string{"INV-2025-0001", "INV-2025-0002", "INV-2025-0003"}, numbers)
	// a new issue year restarts the counter
	suite.Equal("INV-2026-0001", invoice.InvoiceNumber)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsUnknownStatus() {
	ctx := context.Background()
	req := suite.createRequest()
	req.Status = "ARCHIVED"

	_, err := suite.service.CreateInvoice(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsNegativeTaxRate() {
	ctx := context.Background()
	req := suite.createRequest()
	req.TaxRate = decimal.NewFromInt(-5)

	_, err := suite.service.CreateInvoice(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_SaveFailureDoesNotReturnInvoice() {
	ctx := context.Background()
	suite.mockRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).
		Return(apperrors.ErrDuplicate).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.createRequest(), "user-1")

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_RejectsUnknownLabel() {
	ctx := context.Background()

	_, err := suite.service.UpdateInvoiceStatus(ctx, "i1", domain.InvoiceStatus("BOGUS"), "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_RelabelsAndReloads() {
	ctx := context.Background()
	updated := testInvoice("i1", "240", "USD", domain.StatusPaid)
	suite.mockRepo.On("UpdateInvoiceStatus", ctx, "i1", domain.StatusPaid, "user-1").Return(nil).Once()
	suite.mockRepo.On("FindInvoiceByID", ctx, "i1").Return(&updated, nil).Once()

	invoice, err := suite.service.UpdateInvoiceStatus(ctx, "i1", domain.StatusPaid, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, invoice.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NotFoundPassthrough() {
	ctx := context.Background()
	suite.mockRepo.On("FindInvoiceByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	invoice, err := suite.service.GetInvoiceByID(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func TestSequenceService_Validation(t *testing.T) {
	svc := services.NewSequenceService(newFakeSequenceRepository())

	_, err := svc.NextInvoiceNumber(context.Background(), "", 2025)
	if err == nil {
		t.Fatal("expected error for empty company ID")
	}

	_, err = svc.NextInvoiceNumber(context.Background(), "company-1", 0)
	if err == nil {
		t.Fatal("expected error for non-positive year")
	}
}
