package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) LoadRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveRate(ctx context.Context, currencyCode string, rate decimal.Decimal, updatedBy string) error {
	args := m.Called(ctx, currencyCode, rate, updatedBy)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) ReplaceRates(ctx context.Context, rates map[string]decimal.Decimal, updatedBy string) error {
	args := m.Called(ctx, rates, updatedBy)
	return args.Error(0)
}

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExchangeRateRepository
	service  portssvc.Converter
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.service = services.NewCurrencyService("USD", suite.mockRepo,
		services.WithInitialRates(map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("1.08"),
			"HUF": decimal.RequireFromString("0.0027"),
		}),
	)
}

func (suite *CurrencyServiceTestSuite) TestConvert_Identity() {
	amount := decimal.RequireFromString("123.4567")

	got := suite.service.Convert(context.Background(), amount, "EUR", "EUR")

	// exact, no rounding drift
	suite.True(got.Equal(amount))
	suite.Equal(amount.String(), got.String())
}

func (suite *CurrencyServiceTestSuite) TestConvert_ToBase() {
	got := suite.service.Convert(context.Background(), decimal.NewFromInt(100), "EUR", "USD")
	suite.True(got.Equal(decimal.RequireFromString("108")), "got %s", got)
}

func (suite *CurrencyServiceTestSuite) TestConvert_FromBase() {
	got := suite.service.Convert(context.Background(), decimal.NewFromInt(108), "USD", "EUR")
	suite.True(got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func (suite *CurrencyServiceTestSuite) TestConvert_CrossRateTriangulates() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50)

	// EUR -> HUF must equal EUR -> USD -> HUF
	direct := suite.service.Convert(ctx, amount, "EUR", "HUF")
	viaBase := suite.service.Convert(ctx, suite.service.Convert(ctx, amount, "EUR", "USD"), "USD", "HUF")

	suite.True(direct.Sub(viaBase).Abs().LessThan(decimal.RequireFromString("0.0000001")),
		"direct %s vs viaBase %s", direct, viaBase)
}

func (suite *CurrencyServiceTestSuite) TestConvert_TriangulationConsistency() {
	ctx := context.Background()
	amount := decimal.RequireFromString("321.5")

	// convert(convert(a, x, y), y, z) ~= convert(a, x, z)
	hop := suite.service.Convert(ctx, suite.service.Convert(ctx, amount, "HUF", "EUR"), "EUR", "USD")
	straight := suite.service.Convert(ctx, amount, "HUF", "USD")

	suite.True(hop.Sub(straight).Abs().LessThan(decimal.RequireFromString("0.0000001")),
		"hop %s vs straight %s", hop, straight)
}

func (suite *CurrencyServiceTestSuite) TestGetRate_UnknownFallsBackToOne() {
	rate := suite.service.GetRate(context.Background(), "XXX")
	suite.True(rate.Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestGetRate_Base() {
	rate := suite.service.GetRate(context.Background(), "USD")
	suite.True(rate.Equal(decimal.NewFromInt(1)))
}

func (suite *CurrencyServiceTestSuite) TestSetRate_PersistsAndApplies() {
	ctx := context.Background()
	newRate := decimal.RequireFromString("1.25")

	suite.mockRepo.On("SaveRate", ctx, "GBP", newRate, "tester").Return(nil).Once()

	err := suite.service.SetRate(ctx, "GBP", newRate, "tester")

	suite.Require().NoError(err)
	suite.True(suite.service.GetRate(ctx, "GBP").Equal(newRate))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestSetRate_RejectsBaseOverwrite() {
	err := suite.service.SetRate(context.Background(), "USD", decimal.NewFromInt(2), "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRate")
}

func (suite *CurrencyServiceTestSuite) TestSetRate_BaseAtOneIsNoop() {
	err := suite.service.SetRate(context.Background(), "USD", decimal.NewFromInt(1), "tester")

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRate")
}

func (suite *CurrencyServiceTestSuite) TestSetRate_RejectsNonPositive() {
	err := suite.service.SetRate(context.Background(), "GBP", decimal.Zero, "tester")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CurrencyServiceTestSuite) TestRefreshRates_NoSourceConfigured() {
	result := suite.service.RefreshRates(context.Background())

	suite.False(result.Success)
	suite.Contains(result.Message, "no external rate source")
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}

// --- Refresh against a stub rate source ---

func newRefreshService(t *testing.T, repo *MockExchangeRateRepository, handler http.HandlerFunc) (portssvc.Converter, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := services.NewCurrencyService("USD", repo,
		services.WithInitialRates(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("1.08")}),
		services.WithRefreshSource(server.URL),
		services.WithHTTPClient(server.Client()),
	)
	return svc, server
}

func TestRefreshRates_ReplacesTableAtomically(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	svc, _ := newRefreshService(t, repo, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":1.10,"GBP":1.30}}`))
	})

	ctx := context.Background()
	repo.On("ReplaceRates", ctx, mock.AnythingOfType("map[string]decimal.Decimal"), "rate-refresh").Return(nil).Once()

	result := svc.RefreshRates(ctx)

	if !result.Success {
		t.Fatalf("expected refresh to succeed, got %q", result.Message)
	}
	if result.RateCount != 2 {
		t.Fatalf("expected 2 rates, got %d", result.RateCount)
	}
	if got := svc.GetRate(ctx, "EUR"); !got.Equal(decimal.RequireFromString("1.1")) {
		t.Fatalf("EUR rate not replaced, got %s", got)
	}
	repo.AssertExpectations(t)
}

func TestRefreshRates_FailureLeavesTableUntouched(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	svc, _ := newRefreshService(t, repo, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	result := svc.RefreshRates(ctx)

	if result.Success {
		t.Fatal("expected refresh to fail")
	}
	if got := svc.GetRate(ctx, "EUR"); !got.Equal(decimal.RequireFromString("1.08")) {
		t.Fatalf("table must stay at last-known-good, got EUR=%s", got)
	}
	repo.AssertNotCalled(t, "ReplaceRates")
}

func TestRefreshRates_BaseMismatchFails(t *testing.T) {
	repo := new(MockExchangeRateRepository)
	svc, _ := newRefreshService(t, repo, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":0.93}}`))
	})

	result := svc.RefreshRates(context.Background())

	if result.Success {
		t.Fatal("expected base mismatch to fail the refresh")
	}
	repo.AssertNotCalled(t, "ReplaceRates")
}
