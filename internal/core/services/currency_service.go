package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// currencyService implements the Converter interface. It owns the rate table
// outright: the map lives behind a RWMutex and is only ever replaced
// wholesale on refresh, so conversions running concurrently with a refresh
// see either the old table or the new one, never a mix.
type currencyService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepository

	mu           sync.RWMutex
	baseCurrency string
	rates        map[string]decimal.Decimal

	refreshURL string
	httpClient *http.Client
}

// CurrencyServiceOption is a functional option for configuring the currency
// service.
type CurrencyServiceOption func(*currencyService)

// WithRefreshSource points RefreshRates at an external JSON rate document.
func WithRefreshSource(url string) CurrencyServiceOption {
	return func(s *currencyService) {
		s.refreshURL = url
	}
}

// WithHTTPClient overrides the client used for rate refreshes.
func WithHTTPClient(client *http.Client) CurrencyServiceOption {
	return func(s *currencyService) {
		s.httpClient = client
	}
}

// WithInitialRates seeds the in-memory table without touching the repository.
// Used by tests and by the CLI when no persisted rates exist yet.
func WithInitialRates(rates map[string]decimal.Decimal) CurrencyServiceOption {
	return func(s *currencyService) {
		for code, rate := range rates {
			s.rates[strings.ToUpper(code)] = rate
		}
	}
}

// NewCurrencyService creates the conversion engine for the given base
// currency. Call LoadRates afterwards to hydrate the table from persistence.
func NewCurrencyService(baseCurrency string, rateRepo portsrepo.ExchangeRateRepository, options ...CurrencyServiceOption) portssvc.Converter {
	svc := &currencyService{
		rateRepo:     rateRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
		rates:        make(map[string]decimal.Decimal),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure currencyService implements the Converter interface.
var _ portssvc.Converter = (*currencyService)(nil)

// LoadRates hydrates the in-memory table from the repository. It is invoked
// once at startup; a missing repository (CLI dry runs, tests) is not an
// error.
func (s *currencyService) LoadRates(ctx context.Context) error {
	if s.rateRepo == nil {
		return nil
	}
	stored, err := s.rateRepo.LoadRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for code, rate := range stored {
		s.rates[strings.ToUpper(code)] = rate
	}
	return nil
}

// BaseCurrency returns the code whose rate is implicitly 1.
func (s *currencyService) BaseCurrency() string {
	return s.baseCurrency
}

// Convert translates amount between currencies, always triangulating through
// the base currency so every pair stays consistent with only N stored rates.
// Identity conversions return the amount unchanged with no rounding drift.
func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) decimal.Decimal {
	from := strings.ToUpper(fromCode)
	to := strings.ToUpper(toCode)
	if from == to {
		return amount
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	baseAmount := amount
	if from != s.baseCurrency {
		baseAmount = amount.Mul(s.rateLocked(ctx, from))
	}
	if to == s.baseCurrency {
		return baseAmount
	}
	return baseAmount.Div(s.rateLocked(ctx, to))
}

// GetRate returns the stored rate for code in units of base per 1 unit of
// code. Unknown codes fall back to 1 (base-equivalent) with a warning; a
// single unconfigured currency must not abort a whole aggregation, but the
// fallback can distort totals, so it is always logged.
func (s *currencyService) GetRate(ctx context.Context, code string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rateLocked(ctx, strings.ToUpper(code))
}

// rateLocked resolves a rate under a held read lock.
func (s *currencyService) rateLocked(ctx context.Context, code string) decimal.Decimal {
	if code == s.baseCurrency {
		return decimal.NewFromInt(1)
	}
	rate, ok := s.rates[code]
	if !ok || !rate.IsPositive() {
		s.LogWarn(ctx, "Unknown currency code, falling back to rate 1",
			slog.String("currency_code", code),
			slog.String("base_currency", s.baseCurrency))
		return decimal.NewFromInt(1)
	}
	return rate
}

// SetRate mutates the table in place; all subsequent conversions use the new
// value immediately. Invoices keep only their currency, not the rate in
// effect when they were issued, so historical totals shift with the table.
func (s *currencyService) SetRate(ctx context.Context, code string, rate decimal.Decimal, updatedBy string) error {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	if code == s.baseCurrency {
		if rate.Equal(decimal.NewFromInt(1)) {
			return nil
		}
		return fmt.Errorf("%w: base currency %s always has rate 1", apperrors.ErrValidation, s.baseCurrency)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	if s.rateRepo != nil {
		if err := s.rateRepo.SaveRate(ctx, code, rate, updatedBy); err != nil {
			return fmt.Errorf("failed to persist exchange rate: %w", err)
		}
	}

	s.mu.Lock()
	s.rates[code] = rate
	s.mu.Unlock()

	s.LogInfo(ctx, "Exchange rate updated",
		slog.String("currency_code", code),
		slog.String("rate", rate.String()))
	return nil
}

// RateTable returns a copy of the current table.
func (s *currencyService) RateTable(ctx context.Context) domain.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewRateTable(s.baseCurrency, s.rates).Clone()
}

// rateDocument is the JSON shape served by the external rate source. Rates
// are expressed the same way the table stores them: units of base per 1 unit
// of the code.
type rateDocument struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// RefreshRates replaces the table from the configured external source. Any
// failure leaves the table at its last-known-good state and reports the
// reason in the result; callers never see a partially applied refresh.
func (s *currencyService) RefreshRates(ctx context.Context) domain.RefreshResult {
	if s.refreshURL == "" {
		return domain.RefreshResult{Success: false, Message: "no external rate source configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.refreshURL, nil)
	if err != nil {
		return domain.RefreshResult{Success: false, Message: fmt.Sprintf("failed to build rate request: %v", err)}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.RefreshResult{Success: false, Message: fmt.Sprintf("rate source unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RefreshResult{Success: false, Message: fmt.Sprintf("rate source returned status %d", resp.StatusCode)}
	}

	var doc rateDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.RefreshResult{Success: false, Message: fmt.Sprintf("malformed rate document: %v", err)}
	}
	if strings.ToUpper(doc.Base) != s.baseCurrency {
		return domain.RefreshResult{Success: false, Message: fmt.Sprintf("rate source base %q does not match table base %q", doc.Base, s.baseCurrency)}
	}

	fresh := make(map[string]decimal.Decimal, len(doc.Rates))
	for code, value := range doc.Rates {
		code = strings.ToUpper(code)
		if code == s.baseCurrency {
			continue
		}
		rate := decimal.NewFromFloat(value)
		if !rate.IsPositive() {
			return domain.RefreshResult{Success: false, Message: fmt.Sprintf("rate source delivered non-positive rate for %s", code)}
		}
		fresh[code] = rate
	}
	if len(fresh) == 0 {
		return domain.RefreshResult{Success: false, Message: "rate source delivered no rates"}
	}

	if s.rateRepo != nil {
		if err := s.rateRepo.ReplaceRates(ctx, fresh, "rate-refresh"); err != nil {
			return domain.RefreshResult{Success: false, Message: fmt.Sprintf("failed to persist refreshed rates: %v", err)}
		}
	}

	s.mu.Lock()
	s.rates = fresh
	s.mu.Unlock()

	s.LogInfo(ctx, "Exchange rates refreshed", slog.Int("rate_count", len(fresh)))
	return domain.RefreshResult{Success: true, Message: "rates refreshed", RateCount: len(fresh)}
}
