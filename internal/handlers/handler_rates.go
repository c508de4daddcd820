package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/flowlance/finplan_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// rateHandler handles HTTP requests related to the exchange rate table.
type rateHandler struct {
	converter portssvc.Converter
}

func newRateHandler(converter portssvc.Converter) *rateHandler {
	return &rateHandler{converter: converter}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, converter portssvc.Converter) {
	h := newRateHandler(converter)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRateTable)
		rates.PUT("", h.setRate)
		rates.POST("/refresh", h.refreshRates)
		rates.GET("/convert", h.convert)
	}
}

// getRateTable returns the full conversion table.
func (h *rateHandler) getRateTable(c *gin.Context) {
	table := h.converter.RateTable(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToRateTableResponse(table))
}

// setRate upserts one exchange rate.
func (h *rateHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.converter.SetRate(c.Request.Context(), req.CurrencyCode, req.Rate, userID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to set rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to set rate"})
		}
		return
	}

	logger.Info("Rate updated",
		slog.String("currency", req.CurrencyCode),
		slog.String("rate", req.Rate.String()))
	c.JSON(http.StatusOK, dto.ToRateTableResponse(h.converter.RateTable(c.Request.Context())))
}

// refreshRates replaces the table from the configured external source. The
// result is 200 even on refresh failure; the body carries the outcome and
// the table is guaranteed untouched when Success is false.
func (h *rateHandler) refreshRates(c *gin.Context) {
	result := h.converter.RefreshRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToRefreshResultResponse(result))
}

// convert translates an amount between two currencies through the base.
func (h *rateHandler) convert(c *gin.Context) {
	amountStr := c.Query("amount")
	from := c.Query("from")
	to := c.Query("to")
	if amountStr == "" || from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount, from and to query parameters are required"})
		return
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount: " + amountStr})
		return
	}

	converted := h.converter.Convert(c.Request.Context(), amount, from, to)
	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
	})
}
