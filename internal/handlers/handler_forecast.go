package handlers

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/flowlance/finplan_backend/internal/middleware"
	"github.com/flowlance/finplan_backend/internal/utils/finmath"
	"github.com/gin-gonic/gin"
)

// defaultForecastMonths is how far past the current month the projection
// extends when the caller does not say.
const defaultForecastMonths = 3

// defaultIRRGuess seeds the Newton-Raphson iteration when the request leaves
// the guess unset.
const defaultIRRGuess = 0.1

// forecastHandler handles HTTP requests for forecasting and cash analytics.
type forecastHandler struct {
	forecastService portssvc.ForecastSvcFacade
}

func newForecastHandler(fs portssvc.ForecastSvcFacade) *forecastHandler {
	return &forecastHandler{forecastService: fs}
}

// registerForecastRoutes registers routes related to forecasting.
func registerForecastRoutes(rg *gin.RouterGroup, forecastService portssvc.ForecastSvcFacade) {
	h := newForecastHandler(forecastService)

	forecast := rg.Group("/forecast")
	{
		forecast.GET("", h.generateForecast)
		forecast.GET("/cash-metrics", h.cashMetrics)
		forecast.POST("/npv", h.npv)
		forecast.POST("/irr", h.irr)
		forecast.POST("/future-value", h.futureValue)
	}
}

// generateForecast returns the monthly revenue series with the regression
// projection appended.
func (h *forecastHandler) generateForecast(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")
	months, err := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(defaultForecastMonths)))
	if err != nil || months < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "months must be a non-negative integer"})
		return
	}

	forecast, err := h.forecastService.GenerateForecast(c.Request.Context(), currency, months, time.Now())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to generate forecast", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate forecast"})
		return
	}
	c.JSON(http.StatusOK, dto.ToForecastResponse(forecast))
}

// cashMetrics returns the burn rate over a trailing window and the runway the
// given balance sustains.
func (h *forecastHandler) cashMetrics(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")

	balance, err := strconv.ParseFloat(c.DefaultQuery("balance", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "balance must be a number"})
		return
	}
	months, err := strconv.Atoi(c.DefaultQuery("months", "3"))
	if err != nil || months <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "months must be a positive integer"})
		return
	}

	metrics, err := h.forecastService.CashMetrics(c.Request.Context(), currency, balance, months, time.Now())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to compute cash metrics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute cash metrics"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCashMetricsResponse(metrics))
}

// npv evaluates the net present value of a cash flow series.
func (h *forecastHandler) npv(c *gin.Context) {
	var req dto.NPVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rate": req.Rate,
		"npv":  finmath.NPV(req.CashFlows, req.Rate),
	})
}

// irr solves for the internal rate of return of a cash flow series.
func (h *forecastHandler) irr(c *gin.Context) {
	var req dto.IRRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	guess := req.Guess
	if guess == 0 {
		guess = defaultIRRGuess
	}
	rate := finmath.IRR(req.CashFlows, guess)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "IRR did not converge for the given cash flows"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"irr": rate})
}

// futureValue compounds a present value at a periodic rate.
func (h *forecastHandler) futureValue(c *gin.Context) {
	var req dto.FutureValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"presentValue": req.PresentValue,
		"rate":         req.Rate,
		"periods":      req.Periods,
		"futureValue":  finmath.FutureValue(req.PresentValue, req.Rate, req.Periods),
	})
}
