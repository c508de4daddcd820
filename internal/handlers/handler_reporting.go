package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/flowlance/finplan_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for revenue aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/revenue", h.revenueSummary)
		reports.GET("/totals", h.totalByStatus)
		reports.GET("/breakdown", h.breakdownByCurrency)
	}
}

// statusFilterFromQuery parses the optional status query parameter. An empty
// value means no filter; an unknown label is reported to the caller.
func statusFilterFromQuery(c *gin.Context) (*domain.InvoiceStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := domain.InvoiceStatus(strings.ToUpper(raw))
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown invoice status: " + raw})
		return nil, false
	}
	return &status, true
}

// revenueSummary returns the four revenue aggregates in one currency.
func (h *reportingHandler) revenueSummary(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")

	summary, err := h.reportingService.RevenueSummary(c.Request.Context(), currency)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to compute revenue summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute revenue summary"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRevenueSummaryResponse(summary))
}

// totalByStatus returns the converted sum of invoice totals for an optional
// status filter.
func (h *reportingHandler) totalByStatus(c *gin.Context) {
	currency := c.DefaultQuery("currency", "USD")
	statusFilter, ok := statusFilterFromQuery(c)
	if !ok {
		return
	}

	total, err := h.reportingService.TotalByStatus(c.Request.Context(), statusFilter, currency)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to compute status total", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute status total"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currencyCode": strings.ToUpper(currency),
		"status":       c.Query("status"),
		"total":        total,
	})
}

// breakdownByCurrency returns native-currency sums with no conversion.
func (h *reportingHandler) breakdownByCurrency(c *gin.Context) {
	statusFilter, ok := statusFilterFromQuery(c)
	if !ok {
		return
	}

	sums, err := h.reportingService.BreakdownByCurrency(c.Request.Context(), statusFilter)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to compute currency breakdown", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute currency breakdown"})
		return
	}
	c.JSON(http.StatusOK, dto.CurrencyBreakdownResponse{
		Status: c.Query("status"),
		Sums:   sums,
	})
}
