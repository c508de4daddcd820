package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/dto"
	"github.com/flowlance/finplan_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions and the
// recurring materializer.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	recurringService   portssvc.RecurringSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, rs portssvc.RecurringSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		recurringService:   rs,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, recurringService portssvc.RecurringSvcFacade) {
	h := newTransactionHandler(transactionService, recurringService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.POST("/materialize", h.materialize)
	}
}

// createTransaction records a new transaction. Recurring masters are caught
// up by a materializer pass before the response is returned.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions returns every transaction, masters and history alike.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	txns, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// getTransaction returns one transaction by ID.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// materialize runs one explicit materializer pass and reports what it did.
func (h *transactionHandler) materialize(c *gin.Context) {
	result, err := h.recurringService.Materialize(c.Request.Context(), time.Now())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Materializer pass failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Materializer pass failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ToMaterializeResponse(result))
}
