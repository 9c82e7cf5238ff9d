package handler

import (
	"context"
	"time"

	"escrow-wallet-ledger/internal/adapter/http/dto"
	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/service"
	"escrow-wallet-ledger/pkg/apperror"
	"escrow-wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditHandler handles credit ledger endpoints. Writes are retried on
// serialization conflicts under retry before a 503 reaches the caller.
type CreditHandler struct {
	ledger ports.CreditLedger
	retry  service.RetryPolicy
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(ledger ports.CreditLedger, retry service.RetryPolicy) *CreditHandler {
	return &CreditHandler{ledger: ledger, retry: retry}
}

// ReserveCredit handles POST /api/v1/credits/reservations.
func (h *CreditHandler) ReserveCredit(c *gin.Context) {
	var req dto.ReserveCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	buyerID, cost := uuid.MustParse(req.BuyerID), dto.ToDomain(req.Cost)
	entry, err := service.RetryOnConflict(c.Request.Context(), h.retry, func(ctx context.Context) (*domain.CreditLedgerEntry, error) {
		return h.ledger.ReserveCredit(ctx, req.ID, buyerID, cost)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toEntryResponse(entry))
}

// GetEntry handles GET /api/v1/credits/reservations/:id.
func (h *CreditHandler) GetEntry(c *gin.Context) {
	entry, err := h.ledger.Entry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toEntryResponse(entry))
}

// Credit handles POST /api/v1/buyers/:buyer_id/credits.
func (h *CreditHandler) Credit(c *gin.Context) {
	buyerID, ok := buyerParam(c)
	if !ok {
		return
	}

	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amounts := dto.ToDomain(req.Amounts)
	balances, err := service.RetryOnConflict(c.Request.Context(), h.retry, func(ctx context.Context) ([]domain.BuyerBalance, error) {
		return h.ledger.Credit(ctx, req.ID, buyerID, amounts)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBalanceResponse(buyerID, balances))
}

// GetBalance handles GET /api/v1/buyers/:buyer_id/balance.
func (h *CreditHandler) GetBalance(c *gin.Context) {
	buyerID, ok := buyerParam(c)
	if !ok {
		return
	}

	balances, err := h.ledger.Balances(c.Request.Context(), buyerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBalanceResponse(buyerID, balances))
}

func buyerParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("buyer_id"))
	if err != nil {
		response.Error(c, apperror.Validation("buyer_id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func toEntryResponse(e *domain.CreditLedgerEntry) dto.CreditEntryResponse {
	return dto.CreditEntryResponse{
		ID:        e.ID,
		BuyerID:   e.BuyerID.String(),
		Cost:      dto.FromDomain(e.Cost),
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBalanceResponse(buyerID uuid.UUID, balances []domain.BuyerBalance) dto.BalanceResponse {
	resp := dto.BalanceResponse{
		BuyerID:  buyerID.String(),
		Balances: make([]dto.UnitAmount, 0, len(balances)),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, dto.UnitAmount{Unit: b.Unit, Amount: b.Amount})
	}
	return resp
}
