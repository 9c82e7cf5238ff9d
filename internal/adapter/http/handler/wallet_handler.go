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

// WalletHandler receives release callbacks from the transaction submitter.
type WalletHandler struct {
	locks ports.WalletLockManager
	retry service.RetryPolicy
}

// NewWalletHandler creates a new WalletHandler. Releases that hit a
// serialization conflict are retried under retry.
func NewWalletHandler(locks ports.WalletLockManager, retry service.RetryPolicy) *WalletHandler {
	return &WalletHandler{locks: locks, retry: retry}
}

// Release handles POST /api/v1/wallets/:wallet_id/release.
func (h *WalletHandler) Release(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet_id must be a UUID"))
		return
	}

	var req dto.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	outcome := domain.ReleaseOutcome{
		Kind:   domain.ReleaseKind(req.Outcome),
		LockID: uuid.MustParse(req.LockID),
	}
	if req.TransactionID != nil {
		outcome.TransactionID = uuid.MustParse(*req.TransactionID)
	}

	wallet, err := service.RetryOnConflict(c.Request.Context(), h.retry, func(ctx context.Context) (*domain.HotWallet, error) {
		return h.locks.Release(ctx, walletID, outcome)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

func toWalletResponse(w *domain.HotWallet) dto.WalletResponse {
	resp := dto.WalletResponse{
		ID:              w.ID.String(),
		PaymentSourceID: w.PaymentSourceID.String(),
		Role:            string(w.Role),
	}
	if w.LockedAt != nil {
		s := w.LockedAt.UTC().Format(time.RFC3339)
		resp.LockedAt = &s
	}
	if w.PendingTransactionID != nil {
		s := w.PendingTransactionID.String()
		resp.PendingTransactionID = &s
	}
	return resp
}
