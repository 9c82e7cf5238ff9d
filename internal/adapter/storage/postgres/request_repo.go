package postgres

import (
	"context"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// PaymentRequestRepo implements ports.PaymentRequestRepository.
type PaymentRequestRepo struct {
	q Querier
}

// NewPaymentRequestRepo creates a new PaymentRequestRepo.
func NewPaymentRequestRepo(q Querier) *PaymentRequestRepo {
	return &PaymentRequestRepo{q: q}
}

// ListAwaiting returns requests of a source whose next action is action and has not failed.
func (r *PaymentRequestRepo) ListAwaiting(ctx context.Context, sourceID uuid.UUID, action domain.PaymentAction) ([]domain.PaymentRequest, error) {
	query := `SELECT id, payment_source_id, next_action_phase, requested_action, error_type, error_note, result_hash,
			submit_result_time, refund_time, unlock_time, seller_cool_down_time, smart_contract_wallet_id
		FROM payment_requests
		WHERE payment_source_id = $1 AND next_action_phase = $2 AND requested_action = $3 AND error_type IS NULL
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, sourceID, domain.PhaseAwaitingAction, action)
	if err != nil {
		return nil, mapError("list awaiting payment requests", err)
	}
	defer rows.Close()

	var out []domain.PaymentRequest
	for rows.Next() {
		var (
			p          domain.PaymentRequest
			errorType  *string
			errorNote  *string
			resultHash *string
		)
		if err := rows.Scan(
			&p.ID, &p.PaymentSourceID, &p.NextAction.Phase, &p.NextAction.RequestedAction,
			&errorType, &errorNote, &resultHash,
			&p.SubmitResultTime, &p.RefundTime, &p.UnlockTime, &p.SellerCoolDownTime, &p.SmartContractWalletID,
		); err != nil {
			return nil, mapError("scan payment request", err)
		}
		if errorType != nil {
			p.NextAction.Failure = &domain.ActionFailure{Type: *errorType}
			if errorNote != nil {
				p.NextAction.Failure.Message = *errorNote
			}
		}
		if resultHash != nil {
			p.NextAction.ResultHash = *resultHash
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate payment requests", err)
	}
	return out, nil
}

// RegistryRequestRepo implements ports.RegistryRequestRepository.
type RegistryRequestRepo struct {
	q Querier
}

// NewRegistryRequestRepo creates a new RegistryRequestRepo.
func NewRegistryRequestRepo(q Querier) *RegistryRequestRepo {
	return &RegistryRequestRepo{q: q}
}

// ListByState returns a source's registry requests in state. A NULL wallet_id is Unbound.
func (r *RegistryRequestRepo) ListByState(ctx context.Context, sourceID uuid.UUID, state domain.RegistrationState) ([]domain.RegistryRequest, error) {
	query := `SELECT id, payment_source_id, state, wallet_id
		FROM registry_requests
		WHERE payment_source_id = $1 AND state = $2
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, sourceID, state)
	if err != nil {
		return nil, mapError("list registry requests", err)
	}
	defer rows.Close()

	var out []domain.RegistryRequest
	for rows.Next() {
		var (
			req      domain.RegistryRequest
			walletID *uuid.UUID
		)
		if err := rows.Scan(&req.ID, &req.PaymentSourceID, &req.State, &walletID); err != nil {
			return nil, mapError("scan registry request", err)
		}
		if walletID != nil {
			req.Wallet = domain.Bound(*walletID)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate registry requests", err)
	}
	return out, nil
}

// CollateralRequestRepo implements ports.CollateralRequestRepository.
type CollateralRequestRepo struct {
	q Querier
}

// NewCollateralRequestRepo creates a new CollateralRequestRepo.
func NewCollateralRequestRepo(q Querier) *CollateralRequestRepo {
	return &CollateralRequestRepo{q: q}
}

// ListByState returns a source's collateral requests in state.
func (r *CollateralRequestRepo) ListByState(ctx context.Context, sourceID uuid.UUID, state domain.CollateralState) ([]domain.CollateralRequest, error) {
	query := `SELECT id, payment_source_id, state, smart_contract_wallet_id
		FROM collateral_requests
		WHERE payment_source_id = $1 AND state = $2
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, sourceID, state)
	if err != nil {
		return nil, mapError("list collateral requests", err)
	}
	defer rows.Close()

	var out []domain.CollateralRequest
	for rows.Next() {
		var req domain.CollateralRequest
		if err := rows.Scan(&req.ID, &req.PaymentSourceID, &req.State, &req.SmartContractWalletID); err != nil {
			return nil, mapError("scan collateral request", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate collateral requests", err)
	}
	return out, nil
}
