package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreditRepo implements ports.CreditRepository.
type CreditRepo struct {
	q Querier
}

// NewCreditRepo creates a new CreditRepo.
func NewCreditRepo(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

// GetEntry fetches a ledger entry by id. Returns nil, nil when absent.
func (r *CreditRepo) GetEntry(ctx context.Context, id string) (*domain.CreditLedgerEntry, error) {
	query := `SELECT id, buyer_id, cost, created_at FROM credit_ledger_entries WHERE id = $1`

	var (
		e    domain.CreditLedgerEntry
		cost []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&e.ID, &e.BuyerID, &cost, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get ledger entry", err)
	}
	if err := json.Unmarshal(cost, &e.Cost); err != nil {
		return nil, fmt.Errorf("decode ledger entry cost: %w", err)
	}
	return &e, nil
}

// CreateEntry inserts a ledger entry. A duplicate id surfaces as a serialization conflict.
func (r *CreditRepo) CreateEntry(ctx context.Context, entry *domain.CreditLedgerEntry) error {
	cost, err := json.Marshal(entry.Cost)
	if err != nil {
		return fmt.Errorf("encode ledger entry cost: %w", err)
	}

	query := `INSERT INTO credit_ledger_entries (id, buyer_id, cost, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, entry.ID, entry.BuyerID, cost, entry.CreatedAt); err != nil {
		return mapError("insert ledger entry", err)
	}
	return nil
}

// GetTopUp fetches a keyed top-up by id. Returns nil, nil when absent.
func (r *CreditRepo) GetTopUp(ctx context.Context, id string) (*domain.CreditTopUp, error) {
	query := `SELECT id, buyer_id, amounts, created_at FROM credit_topups WHERE id = $1`

	var (
		t       domain.CreditTopUp
		amounts []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.BuyerID, &amounts, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get top-up", err)
	}
	if err := json.Unmarshal(amounts, &t.Amounts); err != nil {
		return nil, fmt.Errorf("decode top-up amounts: %w", err)
	}
	return &t, nil
}

// CreateTopUp inserts a keyed top-up. A duplicate id surfaces as a serialization conflict.
func (r *CreditRepo) CreateTopUp(ctx context.Context, topUp *domain.CreditTopUp) error {
	amounts, err := json.Marshal(topUp.Amounts)
	if err != nil {
		return fmt.Errorf("encode top-up amounts: %w", err)
	}

	query := `INSERT INTO credit_topups (id, buyer_id, amounts, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, topUp.ID, topUp.BuyerID, amounts, topUp.CreatedAt); err != nil {
		return mapError("insert top-up", err)
	}
	return nil
}

// GetBalance reads and row-locks one unit balance.
func (r *CreditRepo) GetBalance(ctx context.Context, buyerID uuid.UUID, unit string) (int64, error) {
	query := `SELECT amount FROM buyer_balances WHERE buyer_id = $1 AND unit = $2 FOR UPDATE`

	var amount int64
	err := r.q.QueryRow(ctx, query, buyerID, unit).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, mapError("get balance", err)
	}
	return amount, nil
}

// AddBalance upserts delta into a unit balance. The amount >= 0 check constraint
// rejects overdrafts.
func (r *CreditRepo) AddBalance(ctx context.Context, buyerID uuid.UUID, unit string, delta int64) error {
	query := `INSERT INTO buyer_balances (buyer_id, unit, amount, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (buyer_id, unit) DO UPDATE
		SET amount = buyer_balances.amount + EXCLUDED.amount, updated_at = NOW()`

	if _, err := r.q.Exec(ctx, query, buyerID, unit, delta); err != nil {
		return mapError("add balance", err)
	}
	return nil
}

// ListBalances returns every unit balance of a buyer ordered by unit.
func (r *CreditRepo) ListBalances(ctx context.Context, buyerID uuid.UUID) ([]domain.BuyerBalance, error) {
	query := `SELECT buyer_id, unit, amount FROM buyer_balances WHERE buyer_id = $1 ORDER BY unit`

	rows, err := r.q.Query(ctx, query, buyerID)
	if err != nil {
		return nil, mapError("list balances", err)
	}
	defer rows.Close()

	var out []domain.BuyerBalance
	for rows.Next() {
		var b domain.BuyerBalance
		if err := rows.Scan(&b.BuyerID, &b.Unit, &b.Amount); err != nil {
			return nil, mapError("scan balance", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate balances", err)
	}
	return out, nil
}
