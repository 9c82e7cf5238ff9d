package postgres

import (
	"context"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
)

// SourceRepo implements ports.PaymentSourceRepository.
type SourceRepo struct {
	q Querier
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(q Querier) *SourceRepo {
	return &SourceRepo{q: q}
}

// ListActive returns sources that are neither syncing nor deleted.
func (r *SourceRepo) ListActive(ctx context.Context) ([]domain.PaymentSource, error) {
	query := `SELECT id, network, sync_in_progress, deleted_at, cooldown_ms
		FROM payment_sources
		WHERE sync_in_progress = false AND deleted_at IS NULL
		ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("list active sources", err)
	}
	defer rows.Close()

	var sources []domain.PaymentSource
	for rows.Next() {
		var (
			s          domain.PaymentSource
			cooldownMS int64
		)
		if err := rows.Scan(&s.ID, &s.Network, &s.SyncInProgress, &s.DeletedAt, &cooldownMS); err != nil {
			return nil, mapError("scan payment source", err)
		}
		s.CooldownTime = time.Duration(cooldownMS) * time.Millisecond
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate payment sources", err)
	}
	return sources, nil
}
