package domain

import (
	"time"

	"github.com/google/uuid"
)

// Network identifies the chain a payment source settles on.
type Network string

const (
	NetworkMainnet Network = "MAINNET"
	NetworkPreprod Network = "PREPROD"
)

// PaymentSource is a configured escrow contract endpoint.
type PaymentSource struct {
	ID             uuid.UUID     `json:"id"`
	Network        Network       `json:"network"`
	SyncInProgress bool          `json:"sync_in_progress"`
	DeletedAt      *time.Time    `json:"deleted_at,omitempty"`
	CooldownTime   time.Duration `json:"cooldown_time"`
}

// IsActive reports whether workers may consider this source.
func (s *PaymentSource) IsActive() bool {
	return !s.SyncInProgress && s.DeletedAt == nil
}
