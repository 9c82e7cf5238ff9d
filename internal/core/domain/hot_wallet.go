package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletRole is the purpose a hot wallet signs for.
type WalletRole string

const (
	WalletRoleSelling    WalletRole = "SELLING"
	WalletRolePurchasing WalletRole = "PURCHASING"
	WalletRoleCollateral WalletRole = "COLLATERAL"
)

// HotWallet is a managed signing wallet bound to a payment source.
// It references its pending transaction by id only. LockID is the token of the
// claim that holds it, set from lock until the wallet is free again.
type HotWallet struct {
	ID                   uuid.UUID  `json:"id"`
	PaymentSourceID      uuid.UUID  `json:"payment_source_id"`
	Role                 WalletRole `json:"role"`
	LockedAt             *time.Time `json:"locked_at,omitempty"`
	PendingTransactionID *uuid.UUID `json:"pending_transaction_id,omitempty"`
	LockID               *uuid.UUID `json:"lock_id,omitempty"`
}

// IsFree returns true if the wallet is neither locked nor waiting on a transaction.
func (w *HotWallet) IsFree() bool {
	return w.LockedAt == nil && w.PendingTransactionID == nil
}

// IsLocked returns true if a worker currently holds the wallet.
func (w *HotWallet) IsLocked() bool {
	return w.LockedAt != nil
}
