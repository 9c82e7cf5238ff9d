package domain

import "github.com/google/uuid"

// ReleaseKind is what happened to the transaction built from a locked wallet.
type ReleaseKind string

const (
	// ReleaseSubmitted: transaction reached the chain, wallet now waits on it.
	ReleaseSubmitted ReleaseKind = "SUBMITTED"
	// ReleaseConfirmed: pending transaction settled.
	ReleaseConfirmed ReleaseKind = "CONFIRMED"
	// ReleaseFailed: transaction failed permanently.
	ReleaseFailed ReleaseKind = "FAILED"
	// ReleaseAbandoned: claim handed back before anything was submitted.
	ReleaseAbandoned ReleaseKind = "ABANDONED"
)

// ReleaseOutcome is reported by the transaction submitter for a wallet it was handed.
// LockID names the lock being released; it must match the wallet's current lock token.
type ReleaseOutcome struct {
	Kind          ReleaseKind
	LockID        uuid.UUID
	TransactionID uuid.UUID
}

// OutcomeSubmitted reports that txID was built from the wallet held under lockID.
func OutcomeSubmitted(lockID, txID uuid.UUID) ReleaseOutcome {
	return ReleaseOutcome{Kind: ReleaseSubmitted, LockID: lockID, TransactionID: txID}
}

// OutcomeConfirmed reports that the pending transaction under lockID settled.
func OutcomeConfirmed(lockID uuid.UUID) ReleaseOutcome {
	return ReleaseOutcome{Kind: ReleaseConfirmed, LockID: lockID}
}

// OutcomeFailed reports that the transaction under lockID failed permanently.
func OutcomeFailed(lockID uuid.UUID) ReleaseOutcome {
	return ReleaseOutcome{Kind: ReleaseFailed, LockID: lockID}
}

// OutcomeAbandoned hands back the lock lockID before anything was submitted.
func OutcomeAbandoned(lockID uuid.UUID) ReleaseOutcome {
	return ReleaseOutcome{Kind: ReleaseAbandoned, LockID: lockID}
}

// Valid reports whether the outcome is well formed.
func (o ReleaseOutcome) Valid() bool {
	if o.LockID == uuid.Nil {
		return false
	}
	switch o.Kind {
	case ReleaseSubmitted:
		return o.TransactionID != uuid.Nil
	case ReleaseConfirmed, ReleaseFailed, ReleaseAbandoned:
		return true
	default:
		return false
	}
}

// Apply computes the wallet state after the outcome. ok is false if w is not held
// under o.LockID or does not hold the lock or pending transaction the outcome releases.
// The token stays on the wallet until it is free again.
func (o ReleaseOutcome) Apply(w HotWallet) (HotWallet, bool) {
	if w.LockID == nil || *w.LockID != o.LockID {
		return w, false
	}
	switch o.Kind {
	case ReleaseSubmitted:
		if w.LockedAt == nil || w.PendingTransactionID != nil {
			return w, false
		}
		id := o.TransactionID
		w.LockedAt = nil
		w.PendingTransactionID = &id
		return w, true
	case ReleaseAbandoned:
		if w.LockedAt == nil || w.PendingTransactionID != nil {
			return w, false
		}
	case ReleaseConfirmed, ReleaseFailed:
		if w.IsFree() {
			return w, false
		}
	default:
		return w, false
	}
	w.LockedAt = nil
	w.PendingTransactionID = nil
	w.LockID = nil
	return w, true
}
