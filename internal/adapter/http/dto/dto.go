package dto

// UnitAmount is a quantity of one asset unit in its smallest denomination.
type UnitAmount struct {
	Unit   string `json:"unit" binding:"required,safe_id,max=120"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// ReserveCreditRequest is the request body for a credit reservation.
// ID is the caller's idempotency key.
type ReserveCreditRequest struct {
	ID      string       `json:"id" binding:"required,safe_id,max=128"`
	BuyerID string       `json:"buyer_id" binding:"required,uuid"`
	Cost    []UnitAmount `json:"cost" binding:"required,min=1,dive"`
}

// CreditRequest is the request body for funding a buyer. ID is an optional
// idempotency key; a repeated ID credits only once.
type CreditRequest struct {
	ID      string       `json:"id,omitempty" binding:"omitempty,safe_id,max=128"`
	Amounts []UnitAmount `json:"amounts" binding:"required,min=1,dive"`
}

// ReleaseRequest is the submitter's report for a wallet it was handed.
// LockID is the token the wallet was claimed under.
type ReleaseRequest struct {
	Outcome       string  `json:"outcome" binding:"required,oneof=SUBMITTED CONFIRMED FAILED ABANDONED"`
	LockID        string  `json:"lock_id" binding:"required,uuid"`
	TransactionID *string `json:"transaction_id,omitempty" binding:"omitempty,uuid"`
}

// CreditEntryResponse is the response body for a ledger entry.
type CreditEntryResponse struct {
	ID        string       `json:"id"`
	BuyerID   string       `json:"buyer_id"`
	Cost      []UnitAmount `json:"cost"`
	CreatedAt string       `json:"created_at"`
}

// BalanceResponse lists a buyer's remaining balance per unit.
type BalanceResponse struct {
	BuyerID  string       `json:"buyer_id"`
	Balances []UnitAmount `json:"balances"`
}

// WalletResponse is the wallet state after a release.
type WalletResponse struct {
	ID                   string  `json:"id"`
	PaymentSourceID      string  `json:"payment_source_id"`
	Role                 string  `json:"role"`
	LockedAt             *string `json:"locked_at,omitempty"`
	PendingTransactionID *string `json:"pending_transaction_id,omitempty"`
}
