package domain

import "github.com/google/uuid"

// Claim pairs a request with the wallet locked for it. LockID must accompany
// every release of the wallet.
type Claim struct {
	Request Request   `json:"request"`
	Wallet  HotWallet `json:"wallet"`
	LockID  uuid.UUID `json:"lock_id"`
}

// SourceBatch holds the claims made under one payment source.
type SourceBatch struct {
	Source PaymentSource `json:"source"`
	Claims []Claim       `json:"claims"`
}

// Batch is the result of one lock acquisition, ordered by source id.
type Batch []SourceBatch

// Len returns the total number of claims across sources.
func (b Batch) Len() int {
	n := 0
	for _, sb := range b {
		n += len(sb.Claims)
	}
	return n
}

// Wallets returns every locked wallet in batch order.
func (b Batch) Wallets() []HotWallet {
	out := make([]HotWallet, 0, b.Len())
	for _, sb := range b {
		for _, c := range sb.Claims {
			out = append(out, c.Wallet)
		}
	}
	return out
}
