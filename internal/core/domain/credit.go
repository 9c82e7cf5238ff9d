package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// UnitAmount is a quantity of one asset unit in its smallest denomination.
type UnitAmount struct {
	Unit   string `json:"unit"`
	Amount int64  `json:"amount"`
}

// CreditLedgerEntry records one purchase-credit reservation. ID is the idempotency key.
type CreditLedgerEntry struct {
	ID        string       `json:"id"`
	BuyerID   uuid.UUID    `json:"buyer_id"`
	Cost      []UnitAmount `json:"cost"`
	CreatedAt time.Time    `json:"created_at"`
}

// CreditTopUp records an idempotent balance top-up. ID is the caller's key.
type CreditTopUp struct {
	ID        string       `json:"id"`
	BuyerID   uuid.UUID    `json:"buyer_id"`
	Amounts   []UnitAmount `json:"amounts"`
	CreatedAt time.Time    `json:"created_at"`
}

// BuyerBalance is a buyer's remaining credited balance for one unit.
type BuyerBalance struct {
	BuyerID uuid.UUID `json:"buyer_id"`
	Unit    string    `json:"unit"`
	Amount  int64     `json:"amount"`
}

// UnitTotal is an aggregated per-unit amount. Totals keep first-seen unit order.
type UnitTotal struct {
	Unit   string
	Amount int64
}

var (
	ErrEmptyCost      = errors.New("cost must contain at least one unit")
	ErrEmptyUnit      = errors.New("unit must not be empty")
	ErrNonPositive    = errors.New("amount must be positive")
	ErrAmountOverflow = errors.New("amount overflows")
)

// TotalsByUnit validates amounts and sums them per unit.
func TotalsByUnit(amounts []UnitAmount) ([]UnitTotal, error) {
	if len(amounts) == 0 {
		return nil, ErrEmptyCost
	}
	idx := make(map[string]int, len(amounts))
	var totals []UnitTotal
	for _, a := range amounts {
		if a.Unit == "" {
			return nil, ErrEmptyUnit
		}
		if a.Amount <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrNonPositive, a.Unit)
		}
		i, ok := idx[a.Unit]
		if !ok {
			idx[a.Unit] = len(totals)
			totals = append(totals, UnitTotal{Unit: a.Unit, Amount: a.Amount})
			continue
		}
		if totals[i].Amount > math.MaxInt64-a.Amount {
			return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, a.Unit)
		}
		totals[i].Amount += a.Amount
	}
	return totals, nil
}
