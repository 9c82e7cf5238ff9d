package domain

import "time"

// CooldownElapsed reports whether enough time has passed since the seller wallet's
// last observed on-chain datum for its outputs to be reused safely.
func CooldownElapsed(req *PaymentRequest, source *PaymentSource, now time.Time) bool {
	return now.Sub(req.SellerCoolDownTime) >= source.CooldownTime
}
