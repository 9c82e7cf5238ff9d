package dto

import (
	"regexp"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// ToDomain converts request amounts to domain amounts, keeping order.
func ToDomain(amounts []UnitAmount) []domain.UnitAmount {
	out := make([]domain.UnitAmount, len(amounts))
	for i, a := range amounts {
		out[i] = domain.UnitAmount{Unit: a.Unit, Amount: a.Amount}
	}
	return out
}

// FromDomain converts domain amounts to response amounts, keeping order.
func FromDomain(amounts []domain.UnitAmount) []UnitAmount {
	out := make([]UnitAmount, len(amounts))
	for i, a := range amounts {
		out[i] = UnitAmount{Unit: a.Unit, Amount: a.Amount}
	}
	return out
}
