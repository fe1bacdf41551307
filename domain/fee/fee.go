// Package fee provides the admission gate for non-privileged catalog writes.
package fee

import (
	"errors"

	"cosmossdk.io/math"
)

// Admission gate errors, in evaluation order.
var (
	ErrMissingFee      = errors.New("no fee payment attached")
	ErrMultipleFees    = errors.New("fee must be paid in a single denomination")
	ErrInvalidFee      = errors.New("attached denomination is not an accepted fee token")
	ErrInsufficientFee = errors.New("attached amount does not cover the listing fee")
)

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// NewCoin creates a Coin.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: math.NewInt(amount)}
}

// CheckAdmission validates the funds attached to a batch write against a fee
// schedule. The per-item fee is charged once per batch item; overpayment is
// accepted. Callers skip the gate entirely for admins and when no schedule
// is configured.
// This is a PURE function.
func CheckAdmission(funds, schedule []Coin, items int) error {
	if len(funds) == 0 {
		return ErrMissingFee
	}
	// only one fee denomination may be used per call, even if the schedule
	// accepts several
	if len(funds) > 1 {
		return ErrMultipleFees
	}

	paid := funds[0]
	for _, c := range schedule {
		if c.Denom != paid.Denom {
			continue
		}
		if c.Amount.MulRaw(int64(items)).GT(paid.Amount) {
			return ErrInsufficientFee
		}
		return nil
	}
	return ErrInvalidFee
}
