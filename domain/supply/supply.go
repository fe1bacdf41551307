// Package supply provides the capped-supply ledger state and its pure
// bookkeeping rules. Actual issuance and destruction of units is delegated
// to the host's token module via emitted instructions.
package supply

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/btcutil/bech32"
)

// Subspace prepended to the symbol when deriving the host denom, marking the
// unit as created by this contract.
const subdenomPrefix = "tfa/"

// Ledger is the singleton supply state. MaxSupply of zero means uncapped.
// TotalMinted is a non-decreasing high-water mark, not a circulating balance.
type Ledger struct {
	Admin       string   `json:"admin"`
	Symbol      string   `json:"symbol"`
	Denom       string   `json:"denom"`
	MaxSupply   math.Int `json:"max_supply"`
	TotalMinted math.Int `json:"total_minted"`
}

// Receiver is a single (address, amount) entry in a mint or send batch.
type Receiver struct {
	Address string   `json:"address"`
	Amount  math.Int `json:"amount"`
}

// Subdenom returns the host-module subdenom for a symbol.
func Subdenom(symbol string) string {
	return subdenomPrefix + symbol
}

// DeriveDenom returns the full host denom for a unit created by contract.
func DeriveDenom(contract, symbol string) string {
	return fmt.Sprintf("factory/%s/%s", contract, Subdenom(symbol))
}

// NullAuthority derives an unusable authority address on the contract's own
// chain: the bech32 encoding of twenty zero bytes under the contract
// address's prefix.
func NullAuthority(contract string) (string, error) {
	hrp, _, err := bech32.DecodeNoLimit(contract)
	if err != nil {
		return "", fmt.Errorf("decode contract address: %w", err)
	}
	words, err := bech32.ConvertBits(make([]byte, 20), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert null payload: %w", err)
	}
	return bech32.Encode(hrp, words)
}

// CheckMint validates a prospective mint of total against the cap.
// This is a PURE function.
func (l Ledger) CheckMint(total math.Int) error {
	if l.MaxSupply.IsZero() {
		return nil
	}
	if l.TotalMinted.Add(total).GT(l.MaxSupply) {
		return ErrSupplyCap
	}
	return nil
}

// CheckNewMax validates a replacement supply cap. Zero removes the cap;
// otherwise the cap may never drop below what was already minted.
// This is a PURE function.
func (l Ledger) CheckNewMax(newMax math.Int) error {
	if newMax.IsZero() {
		return nil
	}
	if newMax.LT(l.TotalMinted) {
		return ErrCurrentSupply
	}
	return nil
}

// CapReached reports whether the mint cap is exhausted.
func (l Ledger) CapReached() bool {
	return !l.MaxSupply.IsZero() && l.TotalMinted.Equal(l.MaxSupply)
}

// SumReceivers validates a batch and returns its total. A zero amount or an
// address rejected by valid fails with the index of the offending entry.
// This is a PURE function.
func SumReceivers(receivers []Receiver, valid func(string) bool) (math.Int, int) {
	total := math.ZeroInt()
	for i, r := range receivers {
		if r.Amount.IsNil() || r.Amount.IsZero() || r.Amount.IsNegative() || !valid(r.Address) {
			return math.ZeroInt(), i
		}
		total = total.Add(r.Amount)
	}
	return total, -1
}

// Burned derives the best-effort burned amount from the mint high-water mark
// and the host-reported circulating supply. The figure is only accurate if
// every non-circulating minted unit was destroyed through this contract's
// own burn path, so it saturates at zero instead of going negative.
// This is a PURE function.
func Burned(minted, circulating math.Int) math.Int {
	if circulating.GT(minted) {
		return math.ZeroInt()
	}
	return minted.Sub(circulating)
}
