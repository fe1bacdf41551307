// Package bech32 provides an address validator for bech32 chains.
package bech32

import (
	"strings"

	"github.com/cosmos/btcutil/bech32"

	"github.com/artpar/tokengate/ports"
)

// Validator checks bech32 address syntax, optionally pinned to one
// human-readable prefix.
type Validator struct {
	hrp string
}

// NewValidator creates a validator. An empty hrp accepts any prefix.
func NewValidator(hrp string) Validator {
	return Validator{hrp: hrp}
}

// Validate reports whether addr is a well-formed bech32 address.
func (v Validator) Validate(addr string) bool {
	if addr != strings.ToLower(addr) {
		return false
	}
	hrp, _, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return false
	}
	return v.hrp == "" || hrp == v.hrp
}

var _ ports.AddressValidator = Validator{}
