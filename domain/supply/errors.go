package supply

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when a non-admin calls a ledger operation.
	ErrUnauthorized = errors.New("not authorized to perform this action")

	// ErrSupplyCap is returned when a mint would exceed the max supply.
	ErrSupplyCap = errors.New("cannot mint more than max supply")

	// ErrCurrentSupply is returned when a new cap is below the minted total.
	ErrCurrentSupply = errors.New("cannot reduce max supply below current supply")
)

// MintInvalidError identifies a bad entry in a mint batch.
type MintInvalidError struct {
	Index int
}

func (e MintInvalidError) Error() string {
	return fmt.Sprintf("invalid mint message at index %d", e.Index)
}

// TransferInvalidError identifies a bad entry in a send batch.
type TransferInvalidError struct {
	Index int
}

func (e TransferInvalidError) Error() string {
	return fmt.Sprintf("invalid transfer message at index %d", e.Index)
}
