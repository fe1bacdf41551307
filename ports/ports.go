// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"

	"cosmossdk.io/math"

	"github.com/artpar/tokengate/domain/effect"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// AddressValidator checks address syntax. Validation rules belong to the
// host chain, not to this module.
type AddressValidator interface {
	Validate(addr string) bool
}

// -----------------------------------------------------------------------------
// Storage Port
// -----------------------------------------------------------------------------

// ErrStopRange stops a Range walk early without error.
var ErrStopRange = errors.New("stop range")

// KVStore is the host-provided deterministic key-value store. A nil value
// from Get means the key is absent. Range visits keys under prefix in
// ascending byte order, strictly after startAfter when non-nil, calling fn
// for at most limit entries (0 = unlimited); fn may return ErrStopRange to
// finish early.
type KVStore interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	Range(ctx context.Context, prefix, startAfter []byte, limit int, fn func(key, value []byte) error) error
}

// Write is one entry in a batched flush. A nil Value marks a delete.
type Write struct {
	Key   []byte
	Value []byte
}

// BatchWriter is an optional KVStore capability: applying a whole batch of
// writes so that either all of them land or none do.
type BatchWriter interface {
	ApplyBatch(ctx context.Context, writes []Write) error
}

// -----------------------------------------------------------------------------
// Host Module Ports
// -----------------------------------------------------------------------------

// HostModule receives emitted instructions after local commit. Delivery
// failures surface under the host's own rules and are never folded back
// into the already-committed invocation.
type HostModule interface {
	Deliver(ctx context.Context, in effect.Instruction) error
}

// HostQuerier reads live state from the host token and bank modules.
type HostQuerier interface {
	// SupplyOf returns the circulating supply of denom.
	SupplyOf(ctx context.Context, denom string) (math.Int, error)

	// DenomAuthority returns the current issuance authority of denom.
	DenomAuthority(ctx context.Context, denom string) (string, error)
}
