// Package hostsim simulates the host chain's token and bank modules for
// tests and local sandbox runs. It applies delivered instructions under the
// host's own rules, independently of the contract state that emitted them:
// an instruction can still fail here after the emitting invocation has
// already committed.
package hostsim

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"

	"github.com/artpar/tokengate/domain/effect"
	"github.com/artpar/tokengate/ports"
)

// Host-side rule violations.
var (
	ErrDenomExists         = errors.New("denom already exists")
	ErrDenomNotFound       = errors.New("denom does not exist")
	ErrNotAuthority        = errors.New("sender is not the denom authority")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Module is an in-process host ledger module backed by a KVStore, so its
// state survives across CLI runs alongside the contract state.
type Module struct {
	store ports.KVStore
}

// New creates a simulated host module over store.
func New(store ports.KVStore) *Module {
	return &Module{store: store}
}

func authorityKey(denom string) []byte { return []byte("a/" + denom) }
func supplyKey(denom string) []byte    { return []byte("s/" + denom) }
func balanceKey(denom, addr string) []byte {
	return []byte("b/" + denom + "/" + addr)
}

// Deliver applies one instruction.
func (m *Module) Deliver(ctx context.Context, in effect.Instruction) error {
	switch in.Kind {
	case effect.KindCreateDenom:
		return m.createDenom(ctx, in)
	case effect.KindMint:
		return m.mint(ctx, in)
	case effect.KindBurn:
		return m.burn(ctx, in)
	case effect.KindSend:
		return m.send(ctx, in)
	case effect.KindChangeAdmin:
		return m.changeAdmin(ctx, in)
	}
	return fmt.Errorf("unknown instruction kind %q", in.Kind)
}

func (m *Module) createDenom(ctx context.Context, in effect.Instruction) error {
	denom := fmt.Sprintf("factory/%s/%s", in.Sender, in.Subdenom)
	existing, err := m.store.Get(ctx, authorityKey(denom))
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDenomExists
	}
	if err := m.store.Set(ctx, authorityKey(denom), []byte(in.Sender)); err != nil {
		return err
	}
	return m.setAmount(ctx, supplyKey(denom), math.ZeroInt())
}

func (m *Module) mint(ctx context.Context, in effect.Instruction) error {
	if err := m.requireAuthority(ctx, in.Denom, in.Sender); err != nil {
		return err
	}
	if err := m.addAmount(ctx, supplyKey(in.Denom), in.Amount); err != nil {
		return err
	}
	return m.addAmount(ctx, balanceKey(in.Denom, in.Address), in.Amount)
}

func (m *Module) burn(ctx context.Context, in effect.Instruction) error {
	if err := m.requireAuthority(ctx, in.Denom, in.Sender); err != nil {
		return err
	}
	if err := m.subAmount(ctx, balanceKey(in.Denom, in.Sender), in.Amount); err != nil {
		return err
	}
	return m.subAmount(ctx, supplyKey(in.Denom), in.Amount)
}

func (m *Module) send(ctx context.Context, in effect.Instruction) error {
	if err := m.subAmount(ctx, balanceKey(in.Denom, in.Sender), in.Amount); err != nil {
		return err
	}
	return m.addAmount(ctx, balanceKey(in.Denom, in.Address), in.Amount)
}

func (m *Module) changeAdmin(ctx context.Context, in effect.Instruction) error {
	if err := m.requireAuthority(ctx, in.Denom, in.Sender); err != nil {
		return err
	}
	return m.store.Set(ctx, authorityKey(in.Denom), []byte(in.Address))
}

// SupplyOf returns the circulating supply of denom; zero for unknown denoms,
// matching the host bank module's behavior.
func (m *Module) SupplyOf(ctx context.Context, denom string) (math.Int, error) {
	return m.getAmount(ctx, supplyKey(denom))
}

// DenomAuthority returns the current issuance authority of denom.
func (m *Module) DenomAuthority(ctx context.Context, denom string) (string, error) {
	raw, err := m.store.Get(ctx, authorityKey(denom))
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", ErrDenomNotFound
	}
	return string(raw), nil
}

// BalanceOf returns addr's balance of denom (for testing).
func (m *Module) BalanceOf(ctx context.Context, denom, addr string) (math.Int, error) {
	return m.getAmount(ctx, balanceKey(denom, addr))
}

func (m *Module) requireAuthority(ctx context.Context, denom, sender string) error {
	authority, err := m.DenomAuthority(ctx, denom)
	if err != nil {
		return err
	}
	if authority != sender {
		return ErrNotAuthority
	}
	return nil
}

func (m *Module) getAmount(ctx context.Context, key []byte) (math.Int, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		return math.ZeroInt(), err
	}
	if raw == nil {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(string(raw))
	if !ok {
		return math.ZeroInt(), fmt.Errorf("corrupt amount at %q", key)
	}
	return v, nil
}

func (m *Module) setAmount(ctx context.Context, key []byte, v math.Int) error {
	return m.store.Set(ctx, key, []byte(v.String()))
}

func (m *Module) addAmount(ctx context.Context, key []byte, delta math.Int) error {
	v, err := m.getAmount(ctx, key)
	if err != nil {
		return err
	}
	return m.setAmount(ctx, key, v.Add(delta))
}

func (m *Module) subAmount(ctx context.Context, key []byte, delta math.Int) error {
	v, err := m.getAmount(ctx, key)
	if err != nil {
		return err
	}
	if v.LT(delta) {
		return ErrInsufficientBalance
	}
	return m.setAmount(ctx, key, v.Sub(delta))
}

var (
	_ ports.HostModule  = (*Module)(nil)
	_ ports.HostQuerier = (*Module)(nil)
)
