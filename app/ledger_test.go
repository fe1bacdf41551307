package app_test

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/artpar/tokengate/app"
	"github.com/artpar/tokengate/domain/supply"
)

func amt(v int64) math.Int { return math.NewInt(v) }

func recv(addr string, v int64) supply.Receiver {
	return supply.Receiver{Address: addr, Amount: amt(v)}
}

func mustInit(t *testing.T, svc *app.LedgerService, init app.LedgerInit) {
	t.Helper()
	if err := svc.Instantiate(context.Background(), admin, init); err != nil {
		t.Fatalf("instantiate: %v", err)
	}
}

func TestLedger_Instantiate(t *testing.T) {
	svc, host := newLedger(t)
	ctx := context.Background()

	mustInit(t, svc, app.LedgerInit{
		Symbol:        "GOLD",
		InitialSupply: amt(100),
		MaxSupply:     amt(300),
	})

	denom := supply.DeriveDenom(contract, "GOLD")
	current, err := host.SupplyOf(ctx, denom)
	if err != nil {
		t.Fatal(err)
	}
	if !current.Equal(amt(100)) {
		t.Errorf("host supply = %s, want 100", current)
	}
	held, _ := host.BalanceOf(ctx, denom, contract)
	if !held.Equal(amt(100)) {
		t.Errorf("initial supply not held by contract: %s", held)
	}
	authority, err := host.DenomAuthority(ctx, denom)
	if err != nil || authority != contract {
		t.Errorf("authority = %q, %v; want contract", authority, err)
	}

	info, err := svc.TokenInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.Symbol != "GOLD" || info.Denom != denom {
		t.Errorf("TokenInfo identity = %+v", info)
	}
	if !info.Minted.Equal(amt(100)) || !info.MaxSupply.Equal(amt(300)) {
		t.Errorf("TokenInfo bookkeeping = %+v", info)
	}
}

func TestLedger_InstantiateInitialOverMax(t *testing.T) {
	svc, _ := newLedger(t)
	err := svc.Instantiate(context.Background(), admin, app.LedgerInit{
		Symbol:        "GOLD",
		InitialSupply: amt(500),
		MaxSupply:     amt(300),
	})
	if !errors.Is(err, supply.ErrSupplyCap) {
		t.Errorf("instantiate over cap = %v, want ErrSupplyCap", err)
	}
}

func TestLedger_InstantiateRejectsNegativeSupply(t *testing.T) {
	ctx := context.Background()

	svc, _ := newLedger(t)
	err := svc.Instantiate(ctx, admin, app.LedgerInit{
		Symbol:        "GOLD",
		InitialSupply: amt(-50),
		MaxSupply:     amt(100),
	})
	if err == nil {
		t.Fatal("negative initial supply accepted")
	}
	if _, err := svc.TokenInfo(ctx); err == nil {
		t.Error("rejected instantiation still persisted ledger state")
	}

	svc, _ = newLedger(t)
	err = svc.Instantiate(ctx, admin, app.LedgerInit{
		Symbol:    "GOLD",
		MaxSupply: amt(-1),
	})
	if err == nil {
		t.Fatal("negative max supply accepted")
	}
}

func TestLedger_InstantiateUncapped(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{Symbol: "SAND", InitialSupply: amt(500)})

	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 1_000_000)}); err != nil {
		t.Errorf("uncapped mint = %v, want nil", err)
	}
}

func TestLedger_MintLifecycle(t *testing.T) {
	svc, host := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{
		Symbol:        "GOLD",
		InitialSupply: amt(100),
		MaxSupply:     amt(300),
	})
	denom := supply.DeriveDenom(contract, "GOLD")

	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 100)}); err != nil {
		t.Fatalf("first mint: %v", err)
	}
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(bob, 100)}); err != nil {
		t.Fatalf("second mint: %v", err)
	}

	// the cap is now exhausted
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 1)}); !errors.Is(err, supply.ErrSupplyCap) {
		t.Errorf("mint past cap = %v, want ErrSupplyCap", err)
	}

	// burn out of the contract's initial holding
	if err := svc.Burn(ctx, admin, amt(100)); err != nil {
		t.Fatalf("burn: %v", err)
	}

	info, err := svc.TokenInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !info.CurrentSupply.Equal(amt(200)) {
		t.Errorf("current supply = %s, want 200", info.CurrentSupply)
	}
	if !info.Minted.Equal(amt(300)) {
		t.Errorf("minted high-water mark = %s, want 300", info.Minted)
	}
	if !info.Burned.Equal(amt(100)) {
		t.Errorf("burned = %s, want 100", info.Burned)
	}

	// burning does not reopen the cap
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 1)}); !errors.Is(err, supply.ErrSupplyCap) {
		t.Errorf("mint after burn = %v, want ErrSupplyCap", err)
	}
	m, err := svc.Mintable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !m.CapReached || m.Revoked {
		t.Errorf("Mintable = %+v, want cap_reached without revocation", m)
	}

	got, _ := host.BalanceOf(ctx, denom, alice)
	if !got.Equal(amt(100)) {
		t.Errorf("alice balance = %s, want 100", got)
	}
}

func TestLedger_MintBatchValidation(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{Symbol: "GOLD", MaxSupply: amt(300)})

	if err := svc.Mint(ctx, alice, []supply.Receiver{recv(alice, 10)}); !errors.Is(err, supply.ErrUnauthorized) {
		t.Errorf("non-admin mint = %v, want ErrUnauthorized", err)
	}

	var bad supply.MintInvalidError
	err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 10), recv(bob, 0)})
	if !errors.As(err, &bad) || bad.Index != 1 {
		t.Errorf("zero-amount entry = %v, want MintInvalidError{1}", err)
	}
	err = svc.Mint(ctx, admin, []supply.Receiver{recv("cosmos1foreign", 10)})
	if !errors.As(err, &bad) || bad.Index != 0 {
		t.Errorf("foreign address entry = %v, want MintInvalidError{0}", err)
	}

	// a batch whose sum crosses the cap is rejected whole
	err = svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 200), recv(bob, 101)})
	if !errors.Is(err, supply.ErrSupplyCap) {
		t.Errorf("over-cap batch = %v, want ErrSupplyCap", err)
	}
	info, _ := svc.TokenInfo(ctx)
	if !info.Minted.IsZero() {
		t.Errorf("failed batch moved the high-water mark to %s", info.Minted)
	}
}

func TestLedger_Send(t *testing.T) {
	svc, host := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{Symbol: "GOLD", InitialSupply: amt(100)})
	denom := supply.DeriveDenom(contract, "GOLD")

	if err := svc.Send(ctx, alice, []supply.Receiver{recv(bob, 10)}); !errors.Is(err, supply.ErrUnauthorized) {
		t.Errorf("non-admin send = %v, want ErrUnauthorized", err)
	}

	var bad supply.TransferInvalidError
	err := svc.Send(ctx, admin, []supply.Receiver{recv(alice, 10), {Address: bob, Amount: math.Int{}}})
	if !errors.As(err, &bad) || bad.Index != 1 {
		t.Errorf("nil-amount entry = %v, want TransferInvalidError{1}", err)
	}

	if err := svc.Send(ctx, admin, []supply.Receiver{recv(alice, 60), recv(bob, 40)}); err != nil {
		t.Fatalf("send: %v", err)
	}
	a, _ := host.BalanceOf(ctx, denom, alice)
	b, _ := host.BalanceOf(ctx, denom, bob)
	held, _ := host.BalanceOf(ctx, denom, contract)
	if !a.Equal(amt(60)) || !b.Equal(amt(40)) || !held.IsZero() {
		t.Errorf("balances after send = alice %s, bob %s, contract %s", a, b, held)
	}
}

func TestLedger_UpdateSupply(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{
		Symbol:        "GOLD",
		InitialSupply: amt(100),
		MaxSupply:     amt(300),
	})

	if err := svc.UpdateSupply(ctx, alice, amt(500)); !errors.Is(err, supply.ErrUnauthorized) {
		t.Errorf("non-admin update = %v, want ErrUnauthorized", err)
	}
	// below what is already minted
	if err := svc.UpdateSupply(ctx, admin, amt(99)); !errors.Is(err, supply.ErrCurrentSupply) {
		t.Errorf("cap below minted = %v, want ErrCurrentSupply", err)
	}
	// raise the cap and mint into the new room
	if err := svc.UpdateSupply(ctx, admin, amt(500)); err != nil {
		t.Fatalf("raise cap: %v", err)
	}
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 400)}); err != nil {
		t.Errorf("mint into raised cap = %v, want nil", err)
	}
	// zero removes the cap entirely
	if err := svc.UpdateSupply(ctx, admin, math.ZeroInt()); err != nil {
		t.Fatalf("remove cap: %v", err)
	}
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 1_000_000)}); err != nil {
		t.Errorf("uncapped mint = %v, want nil", err)
	}
}

func TestLedger_Revoke(t *testing.T) {
	svc, host := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{Symbol: "GOLD", MaxSupply: amt(300)})
	denom := supply.DeriveDenom(contract, "GOLD")

	if err := svc.Revoke(ctx, alice); !errors.Is(err, supply.ErrUnauthorized) {
		t.Errorf("non-admin revoke = %v, want ErrUnauthorized", err)
	}
	if err := svc.Revoke(ctx, admin); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	authority, err := host.DenomAuthority(ctx, denom)
	if err != nil {
		t.Fatal(err)
	}
	if authority == contract {
		t.Error("authority unchanged after revoke")
	}
	m, err := svc.Mintable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Revoked || m.CapReached {
		t.Errorf("Mintable = %+v, want revoked", m)
	}
}

// A mint after revocation still commits locally: the bookkeeping moves, the
// host rejects the instruction, and the two never reconcile.
func TestLedger_MintAfterRevokeDiverges(t *testing.T) {
	svc, host := newLedger(t)
	ctx := context.Background()
	mustInit(t, svc, app.LedgerInit{Symbol: "GOLD", MaxSupply: amt(300)})
	denom := supply.DeriveDenom(contract, "GOLD")

	if err := svc.Revoke(ctx, admin); err != nil {
		t.Fatal(err)
	}
	if err := svc.Mint(ctx, admin, []supply.Receiver{recv(alice, 50)}); err != nil {
		t.Fatalf("post-revoke mint returned %v; delivery failures do not fail the invocation", err)
	}

	info, err := svc.TokenInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Minted.Equal(amt(50)) {
		t.Errorf("local high-water mark = %s, want 50", info.Minted)
	}
	current, _ := host.SupplyOf(ctx, denom)
	if !current.IsZero() {
		t.Errorf("host supply = %s, want 0", current)
	}
}
