package app

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/artpar/tokengate/domain/effect"
	"github.com/artpar/tokengate/domain/supply"
	"github.com/artpar/tokengate/ports"
	"github.com/artpar/tokengate/state"
)

var (
	adminItem  = state.NewItem[string](state.LedgerAdminKey)
	symbolItem = state.NewItem[string](state.LedgerSymbolKey)
	denomItem  = state.NewItem[string](state.LedgerDenomKey)
	maxItem    = state.NewItem[math.Int](state.MaxSupplyKey)
	mintedItem = state.NewItem[math.Int](state.TotalMintedKey)
)

// LedgerService handles the capped-supply ledger. Issuance and destruction
// happen in the host's token module; this service only keeps the
// authorization and cap bookkeeping and emits instructions.
type LedgerService struct {
	inv      *invoker
	store    ports.KVStore
	addr     ports.AddressValidator
	querier  ports.HostQuerier
	contract string
}

// LedgerDeps contains dependencies for LedgerService.
type LedgerDeps struct {
	Store   ports.KVStore
	Addr    ports.AddressValidator
	Host    ports.HostModule
	Querier ports.HostQuerier
	IDGen   ports.IDGenerator
	Logger  zerolog.Logger
	Metrics *Metrics

	// Contract is this instance's own address on the host chain.
	Contract string
}

// NewLedgerService creates a new supply ledger service.
func NewLedgerService(deps LedgerDeps) *LedgerService {
	return &LedgerService{
		inv: &invoker{
			service: "ledger",
			store:   deps.Store,
			host:    deps.Host,
			idgen:   deps.IDGen,
			logger:  deps.Logger.With().Str("service", "ledger").Logger(),
			metrics: deps.Metrics,
		},
		store:    deps.Store,
		addr:     deps.Addr,
		querier:  deps.Querier,
		contract: deps.Contract,
	}
}

// LedgerInit carries ledger instantiation parameters. Admin defaults to the
// sender; zero max supply means uncapped.
type LedgerInit struct {
	Symbol        string   `json:"symbol"`
	InitialSupply math.Int `json:"initial_supply,omitempty"`
	MaxSupply     math.Int `json:"max_supply,omitempty"`
	Admin         string   `json:"admin,omitempty"`
}

// Instantiate registers the unit with the host module and optionally mints
// the initial supply to the contract itself.
func (s *LedgerService) Instantiate(ctx context.Context, sender string, init LedgerInit) error {
	return s.inv.run(ctx, "instantiate", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		admin := init.Admin
		if admin == "" {
			admin = sender
		}
		if !s.addr.Validate(admin) {
			return nil, fmt.Errorf("invalid admin address %q", admin)
		}

		initial := orZero(init.InitialSupply)
		max := orZero(init.MaxSupply)
		if initial.IsNegative() {
			return nil, fmt.Errorf("initial supply must not be negative, got %s", initial)
		}
		if max.IsNegative() {
			return nil, fmt.Errorf("max supply must not be negative, got %s", max)
		}
		if initial.GT(max) && !max.IsZero() {
			return nil, supply.ErrSupplyCap
		}

		denom := supply.DeriveDenom(s.contract, init.Symbol)
		if err := adminItem.Save(ctx, st, admin); err != nil {
			return nil, err
		}
		if err := symbolItem.Save(ctx, st, init.Symbol); err != nil {
			return nil, err
		}
		if err := denomItem.Save(ctx, st, denom); err != nil {
			return nil, err
		}
		if err := maxItem.Save(ctx, st, max); err != nil {
			return nil, err
		}
		if err := mintedItem.Save(ctx, st, initial); err != nil {
			return nil, err
		}

		effects := []effect.Instruction{
			effect.CreateDenom(s.contract, supply.Subdenom(init.Symbol)),
		}
		if !initial.IsZero() {
			effects = append(effects, effect.Mint(s.contract, denom, initial, s.contract))
		}
		return effects, nil
	})
}

// Mint issues units to the batch of receivers, admin only. The mint
// high-water mark moves before the host confirms anything.
func (s *LedgerService) Mint(ctx context.Context, sender string, receivers []supply.Receiver) error {
	return s.inv.run(ctx, "mint", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		led, err := s.load(ctx, st)
		if err != nil {
			return nil, err
		}
		if sender != led.Admin {
			return nil, supply.ErrUnauthorized
		}

		total, bad := supply.SumReceivers(receivers, s.addr.Validate)
		if bad >= 0 {
			return nil, supply.MintInvalidError{Index: bad}
		}
		if err := led.CheckMint(total); err != nil {
			return nil, err
		}

		if err := mintedItem.Save(ctx, st, led.TotalMinted.Add(total)); err != nil {
			return nil, err
		}

		effects := make([]effect.Instruction, 0, len(receivers))
		for _, r := range receivers {
			effects = append(effects, effect.Mint(s.contract, led.Denom, r.Amount, r.Address))
		}
		return effects, nil
	})
}

// Burn destroys amount out of the contract's own held balance, admin only.
// TotalMinted is a high-water mark and does not decrease.
func (s *LedgerService) Burn(ctx context.Context, sender string, amount math.Int) error {
	return s.inv.run(ctx, "burn", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		led, err := s.load(ctx, st)
		if err != nil {
			return nil, err
		}
		if sender != led.Admin {
			return nil, supply.ErrUnauthorized
		}
		return []effect.Instruction{effect.Burn(s.contract, led.Denom, amount)}, nil
	})
}

// Send transfers contract-held units to the batch of receivers, admin only.
func (s *LedgerService) Send(ctx context.Context, sender string, receivers []supply.Receiver) error {
	return s.inv.run(ctx, "send", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		led, err := s.load(ctx, st)
		if err != nil {
			return nil, err
		}
		if sender != led.Admin {
			return nil, supply.ErrUnauthorized
		}

		if _, bad := supply.SumReceivers(receivers, s.addr.Validate); bad >= 0 {
			return nil, supply.TransferInvalidError{Index: bad}
		}

		effects := make([]effect.Instruction, 0, len(receivers))
		for _, r := range receivers {
			effects = append(effects, effect.Send(s.contract, led.Denom, r.Amount, r.Address))
		}
		return effects, nil
	})
}

// UpdateSupply replaces the cap, admin only. Zero removes it.
func (s *LedgerService) UpdateSupply(ctx context.Context, sender string, newMax math.Int) error {
	return s.inv.run(ctx, "update_supply", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		led, err := s.load(ctx, st)
		if err != nil {
			return nil, err
		}
		if sender != led.Admin {
			return nil, supply.ErrUnauthorized
		}
		if err := led.CheckNewMax(orZero(newMax)); err != nil {
			return nil, err
		}
		return nil, maxItem.Save(ctx, st, orZero(newMax))
	})
}

// Revoke hands issuance authority to the null address, admin only and
// one-way. The local ledger does not record it; only the host module's
// authority answer reveals it afterwards.
func (s *LedgerService) Revoke(ctx context.Context, sender string) error {
	return s.inv.run(ctx, "revoke", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		led, err := s.load(ctx, st)
		if err != nil {
			return nil, err
		}
		if sender != led.Admin {
			return nil, supply.ErrUnauthorized
		}

		null, err := supply.NullAuthority(s.contract)
		if err != nil {
			return nil, err
		}
		return []effect.Instruction{effect.ChangeAdmin(s.contract, led.Denom, null)}, nil
	})
}

// TokenInfo is the supply summary answered by the ledger.
type TokenInfo struct {
	Symbol        string   `json:"symbol"`
	Denom         string   `json:"denom"`
	CurrentSupply math.Int `json:"current_supply"`
	MaxSupply     math.Int `json:"max_supply"`
	Minted        math.Int `json:"minted"`
	Burned        math.Int `json:"burned"`
}

// TokenInfo reports local bookkeeping next to the host's live supply.
// Burned is best-effort: it assumes everything minted but not circulating
// went through this contract's own burn path.
func (s *LedgerService) TokenInfo(ctx context.Context) (TokenInfo, error) {
	led, err := s.load(ctx, s.store)
	if err != nil {
		return TokenInfo{}, err
	}
	current, err := s.querier.SupplyOf(ctx, led.Denom)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("query supply: %w", err)
	}
	return TokenInfo{
		Symbol:        led.Symbol,
		Denom:         led.Denom,
		CurrentSupply: current,
		MaxSupply:     led.MaxSupply,
		Minted:        led.TotalMinted,
		Burned:        supply.Burned(led.TotalMinted, current),
	}, nil
}

// Mintable reports whether more units can ever be issued.
type Mintable struct {
	CapReached bool `json:"cap_reached"`
	Revoked    bool `json:"revoked"`
}

// Mintable checks the cap against local bookkeeping and the issuance
// authority against the host module.
func (s *LedgerService) Mintable(ctx context.Context) (Mintable, error) {
	led, err := s.load(ctx, s.store)
	if err != nil {
		return Mintable{}, err
	}
	authority, err := s.querier.DenomAuthority(ctx, led.Denom)
	if err != nil {
		return Mintable{}, fmt.Errorf("query authority: %w", err)
	}
	return Mintable{
		CapReached: led.CapReached(),
		Revoked:    authority != s.contract,
	}, nil
}

func (s *LedgerService) load(ctx context.Context, st ports.KVStore) (supply.Ledger, error) {
	admin, err := adminItem.Load(ctx, st)
	if err != nil {
		return supply.Ledger{}, fmt.Errorf("load admin: %w", err)
	}
	symbol, err := symbolItem.Load(ctx, st)
	if err != nil {
		return supply.Ledger{}, fmt.Errorf("load symbol: %w", err)
	}
	denom, err := denomItem.Load(ctx, st)
	if err != nil {
		return supply.Ledger{}, fmt.Errorf("load denom: %w", err)
	}
	max, err := maxItem.Load(ctx, st)
	if err != nil {
		return supply.Ledger{}, fmt.Errorf("load max supply: %w", err)
	}
	minted, err := mintedItem.Load(ctx, st)
	if err != nil {
		return supply.Ledger{}, fmt.Errorf("load total minted: %w", err)
	}
	return supply.Ledger{
		Admin:       admin,
		Symbol:      symbol,
		Denom:       denom,
		MaxSupply:   max,
		TotalMinted: minted,
	}, nil
}

func orZero(v math.Int) math.Int {
	if v.IsNil() {
		return math.ZeroInt()
	}
	return v
}
