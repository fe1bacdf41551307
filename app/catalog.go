package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/tokengate/domain/catalog"
	"github.com/artpar/tokengate/domain/effect"
	"github.com/artpar/tokengate/domain/fee"
	"github.com/artpar/tokengate/domain/listing"
	"github.com/artpar/tokengate/ports"
	"github.com/artpar/tokengate/state"
)

// MaxPageLimit caps and defaults the page size of the All query.
const MaxPageLimit = 250

var (
	configItem = state.NewItem[catalog.Config](state.CatalogConfigKey)
	denomMap   = state.NewMap[listing.Listing](state.DenomPrefix)
	symbolMap  = state.NewMap[string](state.SymbolPrefix)
)

// CatalogService handles the permissioned dual-index catalog.
type CatalogService struct {
	inv   *invoker
	store ports.KVStore
	addr  ports.AddressValidator
}

// CatalogDeps contains dependencies for CatalogService.
type CatalogDeps struct {
	Store   ports.KVStore
	Addr    ports.AddressValidator
	IDGen   ports.IDGenerator
	Logger  zerolog.Logger
	Metrics *Metrics
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(deps CatalogDeps) *CatalogService {
	return &CatalogService{
		inv: &invoker{
			service: "catalog",
			store:   deps.Store,
			idgen:   deps.IDGen,
			logger:  deps.Logger.With().Str("service", "catalog").Logger(),
			metrics: deps.Metrics,
		},
		store: deps.Store,
		addr:  deps.Addr,
	}
}

// CatalogInit carries catalog instantiation parameters. Owner defaults to
// the sender; the sender always joins the admin set.
type CatalogInit struct {
	Owner              string          `json:"owner,omitempty"`
	Admins             []string        `json:"admins,omitempty"`
	AddPermissioned    bool            `json:"add_permissioned,omitempty"`
	RemovePermissioned bool            `json:"remove_permissioned,omitempty"`
	RequiredFields     []listing.Field `json:"required_fields,omitempty"`
	Fee                []fee.Coin      `json:"fee,omitempty"`
}

// Instantiate writes the initial catalog configuration.
func (s *CatalogService) Instantiate(ctx context.Context, sender string, init CatalogInit) error {
	return s.inv.run(ctx, "instantiate", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		for _, a := range init.Admins {
			if !s.addr.Validate(a) {
				return nil, fmt.Errorf("invalid admin address %q", a)
			}
		}
		owner := init.Owner
		if owner == "" {
			owner = sender
		} else if !s.addr.Validate(owner) {
			return nil, fmt.Errorf("invalid owner address %q", owner)
		}
		for _, f := range init.RequiredFields {
			if _, err := listing.ParseField(string(f)); err != nil {
				return nil, err
			}
		}

		cfg := catalog.Config{
			Owner:              owner,
			Admins:             append(append([]string{}, init.Admins...), sender),
			AddPermissioned:    init.AddPermissioned,
			RemovePermissioned: init.RemovePermissioned,
			RequiredFields:     init.RequiredFields,
			Fee:                init.Fee,
		}
		return nil, configItem.Save(ctx, st, cfg)
	})
}

// Add lists new denoms. The whole batch commits or none of it does.
func (s *CatalogService) Add(ctx context.Context, inv Invocation, items []listing.Metadata) error {
	return s.inv.run(ctx, "add_listings", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		cfg, err := configItem.Load(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		admin := cfg.IsAdmin(inv.Sender)

		if cfg.AddPermissioned && !admin {
			return nil, catalog.ErrAddPermissioned
		}
		// admins are exempt from the listing fee
		if !admin && len(cfg.Fee) > 0 {
			if err := fee.CheckAdmission(inv.Funds, cfg.Fee, len(items)); err != nil {
				return nil, err
			}
		}

		for _, m := range items {
			if ok, err := denomMap.Has(ctx, st, m.Denom); err != nil {
				return nil, err
			} else if ok {
				return nil, listing.DuplicateError{Key: m.Denom}
			}
			if ok, err := symbolMap.Has(ctx, st, m.Symbol); err != nil {
				return nil, err
			} else if ok {
				return nil, listing.DuplicateError{Key: m.Symbol}
			}
			if err := listing.CheckRequired(cfg.RequiredFields, m); err != nil {
				return nil, err
			}

			author := inv.Sender
			if admin {
				author = ""
			}
			if err := denomMap.Set(ctx, st, m.Denom, listing.Listing{Author: author, Metadata: m}); err != nil {
				return nil, err
			}
			if err := symbolMap.Set(ctx, st, m.Symbol, m.Denom); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// Update edits existing listings in place. Authorship is preserved: an admin
// editing a listing does not take it over.
func (s *CatalogService) Update(ctx context.Context, inv Invocation, items []listing.Metadata) error {
	return s.inv.run(ctx, "update_listings", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		cfg, err := configItem.Load(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		admin := cfg.IsAdmin(inv.Sender)

		if cfg.AddPermissioned && !admin {
			return nil, catalog.ErrRemovePermissioned
		}

		for _, m := range items {
			current, err := denomMap.Get(ctx, st, m.Denom)
			if errors.Is(err, state.ErrNotFound) {
				return nil, listing.NotFoundError{Key: m.Denom}
			}
			if err != nil {
				return nil, err
			}

			if !listing.CanModify(current, inv.Sender, admin) {
				return nil, catalog.ErrUnauthorized
			}

			if current.Metadata.Symbol != m.Symbol {
				if ok, err := symbolMap.Has(ctx, st, m.Symbol); err != nil {
					return nil, err
				} else if ok {
					return nil, listing.DuplicateError{Key: m.Symbol}
				}
				if err := symbolMap.Delete(ctx, st, current.Metadata.Symbol); err != nil {
					return nil, err
				}
			}
			if err := listing.CheckRequired(cfg.RequiredFields, m); err != nil {
				return nil, err
			}

			if err := denomMap.Set(ctx, st, m.Denom, listing.Listing{Author: current.Author, Metadata: m}); err != nil {
				return nil, err
			}
			if err := symbolMap.Set(ctx, st, m.Symbol, m.Denom); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// Remove unlists denoms and frees their symbols for reuse.
func (s *CatalogService) Remove(ctx context.Context, inv Invocation, denoms []string) error {
	return s.inv.run(ctx, "remove_listings", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		cfg, err := configItem.Load(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		admin := cfg.IsAdmin(inv.Sender)

		if cfg.RemovePermissioned && !admin {
			return nil, catalog.ErrRemovePermissioned
		}

		for _, denom := range denoms {
			current, err := denomMap.Get(ctx, st, denom)
			if errors.Is(err, state.ErrNotFound) {
				return nil, listing.NotFoundError{Key: denom}
			}
			if err != nil {
				return nil, err
			}

			if !listing.CanModify(current, inv.Sender, admin) {
				return nil, catalog.ErrUnauthorized
			}

			if err := denomMap.Delete(ctx, st, denom); err != nil {
				return nil, err
			}
			if err := symbolMap.Delete(ctx, st, current.Metadata.Symbol); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// UpdateConfig applies a partial configuration update. Owner only.
func (s *CatalogService) UpdateConfig(ctx context.Context, inv Invocation, upd catalog.Update) error {
	return s.inv.run(ctx, "update_config", func(ctx context.Context, st ports.KVStore) ([]effect.Instruction, error) {
		cfg, err := configItem.Load(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if !cfg.IsOwner(inv.Sender) {
			return nil, catalog.ErrNotOwner
		}

		if upd.Owner != nil && !s.addr.Validate(*upd.Owner) {
			return nil, fmt.Errorf("invalid owner address %q", *upd.Owner)
		}
		if upd.Admins != nil {
			for _, a := range *upd.Admins {
				if !s.addr.Validate(a) {
					return nil, fmt.Errorf("invalid admin address %q", a)
				}
			}
		}
		if upd.RequiredFields != nil {
			for _, f := range *upd.RequiredFields {
				if _, err := listing.ParseField(string(f)); err != nil {
					return nil, err
				}
			}
		}

		return nil, configItem.Save(ctx, st, catalog.Merge(cfg, upd))
	})
}

// ByDenom returns metadata for each denom, erroring if any is missing.
func (s *CatalogService) ByDenom(ctx context.Context, denoms []string) ([]listing.Metadata, error) {
	out := make([]listing.Metadata, 0, len(denoms))
	for _, denom := range denoms {
		l, err := denomMap.Get(ctx, s.store, denom)
		if errors.Is(err, state.ErrNotFound) {
			return nil, listing.NotFoundError{Key: denom}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, l.Metadata)
	}
	return out, nil
}

// BySymbol resolves symbols through the reverse index, erroring if any is
// missing.
func (s *CatalogService) BySymbol(ctx context.Context, symbols []string) ([]listing.Metadata, error) {
	out := make([]listing.Metadata, 0, len(symbols))
	for _, symbol := range symbols {
		denom, err := symbolMap.Get(ctx, s.store, symbol)
		if errors.Is(err, state.ErrNotFound) {
			return nil, listing.NotFoundError{Key: symbol}
		}
		if err != nil {
			return nil, err
		}
		l, err := denomMap.Get(ctx, s.store, denom)
		if errors.Is(err, state.ErrNotFound) {
			return nil, listing.NotFoundError{Key: symbol}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, l.Metadata)
	}
	return out, nil
}

// All pages listings ascending by denom. startAfter is an exclusive cursor;
// limit defaults to MaxPageLimit and is clamped to it. An empty catalog
// yields an empty page, never an error.
func (s *CatalogService) All(ctx context.Context, startAfter string, limit int) ([]listing.Metadata, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	out := make([]listing.Metadata, 0, limit)
	err := denomMap.Walk(ctx, s.store, startAfter, limit, func(_ string, l listing.Listing) error {
		out = append(out, l.Metadata)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Config returns the current catalog configuration.
func (s *CatalogService) Config(ctx context.Context) (catalog.Config, error) {
	cfg, err := configItem.Load(ctx, s.store)
	if err != nil {
		return catalog.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
