package app_test

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/artpar/tokengate/adapters/hostsim"
	"github.com/artpar/tokengate/adapters/idgen"
	"github.com/artpar/tokengate/adapters/memory"
	"github.com/artpar/tokengate/app"
)

// Checksummed bech32 contract address; Revoke derives the null authority
// from it.
const (
	contract = "osmo1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5z5tpwxqergd3c8g7rusq4z5ese"

	owner    = "osmo1owner"
	admin    = "osmo1admin"
	alice    = "osmo1alice"
	bob      = "osmo1bob"
	stranger = "osmo1stranger"
)

// prefixValidator accepts any osmo1-prefixed address, standing in for the
// host's syntax check.
type prefixValidator struct{}

func (prefixValidator) Validate(addr string) bool {
	return strings.HasPrefix(addr, "osmo1")
}

func newCatalog(t *testing.T) (*app.CatalogService, *memory.KVStore) {
	t.Helper()
	store := memory.NewKVStore()
	svc := app.NewCatalogService(app.CatalogDeps{
		Store:  store,
		Addr:   prefixValidator{},
		IDGen:  idgen.NewSequential("inv-"),
		Logger: zerolog.Nop(),
	})
	return svc, store
}

func newLedger(t *testing.T) (*app.LedgerService, *hostsim.Module) {
	t.Helper()
	host := hostsim.New(memory.NewKVStore())
	svc := app.NewLedgerService(app.LedgerDeps{
		Store:    memory.NewKVStore(),
		Addr:     prefixValidator{},
		Host:     host,
		Querier:  host,
		IDGen:    idgen.NewSequential("inv-"),
		Logger:   zerolog.Nop(),
		Contract: contract,
	})
	return svc, host
}
