// Package state maps typed singletons and maps onto the raw key-value store.
// Key tags are plain constant strings; each engine runs against its own
// store instance, so the single-byte tags never collide.
package state

// Catalog storage tags.
var (
	CatalogConfigKey = []byte("a")
	DenomPrefix      = []byte("b")
	SymbolPrefix     = []byte("c")
)

// Ledger storage tags.
var (
	LedgerAdminKey  = []byte("a")
	LedgerSymbolKey = []byte("b")
	LedgerDenomKey  = []byte("c")
	MaxSupplyKey    = []byte("d")
	TotalMintedKey  = []byte("e")
)
