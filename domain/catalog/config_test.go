package catalog_test

import (
	"reflect"
	"testing"

	"github.com/artpar/tokengate/domain/catalog"
	"github.com/artpar/tokengate/domain/fee"
	"github.com/artpar/tokengate/domain/listing"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func baseConfig() catalog.Config {
	return catalog.Config{
		Owner:              "osmo1owner",
		Admins:             []string{"osmo1admin", "osmo1owner"},
		AddPermissioned:    true,
		RemovePermissioned: false,
		RequiredFields:     []listing.Field{listing.FieldExp},
		Fee:                []fee.Coin{fee.NewCoin("uosmo", 100)},
	}
}

func TestConfig_IsAdmin(t *testing.T) {
	cfg := baseConfig()

	if !cfg.IsAdmin("osmo1admin") {
		t.Error("listed admin not recognized")
	}
	if !cfg.IsAdmin("osmo1owner") {
		t.Error("owner must be implicitly an admin")
	}
	if cfg.IsAdmin("osmo1stranger") {
		t.Error("stranger recognized as admin")
	}

	// owner is an admin even if absent from the stored set
	cfg.Admins = nil
	if !cfg.IsAdmin("osmo1owner") {
		t.Error("owner outside the stored set must still be an admin")
	}
}

func TestMerge_OmittedFieldsKeepPreviousValues(t *testing.T) {
	old := baseConfig()
	next := catalog.Merge(old, catalog.Update{})

	if !reflect.DeepEqual(next, old) {
		t.Errorf("empty update changed config: %+v != %+v", next, old)
	}
}

func TestMerge_NewOwnerJoinsAdminSet(t *testing.T) {
	old := baseConfig()
	next := catalog.Merge(old, catalog.Update{Owner: strPtr("osmo1heir")})

	if next.Owner != "osmo1heir" {
		t.Fatalf("owner = %s, want osmo1heir", next.Owner)
	}
	if !next.IsAdmin("osmo1heir") {
		t.Error("new owner missing from admin set")
	}
	// previous admins are untouched when the list is omitted
	if !next.IsAdmin("osmo1admin") {
		t.Error("existing admin dropped by owner change")
	}
}

func TestMerge_AdminListReplacesWholesale(t *testing.T) {
	old := baseConfig()

	next := catalog.Merge(old, catalog.Update{Admins: &[]string{"osmo1new"}})
	if !next.IsAdmin("osmo1new") {
		t.Error("provided admin missing")
	}
	if contains(next.Admins, "osmo1admin") {
		t.Error("previous admin survived wholesale replacement")
	}
	if !next.IsAdmin("osmo1owner") {
		t.Error("owner must remain an admin after replacement")
	}

	// an empty list clears all non-owner admins
	empty := catalog.Merge(old, catalog.Update{Admins: &[]string{}})
	if contains(empty.Admins, "osmo1admin") {
		t.Error("empty admin list did not clear admins")
	}
	if !empty.IsAdmin("osmo1owner") {
		t.Error("owner cleared by empty admin list")
	}
}

func TestMerge_FlagsAndScheduleUpdates(t *testing.T) {
	old := baseConfig()

	next := catalog.Merge(old, catalog.Update{
		AddPermissioned:    boolPtr(false),
		RemovePermissioned: boolPtr(true),
		RequiredFields:     &[]listing.Field{},
		Fee:                &[]fee.Coin{},
	})

	if next.AddPermissioned {
		t.Error("add_permissioned not updated")
	}
	if !next.RemovePermissioned {
		t.Error("remove_permissioned not updated")
	}
	if len(next.RequiredFields) != 0 {
		t.Error("required fields not cleared by explicit empty list")
	}
	if len(next.Fee) != 0 {
		t.Error("fee schedule not cleared by explicit empty list")
	}
}

func contains(addrs []string, addr string) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}
