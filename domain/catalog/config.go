// Package catalog provides the catalog configuration value type and the
// authorization policy over it.
package catalog

import (
	"errors"

	"github.com/artpar/tokengate/domain/fee"
	"github.com/artpar/tokengate/domain/listing"
)

// Authorization errors.
var (
	ErrNotOwner           = errors.New("must be owner to update config")
	ErrAddPermissioned    = errors.New("must be an admin to add new listings")
	ErrRemovePermissioned = errors.New("must be an admin to edit or remove listings")
	ErrUnauthorized       = errors.New("not authorized to edit or remove this listing")
)

// Config is the catalog's singleton configuration. The owner is implicitly an
// admin and is kept in the stored admin set.
type Config struct {
	Owner              string          `json:"owner"`
	Admins             []string        `json:"admins,omitempty"`
	AddPermissioned    bool            `json:"add_permissioned,omitempty"`
	RemovePermissioned bool            `json:"remove_permissioned,omitempty"`
	RequiredFields     []listing.Field `json:"required_fields,omitempty"`
	Fee                []fee.Coin      `json:"fee,omitempty"`
}

// IsAdmin reports whether addr is in the admin set or is the owner.
// This is a PURE function.
func (c Config) IsAdmin(addr string) bool {
	if addr == c.Owner {
		return true
	}
	for _, a := range c.Admins {
		if a == addr {
			return true
		}
	}
	return false
}

// IsOwner reports whether addr is the configured owner.
func (c Config) IsOwner(addr string) bool {
	return addr == c.Owner
}

// Update carries a partial configuration change. Nil fields are left
// untouched; a non-nil empty admin list clears all non-owner admins.
type Update struct {
	Owner              *string          `json:"owner,omitempty"`
	Admins             *[]string        `json:"admins,omitempty"`
	AddPermissioned    *bool            `json:"add_permissioned,omitempty"`
	RemovePermissioned *bool            `json:"remove_permissioned,omitempty"`
	RequiredFields     *[]listing.Field `json:"required_fields,omitempty"`
	Fee                *[]fee.Coin      `json:"fee,omitempty"`
}

// Merge applies an update to an existing config. The resulting owner is
// always part of the admin set. Omitted fields keep their previous value;
// omission is never a reset.
// This is a PURE function.
func Merge(old Config, upd Update) Config {
	next := old

	if upd.Owner != nil {
		next.Owner = *upd.Owner
	}

	if upd.Admins != nil {
		admins := make([]string, 0, len(*upd.Admins)+1)
		admins = append(admins, *upd.Admins...)
		next.Admins = appendUnique(admins, next.Owner)
	} else {
		next.Admins = appendUnique(old.Admins, next.Owner)
	}

	if upd.AddPermissioned != nil {
		next.AddPermissioned = *upd.AddPermissioned
	}
	if upd.RemovePermissioned != nil {
		next.RemovePermissioned = *upd.RemovePermissioned
	}
	if upd.RequiredFields != nil {
		next.RequiredFields = *upd.RequiredFields
	}
	if upd.Fee != nil {
		next.Fee = *upd.Fee
	}

	return next
}

func appendUnique(addrs []string, addr string) []string {
	for _, a := range addrs {
		if a == addr {
			return addrs
		}
	}
	out := make([]string, len(addrs), len(addrs)+1)
	copy(out, addrs)
	return append(out, addr)
}
