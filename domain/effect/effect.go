// Package effect describes outbound instructions to host-level ledger
// modules. Instructions are collected during an invocation and forwarded by
// the harness after the local state change commits; they are never awaited.
package effect

import "cosmossdk.io/math"

// Kind discriminates instruction payloads.
type Kind string

const (
	KindCreateDenom Kind = "create_denom"
	KindMint        Kind = "mint"
	KindBurn        Kind = "burn"
	KindSend        Kind = "send"
	KindChangeAdmin Kind = "change_admin"
)

// Instruction is a single fire-and-forget message to the host.
type Instruction struct {
	Kind   Kind   `json:"kind"`
	Sender string `json:"sender"`

	// Subdenom is set for KindCreateDenom.
	Subdenom string `json:"subdenom,omitempty"`

	// Denom and Amount are set for mint, burn and send.
	Denom  string   `json:"denom,omitempty"`
	Amount math.Int `json:"amount,omitempty"`

	// Address is the mint recipient, send destination or new authority.
	Address string `json:"address,omitempty"`
}

// CreateDenom registers a new unit with the host token module.
func CreateDenom(sender, subdenom string) Instruction {
	return Instruction{Kind: KindCreateDenom, Sender: sender, Subdenom: subdenom}
}

// Mint issues amount of denom to address.
func Mint(sender, denom string, amount math.Int, address string) Instruction {
	return Instruction{Kind: KindMint, Sender: sender, Denom: denom, Amount: amount, Address: address}
}

// Burn destroys amount of denom held by sender.
func Burn(sender, denom string, amount math.Int) Instruction {
	return Instruction{Kind: KindBurn, Sender: sender, Denom: denom, Amount: amount}
}

// Send transfers amount of denom from sender's balance to address.
func Send(sender, denom string, amount math.Int, address string) Instruction {
	return Instruction{Kind: KindSend, Sender: sender, Denom: denom, Amount: amount, Address: address}
}

// ChangeAdmin hands the denom's issuance authority to address.
func ChangeAdmin(sender, denom, address string) Instruction {
	return Instruction{Kind: KindChangeAdmin, Sender: sender, Denom: denom, Address: address}
}
