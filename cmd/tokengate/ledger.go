package main

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/artpar/tokengate/app"
	"github.com/artpar/tokengate/domain/supply"
)

var (
	ledgerSymbol  string
	ledgerInitial string
	ledgerMax     string
	ledgerAdmin   string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the capped-supply token ledger",
}

var ledgerInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Register the unit and optionally mint the initial supply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		if ledgerSymbol == "" {
			return fmt.Errorf("--symbol is required")
		}
		initial, err := parseAmount(ledgerInitial)
		if err != nil {
			return fmt.Errorf("--initial: %w", err)
		}
		max, err := parseAmount(ledgerMax)
		if err != nil {
			return fmt.Errorf("--max: %w", err)
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.Instantiate(context.Background(), sender, app.LedgerInit{
			Symbol:        ledgerSymbol,
			InitialSupply: initial,
			MaxSupply:     max,
			Admin:         ledgerAdmin,
		})
	},
}

var ledgerMintCmd = &cobra.Command{
	Use:   "mint <receivers-json>",
	Short: "Issue units to recipients (JSON array of {address, amount})",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		receivers, err := parseReceivers(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.Mint(context.Background(), sender, receivers)
	},
}

var ledgerBurnCmd = &cobra.Command{
	Use:   "burn <amount>",
	Short: "Destroy units out of the contract's own balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.Burn(context.Background(), sender, amount)
	},
}

var ledgerSendCmd = &cobra.Command{
	Use:   "send <receivers-json>",
	Short: "Transfer contract-held units to recipients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		receivers, err := parseReceivers(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.Send(context.Background(), sender, receivers)
	},
}

var ledgerUpdateSupplyCmd = &cobra.Command{
	Use:   "update-supply <new-max>",
	Short: "Replace the supply cap (0 removes it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		newMax, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.UpdateSupply(context.Background(), sender, newMax)
	},
}

var ledgerRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Hand issuance authority to the null address (one-way)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.ledger.Revoke(context.Background(), sender)
	},
}

var ledgerInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the supply summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		info, err := e.ledger.TokenInfo(context.Background())
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var ledgerMintableCmd = &cobra.Command{
	Use:   "mintable",
	Short: "Show whether more units can ever be issued",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		m, err := e.ledger.Mintable(context.Background())
		if err != nil {
			return err
		}
		return printJSON(m)
	},
}

func parseAmount(s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func parseReceivers(s string) ([]supply.Receiver, error) {
	if err := requireSender(); err != nil {
		return nil, err
	}
	var receivers []supply.Receiver
	if err := json.Unmarshal([]byte(s), &receivers); err != nil {
		return nil, fmt.Errorf("parse receivers: %w", err)
	}
	return receivers, nil
}

func init() {
	ledgerInitCmd.Flags().StringVar(&ledgerSymbol, "symbol", "", "unit symbol")
	ledgerInitCmd.Flags().StringVar(&ledgerInitial, "initial", "", "initial supply minted to the contract")
	ledgerInitCmd.Flags().StringVar(&ledgerMax, "max", "", "max supply (0 or empty = uncapped)")
	ledgerInitCmd.Flags().StringVar(&ledgerAdmin, "admin", "", "ledger admin (defaults to sender)")

	ledgerCmd.AddCommand(
		ledgerInitCmd,
		ledgerMintCmd,
		ledgerBurnCmd,
		ledgerSendCmd,
		ledgerUpdateSupplyCmd,
		ledgerRevokeCmd,
		ledgerInfoCmd,
		ledgerMintableCmd,
	)
	rootCmd.AddCommand(ledgerCmd)
}
