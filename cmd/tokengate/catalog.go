package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/tokengate/app"
	"github.com/artpar/tokengate/domain/catalog"
	"github.com/artpar/tokengate/domain/fee"
	"github.com/artpar/tokengate/domain/listing"
)

var (
	catalogFunds   string
	catalogStart   string
	catalogLimit   int
	catalogSymbols bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the dual-index asset catalog",
}

var catalogInitCmd = &cobra.Command{
	Use:   "init [config-json]",
	Short: "Write the initial catalog configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		var init app.CatalogInit
		if len(args) == 1 {
			if err := json.Unmarshal([]byte(args[0]), &init); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.catalog.Instantiate(context.Background(), sender, init)
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <metadata-json>",
	Short: "List new denoms (JSON array of metadata)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, inv, err := catalogWriteArgs(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.catalog.Add(context.Background(), inv, items)
	},
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update <metadata-json>",
	Short: "Edit existing listings (JSON array of metadata)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, inv, err := catalogWriteArgs(args[0])
		if err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.catalog.Update(context.Background(), inv, items)
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <denom>...",
	Short: "Unlist denoms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.catalog.Remove(context.Background(), app.Invocation{Sender: sender}, args)
	},
}

var catalogSetConfigCmd = &cobra.Command{
	Use:   "set-config <update-json>",
	Short: "Apply a partial configuration update (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSender(); err != nil {
			return err
		}
		var upd catalog.Update
		if err := json.Unmarshal([]byte(args[0]), &upd); err != nil {
			return fmt.Errorf("parse update: %w", err)
		}
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.catalog.UpdateConfig(context.Background(), app.Invocation{Sender: sender}, upd)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <key>...",
	Short: "Look up listings by denom (or by symbol with --symbol)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		var items []listing.Metadata
		if catalogSymbols {
			items, err = e.catalog.BySymbol(context.Background(), args)
		} else {
			items, err = e.catalog.ByDenom(context.Background(), args)
		}
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Page through all listings ascending by denom",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		items, err := e.catalog.All(context.Background(), catalogStart, catalogLimit)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var catalogConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current catalog configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		cfg, err := e.catalog.Config(context.Background())
		if err != nil {
			return err
		}
		return printJSON(cfg)
	},
}

func catalogWriteArgs(metadataJSON string) ([]listing.Metadata, app.Invocation, error) {
	if err := requireSender(); err != nil {
		return nil, app.Invocation{}, err
	}
	var items []listing.Metadata
	if err := json.Unmarshal([]byte(metadataJSON), &items); err != nil {
		return nil, app.Invocation{}, fmt.Errorf("parse metadata: %w", err)
	}
	var funds []fee.Coin
	if catalogFunds != "" {
		if err := json.Unmarshal([]byte(catalogFunds), &funds); err != nil {
			return nil, app.Invocation{}, fmt.Errorf("parse funds: %w", err)
		}
	}
	return items, app.Invocation{Sender: sender, Funds: funds}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogFunds, "funds", "", "attached funds as a JSON coin array")
	catalogUpdateCmd.Flags().StringVar(&catalogFunds, "funds", "", "attached funds as a JSON coin array")
	catalogShowCmd.Flags().BoolVar(&catalogSymbols, "symbol", false, "look up by symbol instead of denom")
	catalogListCmd.Flags().StringVar(&catalogStart, "start-after", "", "exclusive pagination cursor")
	catalogListCmd.Flags().IntVar(&catalogLimit, "limit", 0, "page size (defaults to the maximum)")

	catalogCmd.AddCommand(
		catalogInitCmd,
		catalogAddCmd,
		catalogUpdateCmd,
		catalogRemoveCmd,
		catalogSetConfigCmd,
		catalogShowCmd,
		catalogListCmd,
		catalogConfigCmd,
	)
	rootCmd.AddCommand(catalogCmd)
}
