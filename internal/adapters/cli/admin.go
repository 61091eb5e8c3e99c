package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAdminCommand creates the admin command with subcommands
func NewAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operate the server",
		Long: `Administrative commands. All of them require --admin-key (or
BURNRATE_ADMIN_KEY) matching the server's configured key.

Examples:
  burnrate admin init-world
  burnrate admin tick
  burnrate admin dashboard`,
	}

	cmd.AddCommand(newAdminTickCommand())
	cmd.AddCommand(newAdminInitWorldCommand())
	cmd.AddCommand(newAdminDashboardCommand())

	return cmd
}

// newAdminTickCommand creates the admin tick subcommand
func newAdminTickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Force a world tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Tick     int64  `json:"tick"`
				Advanced bool   `json:"advanced"`
				Duration string `json:"duration"`
			}
			if err := newClient().post("/admin/tick", nil, &result); err != nil {
				return err
			}

			if result.Advanced {
				fmt.Printf("Advanced to tick %d in %s\n", result.Tick, result.Duration)
			} else {
				fmt.Printf("Tick not advanced (still %d); another instance may have won the claim\n", result.Tick)
			}
			return nil
		},
	}
}

// newAdminInitWorldCommand creates the admin init-world subcommand
func newAdminInitWorldCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-world",
		Short: "Generate and persist the world map",
		Long: `Generate the zone graph from the server's configured seed.

Fails if a world already exists unless --force is given; a forced run
regenerates the same map from the same seed, repairing partial state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Seed   string `json:"seed"`
				Zones  int    `json:"zones"`
				Routes int    `json:"routes"`
			}
			body := map[string]bool{"force": force}
			if err := newClient().post("/admin/init-world", body, &result); err != nil {
				return err
			}

			fmt.Printf("World initialized (seed %s): %d zones, %d routes\n",
				result.Seed, result.Zones, result.Routes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild over an existing world")
	return cmd
}

// newAdminDashboardCommand creates the admin dashboard subcommand
func newAdminDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show server-wide counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				CurrentTick        int64  `json:"current_tick"`
				Season             int    `json:"season"`
				Week               int    `json:"week"`
				Seed               string `json:"seed"`
				Players            int64  `json:"players"`
				Factions           int    `json:"factions"`
				ZonesTotal         int    `json:"zones_total"`
				ZonesOwned         int    `json:"zones_owned"`
				ZonesCollapsed     int    `json:"zones_collapsed"`
				ShipmentsInTransit int    `json:"shipments_in_transit"`
				OpenOrders         int    `json:"open_orders"`
				ActiveContracts    int    `json:"active_contracts"`
				Units              int    `json:"units"`
				EventTailSeq       int64  `json:"event_tail_seq"`
			}
			if err := newClient().get("/admin/dashboard", nil, &result); err != nil {
				return err
			}

			fmt.Printf("Tick %d, season %d, week %d (seed %s)\n\n",
				result.CurrentTick, result.Season, result.Week, result.Seed)
			fmt.Printf("Players:   %d\n", result.Players)
			fmt.Printf("Factions:  %d\n", result.Factions)
			fmt.Printf("Zones:     %d total, %d owned, %d collapsed\n",
				result.ZonesTotal, result.ZonesOwned, result.ZonesCollapsed)
			fmt.Printf("Shipments: %d in transit\n", result.ShipmentsInTransit)
			fmt.Printf("Orders:    %d open\n", result.OpenOrders)
			fmt.Printf("Contracts: %d active\n", result.ActiveContracts)
			fmt.Printf("Units:     %d\n", result.Units)
			fmt.Printf("Event seq: %d\n", result.EventTailSeq)
			return nil
		},
	}
}
