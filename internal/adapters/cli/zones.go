package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// zoneRow carries the zone fields the CLI renders.
type zoneRow struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Kind             string  `json:"kind"`
	OwnerFactionID   string  `json:"owner_faction_id"`
	Status           string  `json:"status"`
	SupplyLevel      float64 `json:"supply_level"`
	BurnRate         int     `json:"burn_rate"`
	ComplianceStreak int     `json:"compliance_streak"`
	SUStockpile      int     `json:"su_stockpile"`
	GarrisonLevel    int     `json:"garrison_level"`
	FieldResource    string  `json:"field_resource"`
}

// NewZonesCommand creates the zones command with subcommands
func NewZonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List and inspect zones",
		Long: `List the world's zones or inspect one zone and its routes.

Examples:
  burnrate zones
  burnrate zones --kind extraction
  burnrate zones get zone-12`,
	}

	var kind, owner string
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by zone kind (hub, extraction, production, frontier)")
	cmd.Flags().StringVar(&owner, "owner", "", "Filter by owning faction ID")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		query := map[string]string{}
		if kind != "" {
			query["kind"] = kind
		}
		if owner != "" {
			query["owner"] = owner
		}

		var result struct {
			Zones []zoneRow `json:"zones"`
		}
		if err := newClient().get("/world/zones", query, &result); err != nil {
			return err
		}
		if len(result.Zones) == 0 {
			fmt.Println("No zones found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKIND\tSTATUS\tSUPPLY\tBURN/TICK\tSTREAK\tOWNER")
		fmt.Fprintln(w, "--\t----\t----\t------\t------\t---------\t------\t-----")
		for _, z := range result.Zones {
			owner := z.OwnerFactionID
			if owner == "" {
				owner = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
				z.ID, z.Name, z.Kind, z.Status, z.SupplyLevel, z.BurnRate, z.ComplianceStreak, owner)
		}
		w.Flush()
		fmt.Printf("\nTotal zones: %d\n", len(result.Zones))
		return nil
	}

	cmd.AddCommand(newZoneGetCommand())
	return cmd
}

// newZoneGetCommand creates the zones get subcommand
func newZoneGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <zone-id>",
		Short: "Show one zone with its routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Zone   zoneRow `json:"zone"`
				Routes []struct {
					ID         string  `json:"id"`
					FromZoneID string  `json:"from_zone_id"`
					ToZoneID   string  `json:"to_zone_id"`
					Distance   int     `json:"distance"`
					Capacity   int     `json:"capacity"`
					BaseRisk   float64 `json:"base_risk"`
				} `json:"routes"`
			}
			if err := newClient().get("/world/zones/"+args[0], nil, &result); err != nil {
				return err
			}

			z := result.Zone
			fmt.Printf("Zone %s (%s)\n", z.ID, z.Name)
			fmt.Printf("  Kind:      %s\n", z.Kind)
			fmt.Printf("  Status:    %s\n", z.Status)
			fmt.Printf("  Supply:    %.2f (streak %d)\n", z.SupplyLevel, z.ComplianceStreak)
			fmt.Printf("  Burn/tick: %d\n", z.BurnRate)
			fmt.Printf("  Stockpile: %d SU\n", z.SUStockpile)
			if z.OwnerFactionID != "" {
				fmt.Printf("  Owner:     %s (garrison %d)\n", z.OwnerFactionID, z.GarrisonLevel)
			}
			if z.FieldResource != "" {
				fmt.Printf("  Field:     %s\n", z.FieldResource)
			}

			if len(result.Routes) > 0 {
				fmt.Printf("\nRoutes (%d):\n", len(result.Routes))
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "  ID\tTO\tDISTANCE\tCAPACITY\tRISK")
				for _, rt := range result.Routes {
					to := rt.ToZoneID
					if to == z.ID {
						to = rt.FromZoneID
					}
					fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%.2f\n", rt.ID, to, rt.Distance, rt.Capacity, rt.BaseRisk)
				}
				w.Flush()
			}
			return nil
		},
	}
}
