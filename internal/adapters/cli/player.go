package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// playerRow carries the player fields the CLI renders.
type playerRow struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Tier          string         `json:"tier"`
	Credits       int64          `json:"credits"`
	Inventory     map[string]int `json:"inventory"`
	CurrentZoneID string         `json:"current_zone_id"`
	FactionID     string         `json:"faction_id"`
	Reputation    int            `json:"reputation"`
	ActionsToday  int            `json:"actions_today"`
	Licenses      []string       `json:"licenses"`
}

// NewJoinCommand creates the join command
func NewJoinCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Register a new player",
		Long: `Register a new player and print the API key.

The key is shown exactly once; export it as BURNRATE_API_KEY for the
other commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name flag is required")
			}

			var result struct {
				Player playerRow `json:"player"`
				APIKey string    `json:"api_key"`
			}
			if err := newClient().post("/join", map[string]string{"name": name}, &result); err != nil {
				return err
			}

			fmt.Printf("Welcome, %s (player %s)\n", result.Player.Name, result.Player.ID)
			fmt.Printf("Starting zone: %s\n", result.Player.CurrentZoneID)
			fmt.Printf("Credits:       %d\n", result.Player.Credits)
			fmt.Printf("\nAPI key (shown once):\n  %s\n", result.APIKey)
			fmt.Printf("\nexport BURNRATE_API_KEY=%s\n", result.APIKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	return cmd
}

// NewMeCommand creates the me command
func NewMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your player state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Player     playerRow `json:"player"`
				Title      string    `json:"title"`
				QuotaUsed  int       `json:"quota_used"`
				QuotaLimit int       `json:"quota_limit"`
			}
			if err := newClient().get("/me", nil, &result); err != nil {
				return err
			}

			p := result.Player
			fmt.Printf("%s [%s] %s\n", p.Name, p.Tier, result.Title)
			fmt.Printf("  Zone:       %s\n", p.CurrentZoneID)
			fmt.Printf("  Credits:    %d\n", p.Credits)
			fmt.Printf("  Reputation: %d\n", p.Reputation)
			fmt.Printf("  Actions:    %d/%d today\n", result.QuotaUsed, result.QuotaLimit)
			if p.FactionID != "" {
				fmt.Printf("  Faction:    %s\n", p.FactionID)
			}
			if len(p.Licenses) > 0 {
				fmt.Printf("  Licenses:   %s\n", strings.Join(p.Licenses, ", "))
			}
			if len(p.Inventory) > 0 {
				fmt.Println("  Inventory:")
				for resource, qty := range p.Inventory {
					fmt.Printf("    %-10s %d\n", resource, qty)
				}
			}
			return nil
		},
	}
}

// NewTravelCommand creates the travel command
func NewTravelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "travel <zone-id>",
		Short: "Move to an adjacent zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				ZoneID   string `json:"zone_id"`
				Distance int    `json:"distance"`
			}
			body := map[string]string{"to_zone_id": args[0]}
			if err := newClient().post("/travel", body, &result); err != nil {
				return err
			}

			fmt.Printf("Arrived at %s (distance %d)\n", result.ZoneID, result.Distance)
			return nil
		},
	}
}
