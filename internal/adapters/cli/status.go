package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show world status",
		Long:  `Query the current tick, season, and population of the world.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var status struct {
				CurrentTick int64     `json:"current_tick"`
				Season      int       `json:"season"`
				Week        int       `json:"week"`
				LastTickAt  time.Time `json:"last_tick_at"`
				Players     int64     `json:"players"`
				Zones       int       `json:"zones"`
			}
			if err := newClient().get("/world/status", nil, &status); err != nil {
				return err
			}

			fmt.Printf("Tick:         %d\n", status.CurrentTick)
			fmt.Printf("Season:       %d (week %d)\n", status.Season, status.Week)
			fmt.Printf("Last tick at: %s\n", status.LastTickAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Players:      %d\n", status.Players)
			fmt.Printf("Zones:        %d\n", status.Zones)
			return nil
		},
	}

	return cmd
}
