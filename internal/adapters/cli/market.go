package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// orderRow carries the order fields the CLI renders.
type orderRow struct {
	ID            string `json:"id"`
	ZoneID        string `json:"zone_id"`
	Resource      string `json:"resource"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Price         int64  `json:"price"`
	Remaining     int    `json:"remaining"`
	Original      int    `json:"original"`
	Status        string `json:"status"`
	CreatedAtTick int64  `json:"created_at_tick"`
}

// NewMarketCommand creates the market command with subcommands
func NewMarketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Trade on your zone's order book",
		Long: `View and place orders on the market of the zone you are in.

The book and trade history are per zone; travel to trade elsewhere.

Examples:
  burnrate market orders --resource su
  burnrate market trades --limit 20
  burnrate market place --side buy --resource su --price 12 --qty 50
  burnrate market mine
  burnrate market cancel ord-3f2a`,
	}

	cmd.AddCommand(newMarketOrdersCommand())
	cmd.AddCommand(newMarketTradesCommand())
	cmd.AddCommand(newMarketPlaceCommand())
	cmd.AddCommand(newMarketMineCommand())
	cmd.AddCommand(newMarketCancelCommand())

	return cmd
}

// newMarketOrdersCommand creates the market orders subcommand
func newMarketOrdersCommand() *cobra.Command {
	var resource string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show the open order book in your zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if resource != "" {
				query["resource"] = resource
			}

			var result struct {
				ZoneID string     `json:"zone_id"`
				Orders []orderRow `json:"orders"`
			}
			if err := newClient().get("/market/orders", query, &result); err != nil {
				return err
			}
			if len(result.Orders) == 0 {
				fmt.Printf("No open orders in %s\n", result.ZoneID)
				return nil
			}

			fmt.Printf("Order book for %s\n\n", result.ZoneID)
			printOrders(result.Orders)
			return nil
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "Filter by resource (su, medkits, comms, rareparts)")
	return cmd
}

// newMarketTradesCommand creates the market trades subcommand
func newMarketTradesCommand() *cobra.Command {
	var (
		resource string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Show recent trades in your zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if resource != "" {
				query["resource"] = resource
			}
			if limit > 0 {
				query["limit"] = strconv.Itoa(limit)
			}

			var result struct {
				Trades []struct {
					ID       string `json:"id"`
					Resource string `json:"resource"`
					Price    int64  `json:"price"`
					Quantity int    `json:"quantity"`
					Tick     int64  `json:"tick"`
				} `json:"trades"`
				LastPrice int64 `json:"last_price"`
			}
			if err := newClient().get("/market/trades", query, &result); err != nil {
				return err
			}
			if len(result.Trades) == 0 {
				fmt.Println("No trades yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TICK\tRESOURCE\tPRICE\tQUANTITY")
			fmt.Fprintln(w, "----\t--------\t-----\t--------")
			for _, t := range result.Trades {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", t.Tick, t.Resource, t.Price, t.Quantity)
			}
			w.Flush()
			if result.LastPrice > 0 {
				fmt.Printf("\nLast price: %d\n", result.LastPrice)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "Filter by resource")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum trades to show")
	return cmd
}

// newMarketPlaceCommand creates the market place subcommand
func newMarketPlaceCommand() *cobra.Command {
	var (
		side     string
		resource string
		price    int64
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place a limit order in your zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{
				"side":     side,
				"resource": resource,
				"price":    price,
				"quantity": quantity,
			}

			var result struct {
				Order orderRow `json:"order"`
			}
			if err := newClient().post("/market/order", body, &result); err != nil {
				return err
			}

			o := result.Order
			fmt.Printf("Placed %s %d %s @ %d (order %s, status %s)\n",
				o.Side, o.Original, o.Resource, o.Price, o.ID, o.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "side", "", "Order side: buy or sell (required)")
	cmd.Flags().StringVar(&resource, "resource", "", "Resource to trade (required)")
	cmd.Flags().Int64Var(&price, "price", 0, "Limit price in credits (required)")
	cmd.Flags().IntVar(&quantity, "qty", 0, "Quantity (required)")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

// newMarketMineCommand creates the market mine subcommand
func newMarketMineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Show your open orders across all zones",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Orders []orderRow `json:"orders"`
			}
			if err := newClient().get("/market/mine", nil, &result); err != nil {
				return err
			}
			if len(result.Orders) == 0 {
				fmt.Println("No open orders")
				return nil
			}

			printOrders(result.Orders)
			return nil
		},
	}
}

// newMarketCancelCommand creates the market cancel subcommand
func newMarketCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel one of your orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Order           orderRow `json:"order"`
				CreditsRefunded int64    `json:"credits_refunded"`
				GoodsRefunded   int      `json:"goods_refunded"`
			}
			if err := newClient().del("/market/orders/"+args[0], &result); err != nil {
				return err
			}

			fmt.Printf("Cancelled order %s\n", result.Order.ID)
			if result.CreditsRefunded > 0 {
				fmt.Printf("Refunded %d credits\n", result.CreditsRefunded)
			}
			if result.GoodsRefunded > 0 {
				fmt.Printf("Refunded %d %s\n", result.GoodsRefunded, result.Order.Resource)
			}
			return nil
		},
	}
}

func printOrders(orders []orderRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tZONE\tSIDE\tTYPE\tRESOURCE\tPRICE\tREMAINING\tSTATUS")
	fmt.Fprintln(w, "--\t----\t----\t----\t--------\t-----\t---------\t------")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d/%d\t%s\n",
			o.ID, o.ZoneID, o.Side, o.Type, o.Resource, o.Price, o.Remaining, o.Original, o.Status)
	}
	w.Flush()
}
