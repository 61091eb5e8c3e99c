package market

import "burnrate/internal/domain/shared"

// Trade is an executed match. Price is always the maker's (resting
// side's) price; the later order takes it.
type Trade struct {
	ID          string
	ZoneID      string
	Resource    shared.Resource
	BuyOrderID  string
	SellOrderID string
	BuyerID     string
	SellerID    string
	Price       int64
	Quantity    int
	Tick        int64
}
