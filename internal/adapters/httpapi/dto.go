package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"burnrate/internal/domain/shared"
)

var validate = validator.New()

// decode reads the JSON body into dst and runs struct validation. Malformed
// bodies and failed tags both surface as validation errors; deeper game
// rules stay in the domain.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewValidationError("body", "request body required")
		}
		return shared.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return shared.NewValidationError(first.Field(), "failed "+first.Tag()+" validation")
		}
		return shared.NewValidationError("body", err.Error())
	}
	return nil
}

// decodeOptional is decode for endpoints whose body may be absent; an
// empty body leaves dst at its zero value.
func decodeOptional(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return shared.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return shared.NewValidationError("body", err.Error())
	}
	return nil
}

type joinRequest struct {
	Name string `json:"name" validate:"required,min=2,max=20"`
}

type travelRequest struct {
	ToZoneID string `json:"to_zone_id" validate:"required"`
}

type extractRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type produceRequest struct {
	Output   string `json:"output" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type shipRequest struct {
	Kind          string         `json:"kind" validate:"required"`
	Path          []string       `json:"path" validate:"required,min=2"`
	Cargo         map[string]int `json:"cargo" validate:"required"`
	EscortUnitIDs []string       `json:"escort_unit_ids"`
}

type orderRequest struct {
	Side     string `json:"side" validate:"required,oneof=buy sell"`
	Resource string `json:"resource" validate:"required"`
	Price    int64  `json:"price" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type conditionalOrderRequest struct {
	Side         string `json:"side" validate:"required,oneof=buy sell"`
	Resource     string `json:"resource" validate:"required"`
	Price        int64  `json:"price" validate:"required,min=1"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	TriggerOp    string `json:"trigger_op" validate:"required,oneof=gte lte"`
	TriggerPrice int64  `json:"trigger_price" validate:"required,min=1"`
}

type twapOrderRequest struct {
	Side          string `json:"side" validate:"required,oneof=buy sell"`
	Resource      string `json:"resource" validate:"required"`
	Price         int64  `json:"price" validate:"required,min=1"`
	TotalQuantity int    `json:"total_quantity" validate:"required,min=1"`
	SlicePerTick  int    `json:"slice_per_tick" validate:"required,min=1"`
}

type sellUnitRequest struct {
	Price int64 `json:"price" validate:"required,min=1"`
}

type escortRequest struct {
	ShipmentID string `json:"shipment_id" validate:"required"`
}

type raiderRequest struct {
	RouteID string `json:"route_id" validate:"required"`
}

type scanRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=zone route"`
	TargetID   string `json:"target_id" validate:"required"`
}

type supplyRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

type stockpileRequest struct {
	Resource string `json:"resource" validate:"required,oneof=medkits comms"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type createFactionRequest struct {
	Name string `json:"name" validate:"required,min=3,max=30"`
	Tag  string `json:"tag" validate:"required,min=2,max=5"`
}

type memberActionRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type treasuryRequest struct {
	Credits int64          `json:"credits" validate:"min=0"`
	Goods   map[string]int `json:"goods"`
}

type createContractRequest struct {
	Kind             string          `json:"kind" validate:"required"`
	Details          contractDetails `json:"details"`
	DeadlineTick     int64           `json:"deadline_tick" validate:"required,min=1"`
	RewardCredits    int64           `json:"reward_credits" validate:"min=0"`
	RewardReputation int             `json:"reward_reputation" validate:"min=0"`
	EarlyBonusTicks  int64           `json:"early_bonus_ticks" validate:"min=0"`
	EarlyBonus       int64           `json:"early_bonus" validate:"min=0"`
	FactionFunded    bool            `json:"faction_funded"`
}

type contractDetails struct {
	FromZoneID string `json:"from_zone_id"`
	ToZoneID   string `json:"to_zone_id"`
	Resource   string `json:"resource"`
	Quantity   int    `json:"quantity" validate:"min=0"`
	ZoneID     string `json:"zone_id"`
	Amount     int    `json:"amount" validate:"min=0"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

type doctrineRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required,max=10000"`
}

type webhookRequest struct {
	URL         string   `json:"url" validate:"required,url"`
	EventFilter []string `json:"event_filter"`
}

type initWorldRequest struct {
	Force bool `json:"force"`
}

// batchRequest carries up to MaxBatchSize named actions; each params blob
// decodes through the action registry into its typed command.
type batchRequest struct {
	Actions []batchAction `json:"actions" validate:"required,min=1"`
}

type batchAction struct {
	Action string          `json:"action" validate:"required"`
	Params json.RawMessage `json:"params"`
}
