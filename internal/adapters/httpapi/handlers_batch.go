package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	batchapp "burnrate/internal/application/batch"
	contractsapp "burnrate/internal/application/contracts"
	intelapp "burnrate/internal/application/intel"
	marketapp "burnrate/internal/application/market"
	"burnrate/internal/application/mediator"
	playerapp "burnrate/internal/application/player"
	shippingapp "burnrate/internal/application/shipping"
	worldqapp "burnrate/internal/application/worldq"
	"burnrate/internal/domain/shared"

	"github.com/go-playground/validator/v10"
)

// actionDecoder turns one named batch entry's params into its typed
// command. Path identity (order ids, unit ids) moves into the params
// body since a batch entry has no URL.
type actionDecoder func(params json.RawMessage) (mediator.Request, error)

var batchDecoders = map[string]actionDecoder{
	"travel": func(raw json.RawMessage) (mediator.Request, error) {
		var p travelRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &playerapp.TravelCommand{ToZoneID: p.ToZoneID}, nil
	},
	"extract": func(raw json.RawMessage) (mediator.Request, error) {
		var p extractRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &playerapp.ExtractCommand{Quantity: p.Quantity}, nil
	},
	"produce": func(raw json.RawMessage) (mediator.Request, error) {
		var p produceRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &playerapp.ProduceCommand{Output: p.Output, Quantity: p.Quantity}, nil
	},
	"ship": func(raw json.RawMessage) (mediator.Request, error) {
		var p shipRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.LaunchCommand{
			Kind:          p.Kind,
			Path:          p.Path,
			Cargo:         p.Cargo,
			EscortUnitIDs: p.EscortUnitIDs,
		}, nil
	},
	"supply": func(raw json.RawMessage) (mediator.Request, error) {
		var p supplyRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &worldqapp.SupplyCommand{Amount: p.Amount}, nil
	},
	"capture": func(raw json.RawMessage) (mediator.Request, error) {
		return &worldqapp.CaptureCommand{}, nil
	},
	"stockpile": func(raw json.RawMessage) (mediator.Request, error) {
		var p stockpileRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &worldqapp.StockpileCommand{Resource: p.Resource, Quantity: p.Quantity}, nil
	},
	"scan": func(raw json.RawMessage) (mediator.Request, error) {
		var p scanRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &intelapp.ScanCommand{TargetType: p.TargetType, TargetID: p.TargetID}, nil
	},
	"place_order": func(raw json.RawMessage) (mediator.Request, error) {
		var p orderRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &marketapp.PlaceOrderCommand{
			Side:     p.Side,
			Resource: p.Resource,
			Price:    p.Price,
			Quantity: p.Quantity,
		}, nil
	},
	"place_conditional": func(raw json.RawMessage) (mediator.Request, error) {
		var p conditionalOrderRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &marketapp.PlaceConditionalCommand{
			Side:         p.Side,
			Resource:     p.Resource,
			Price:        p.Price,
			Quantity:     p.Quantity,
			TriggerOp:    p.TriggerOp,
			TriggerPrice: p.TriggerPrice,
		}, nil
	},
	"place_twap": func(raw json.RawMessage) (mediator.Request, error) {
		var p twapOrderRequest
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &marketapp.PlaceTWAPCommand{
			Side:          p.Side,
			Resource:      p.Resource,
			Price:         p.Price,
			TotalQuantity: p.TotalQuantity,
			SlicePerTick:  p.SlicePerTick,
		}, nil
	},
	"cancel_order": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			OrderID string `json:"order_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &marketapp.CancelOrderCommand{OrderID: p.OrderID}, nil
	},
	"assign_escort": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			UnitID     string `json:"unit_id" validate:"required"`
			ShipmentID string `json:"shipment_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.AssignEscortCommand{UnitID: p.UnitID, ShipmentID: p.ShipmentID}, nil
	},
	"deploy_raider": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			UnitID  string `json:"unit_id" validate:"required"`
			RouteID string `json:"route_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.DeployRaiderCommand{UnitID: p.UnitID, RouteID: p.RouteID}, nil
	},
	"recall_unit": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			UnitID string `json:"unit_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.RecallUnitCommand{UnitID: p.UnitID}, nil
	},
	"sell_unit": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			UnitID string `json:"unit_id" validate:"required"`
			Price  int64  `json:"price" validate:"required,min=1"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.SellUnitCommand{UnitID: p.UnitID, Price: p.Price}, nil
	},
	"hire_unit": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			UnitID string `json:"unit_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &shippingapp.HireUnitCommand{UnitID: p.UnitID}, nil
	},
	"accept_contract": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			ContractID string `json:"contract_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &contractsapp.AcceptContractCommand{ContractID: p.ContractID}, nil
	},
	"complete_contract": func(raw json.RawMessage) (mediator.Request, error) {
		var p struct {
			ContractID string `json:"contract_id" validate:"required"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return &contractsapp.CompleteContractCommand{ContractID: p.ContractID}, nil
	},
}

func decodeParams(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return shared.NewValidationError("params", "malformed JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return shared.NewValidationError(first.Field(), "failed "+first.Tag()+" validation")
		}
		return shared.NewValidationError("params", err.Error())
	}
	return nil
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	cmd := &batchapp.BatchCommand{}
	for i, entry := range req.Actions {
		decoder, ok := batchDecoders[entry.Action]
		if !ok {
			s.writeErr(w, r, shared.NewValidationError("actions",
				"unknown batch action at index "+strconv.Itoa(i)+": "+entry.Action))
			return
		}
		inner, err := decoder(entry.Params)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		cmd.Actions = append(cmd.Actions, inner)
	}

	resp, ok := s.send(w, r, cmd)
	if !ok {
		return
	}
	batch := resp.(*batchapp.BatchResponse)

	type resultView struct {
		Index    int    `json:"index"`
		Action   string `json:"action"`
		Response any    `json:"response,omitempty"`
		Error    string `json:"error,omitempty"`
		Code     string `json:"code,omitempty"`
	}
	results := make([]resultView, 0, len(batch.Results))
	for _, res := range batch.Results {
		results = append(results, resultView{
			Index:    res.Index,
			Action:   res.Action,
			Response: batchResponseView(res.Response),
			Error:    res.Error,
			Code:     res.Code,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Results   []resultView `json:"results"`
		Completed bool         `json:"completed"`
	}{Results: results, Completed: batch.Completed})
}

// batchResponseView renders an inner action's response with the same
// views the dedicated endpoints use.
func batchResponseView(resp mediator.Response) any {
	switch v := resp.(type) {
	case nil:
		return nil
	case *playerapp.TravelResponse:
		return map[string]any{"zone_id": v.ZoneID, "distance": v.Distance}
	case *playerapp.ExtractResponse:
		return map[string]any{"resource": v.Resource, "quantity": v.Quantity, "cost": v.Cost, "credits": v.Credits}
	case *playerapp.ProduceResponse:
		return map[string]any{"output": v.Output, "quantity": v.Quantity, "unit_ids": v.UnitIDs, "inventory": v.Inventory}
	case *shippingapp.LaunchResponse:
		return map[string]any{"shipment": newShipmentView(v.Shipment)}
	case *worldqapp.SupplyResponse:
		return map[string]any{"zone_id": v.ZoneID, "su_stockpile": v.SUStockpile, "reputation": v.Reputation}
	case *worldqapp.CaptureResponse:
		return map[string]any{"zone": newZoneView(v.Zone), "reputation": v.Reputation}
	case *worldqapp.StockpileResponse:
		return map[string]any{"zone_id": v.ZoneID, "medkit_stockpile": v.MedkitStockpile, "comms_stockpile": v.CommsStockpile}
	case *intelapp.ScanResponse:
		return map[string]any{"report": newReportView(v.Report)}
	case *marketapp.PlaceOrderResponse:
		return map[string]any{"order": newOrderView(v.Order)}
	case *marketapp.CancelOrderResponse:
		return map[string]any{"order": newOrderView(v.Order), "credits_refunded": v.CreditsRefunded, "goods_refunded": v.GoodsRefunded}
	case *shippingapp.AssignEscortResponse:
		return map[string]any{"unit": newUnitView(v.Unit)}
	case *shippingapp.DeployRaiderResponse:
		return map[string]any{"unit": newUnitView(v.Unit)}
	case *shippingapp.RecallUnitResponse:
		return map[string]any{"unit": newUnitView(v.Unit)}
	case *shippingapp.SellUnitResponse:
		return map[string]any{"unit": newUnitView(v.Unit)}
	case *shippingapp.HireUnitResponse:
		return map[string]any{"unit": newUnitView(v.Unit), "credits": v.Credits}
	case *contractsapp.ContractResponse:
		return map[string]any{"contract": newContractView(v.Contract), "payout": v.Payout, "refund": v.Refund}
	default:
		return v
	}
}
