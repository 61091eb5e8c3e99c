package httpapi

import (
	"net/http"

	shippingapp "burnrate/internal/application/shipping"
	"burnrate/internal/domain/unit"
)

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	var req shipRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &shippingapp.LaunchCommand{
		Kind:          req.Kind,
		Path:          req.Path,
		Cargo:         req.Cargo,
		EscortUnitIDs: req.EscortUnitIDs,
	})
	if !ok {
		return
	}
	launched := resp.(*shippingapp.LaunchResponse)
	writeJSON(w, http.StatusCreated, struct {
		Shipment shipmentView `json:"shipment"`
	}{Shipment: newShipmentView(launched.Shipment)})
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &shippingapp.ListShipmentsQuery{})
	if !ok {
		return
	}
	shipments := resp.(*shippingapp.ListShipmentsResponse).Shipments
	writeJSON(w, http.StatusOK, struct {
		Shipments []shipmentView `json:"shipments"`
	}{Shipments: newShipmentViews(shipments)})
}

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &shippingapp.ListUnitsQuery{})
	if !ok {
		return
	}
	units := resp.(*shippingapp.ListUnitsResponse).Units
	writeJSON(w, http.StatusOK, struct {
		Units []unitView `json:"units"`
	}{Units: newUnitViews(units)})
}

func (s *Server) handleUnitMarket(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &shippingapp.ListUnitMarketQuery{})
	if !ok {
		return
	}
	listings := resp.(*shippingapp.ListUnitMarketResponse)
	writeJSON(w, http.StatusOK, struct {
		ZoneID string     `json:"zone_id"`
		Units  []unitView `json:"units"`
	}{ZoneID: listings.ZoneID, Units: newUnitViews(listings.Units)})
}

func (s *Server) handleAssignEscort(w http.ResponseWriter, r *http.Request) {
	var req escortRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &shippingapp.AssignEscortCommand{
		UnitID:     r.PathValue("id"),
		ShipmentID: req.ShipmentID,
	})
	if !ok {
		return
	}
	s.writeUnit(w, resp.(*shippingapp.AssignEscortResponse).Unit)
}

func (s *Server) handleDeployRaider(w http.ResponseWriter, r *http.Request) {
	var req raiderRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &shippingapp.DeployRaiderCommand{
		UnitID:  r.PathValue("id"),
		RouteID: req.RouteID,
	})
	if !ok {
		return
	}
	s.writeUnit(w, resp.(*shippingapp.DeployRaiderResponse).Unit)
}

func (s *Server) handleRecallUnit(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &shippingapp.RecallUnitCommand{UnitID: r.PathValue("id")})
	if !ok {
		return
	}
	s.writeUnit(w, resp.(*shippingapp.RecallUnitResponse).Unit)
}

func (s *Server) handleSellUnit(w http.ResponseWriter, r *http.Request) {
	var req sellUnitRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	resp, ok := s.send(w, r, &shippingapp.SellUnitCommand{
		UnitID: r.PathValue("id"),
		Price:  req.Price,
	})
	if !ok {
		return
	}
	s.writeUnit(w, resp.(*shippingapp.SellUnitResponse).Unit)
}

func (s *Server) handleHireUnit(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.send(w, r, &shippingapp.HireUnitCommand{UnitID: r.PathValue("unitId")})
	if !ok {
		return
	}
	hired := resp.(*shippingapp.HireUnitResponse)
	writeJSON(w, http.StatusOK, struct {
		Unit    unitView `json:"unit"`
		Credits int64    `json:"credits"`
	}{Unit: newUnitView(hired.Unit), Credits: hired.Credits})
}

func (s *Server) writeUnit(w http.ResponseWriter, u *unit.Unit) {
	writeJSON(w, http.StatusOK, struct {
		Unit unitView `json:"unit"`
	}{Unit: newUnitView(u)})
}
