package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/world"
)

// GormRouteRepository implements RouteRepository using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM route repository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByID retrieves a route by ID
func (r *GormRouteRepository) FindByID(ctx context.Context, routeID string) (*world.Route, error) {
	var model RouteModel
	result := dbFrom(ctx, r.db).Where("id = ?", routeID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "route", routeID)
	}
	return r.modelToRoute(&model), nil
}

// FindAll retrieves every route
func (r *GormRouteRepository) FindAll(ctx context.Context) ([]*world.Route, error) {
	var models []RouteModel
	result := dbFrom(ctx, r.db).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list routes: %w", result.Error)
	}
	routes := make([]*world.Route, 0, len(models))
	for i := range models {
		routes = append(routes, r.modelToRoute(&models[i]))
	}
	return routes, nil
}

// FindTouching retrieves routes with the zone at either endpoint
func (r *GormRouteRepository) FindTouching(ctx context.Context, zoneID string) ([]*world.Route, error) {
	var models []RouteModel
	result := dbFrom(ctx, r.db).
		Where("from_zone_id = ? OR to_zone_id = ?", zoneID, zoneID).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list touching routes: %w", result.Error)
	}
	routes := make([]*world.Route, 0, len(models))
	for i := range models {
		routes = append(routes, r.modelToRoute(&models[i]))
	}
	return routes, nil
}

// Add persists a new route
func (r *GormRouteRepository) Add(ctx context.Context, route *world.Route) error {
	result := dbFrom(ctx, r.db).Create(r.routeToModel(route))
	if result.Error != nil {
		return fmt.Errorf("failed to add route: %w", result.Error)
	}
	return nil
}

func (r *GormRouteRepository) modelToRoute(model *RouteModel) *world.Route {
	return &world.Route{
		ID:         model.ID,
		FromZoneID: model.FromZoneID,
		ToZoneID:   model.ToZoneID,
		Distance:   model.Distance,
		Capacity:   model.Capacity,
		BaseRisk:   model.BaseRisk,
		Chokepoint: model.Chokepoint,
	}
}

func (r *GormRouteRepository) routeToModel(route *world.Route) *RouteModel {
	return &RouteModel{
		ID:         route.ID,
		FromZoneID: route.FromZoneID,
		ToZoneID:   route.ToZoneID,
		Distance:   route.Distance,
		Capacity:   route.Capacity,
		BaseRisk:   route.BaseRisk,
		Chokepoint: route.Chokepoint,
	}
}
