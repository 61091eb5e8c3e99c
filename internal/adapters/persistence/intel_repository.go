package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"burnrate/internal/domain/intel"
)

// GormIntelRepository implements ReportRepository using GORM
type GormIntelRepository struct {
	db *gorm.DB
}

// NewGormIntelRepository creates a new GORM intel repository
func NewGormIntelRepository(db *gorm.DB) *GormIntelRepository {
	return &GormIntelRepository{db: db}
}

// FindByID retrieves a report by ID
func (r *GormIntelRepository) FindByID(ctx context.Context, reportID string) (*intel.Report, error) {
	var model IntelReportModel
	result := dbFrom(ctx, r.db).Where("id = ?", reportID).First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "intel_report", reportID)
	}
	return r.modelToReport(&model)
}

// FindByGatherer retrieves a player's reports, newest first
func (r *GormIntelRepository) FindByGatherer(ctx context.Context, playerID string, limit int) ([]*intel.Report, error) {
	var models []IntelReportModel
	result := dbFrom(ctx, r.db).
		Where("gatherer_id = ?", playerID).
		Order("gathered_at DESC, id").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list intel reports: %w", result.Error)
	}
	return r.modelsToReports(models)
}

// FindByGatherers retrieves reports gathered by any of the given
// players, newest first
func (r *GormIntelRepository) FindByGatherers(ctx context.Context, playerIDs []string, limit int) ([]*intel.Report, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var models []IntelReportModel
	result := dbFrom(ctx, r.db).
		Where("gatherer_id IN ?", playerIDs).
		Order("gathered_at DESC, id").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list intel reports: %w", result.Error)
	}
	return r.modelsToReports(models)
}

// FindByTarget retrieves every report on a target, newest first
func (r *GormIntelRepository) FindByTarget(ctx context.Context, targetType intel.TargetType, targetID string) ([]*intel.Report, error) {
	var models []IntelReportModel
	result := dbFrom(ctx, r.db).
		Where("target_type = ? AND target_id = ?", string(targetType), targetID).
		Order("gathered_at DESC, id").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list intel reports: %w", result.Error)
	}
	return r.modelsToReports(models)
}

// FreshestByTarget retrieves the newest report a player holds on a
// target
func (r *GormIntelRepository) FreshestByTarget(ctx context.Context, playerID string, targetType intel.TargetType, targetID string) (*intel.Report, error) {
	var model IntelReportModel
	result := dbFrom(ctx, r.db).
		Where("gatherer_id = ? AND target_type = ? AND target_id = ?",
			playerID, string(targetType), targetID).
		Order("gathered_at DESC").
		First(&model)
	if result.Error != nil {
		return nil, findErr(result.Error, "intel_report", targetID)
	}
	return r.modelToReport(&model)
}

// Add persists a new report
func (r *GormIntelRepository) Add(ctx context.Context, report *intel.Report) error {
	model, err := r.reportToModel(report)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to add intel report: %w", result.Error)
	}
	return nil
}

// DeleteOlderThan removes reports gathered before the given tick,
// returning how many were swept
func (r *GormIntelRepository) DeleteOlderThan(ctx context.Context, tick int64) (int64, error) {
	result := dbFrom(ctx, r.db).Where("gathered_at < ?", tick).Delete(&IntelReportModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep intel reports: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteAll wipes the table at season reset
func (r *GormIntelRepository) DeleteAll(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&IntelReportModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete intel reports: %w", result.Error)
	}
	return nil
}

func (r *GormIntelRepository) modelsToReports(models []IntelReportModel) ([]*intel.Report, error) {
	reports := make([]*intel.Report, 0, len(models))
	for i := range models {
		report, err := r.modelToReport(&models[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// modelToReport converts database model to domain entity
func (r *GormIntelRepository) modelToReport(model *IntelReportModel) (*intel.Report, error) {
	report := &intel.Report{
		ID:            model.ID,
		GathererID:    model.GathererID,
		FactionID:     model.FactionID,
		TargetType:    intel.TargetType(model.TargetType),
		TargetID:      model.TargetID,
		GatheredAt:    model.GatheredAt,
		SignalQuality: model.SignalQuality,
	}
	if model.Zone != "" {
		var snap intel.ZoneSnapshot
		if err := fromJSON(model.Zone, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode zone snapshot: %w", err)
		}
		report.Zone = &snap
	}
	if model.Route != "" {
		var snap intel.RouteSnapshot
		if err := fromJSON(model.Route, &snap); err != nil {
			return nil, fmt.Errorf("failed to decode route snapshot: %w", err)
		}
		report.Route = &snap
	}
	return report, nil
}

// reportToModel converts domain entity to database model
func (r *GormIntelRepository) reportToModel(report *intel.Report) (*IntelReportModel, error) {
	model := &IntelReportModel{
		ID:            report.ID,
		GathererID:    report.GathererID,
		FactionID:     report.FactionID,
		TargetType:    string(report.TargetType),
		TargetID:      report.TargetID,
		GatheredAt:    report.GatheredAt,
		SignalQuality: report.SignalQuality,
	}
	if report.Zone != nil {
		zone, err := toJSON(report.Zone)
		if err != nil {
			return nil, fmt.Errorf("failed to encode zone snapshot: %w", err)
		}
		model.Zone = zone
	}
	if report.Route != nil {
		route, err := toJSON(report.Route)
		if err != nil {
			return nil, fmt.Errorf("failed to encode route snapshot: %w", err)
		}
		model.Route = route
	}
	return model, nil
}
