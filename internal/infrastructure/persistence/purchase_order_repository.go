package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/shared"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
	"github.com/hongquyngo/inbound-logistic-dashboard/internal/infrastructure/persistence/models"
)

// GormPurchaseOrderRepository implements tracking.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// LoadAll returns the full dataset snapshot, newest orders first
func (r *GormPurchaseOrderRepository) LoadAll(ctx context.Context) ([]tracking.PurchaseOrderLine, error) {
	var rows []models.PurchaseOrderLineModel
	if err := r.db.WithContext(ctx).
		Order("po_date DESC, po_number DESC, line_id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]tracking.PurchaseOrderLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

// UpdateSchedule adjusts the ETD and/or ETA of one line. Zero times leave the
// corresponding date untouched.
func (r *GormPurchaseOrderRepository) UpdateSchedule(ctx context.Context, lineID int64, etd, eta time.Time, updatedBy string) error {
	updates := map[string]any{
		"updated_by": updatedBy,
		"updated_at": time.Now(),
	}
	if !etd.IsZero() {
		updates["etd"] = etd
	}
	if !eta.IsZero() {
		updates["eta"] = eta
	}

	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderLineModel{}).
		Where("line_id = ?", lineID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
