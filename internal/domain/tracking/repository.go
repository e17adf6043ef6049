package tracking

import (
	"context"
	"time"
)

// PurchaseOrderRepository provides read access to the purchase order line
// dataset and the single mutation the tracking screens support.
type PurchaseOrderRepository interface {
	// LoadAll returns the full dataset snapshot, newest orders first.
	LoadAll(ctx context.Context) ([]PurchaseOrderLine, error)

	// UpdateSchedule adjusts the ETD and/or ETA of one line. A zero time
	// leaves the corresponding date untouched. Returns shared.ErrNotFound
	// when the line does not exist.
	UpdateSchedule(ctx context.Context, lineID int64, etd, eta time.Time, updatedBy string) error
}
