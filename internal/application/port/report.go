package port

import (
	"context"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

// SnapshotLoader fetches (or recalls) the record collections for a scope.
// LoadFresh skips the cached copy.
type SnapshotLoader interface {
	Load(ctx context.Context, q models.RangeQuery) (*report.Snapshot, error)
	LoadFresh(ctx context.Context, q models.RangeQuery) (*report.Snapshot, error)
	Invalidate(ctx context.Context, companyID string) error
}

// RecordDeleter dispatches a delete to the fleet backend
type RecordDeleter interface {
	Delete(ctx context.Context, kind models.Kind, id string) error
}

// ExportLogRepository defines persistence operations for export history
type ExportLogRepository interface {
	Create(ctx context.Context, log *models.ExportLog) error
	GetByExportID(ctx context.Context, exportID string) (*models.ExportLog, error)
	ListByCompany(ctx context.Context, companyID string, limit int) ([]*models.ExportLog, error)
}

// ExportArchive keeps a copy of generated workbooks
type ExportArchive interface {
	Save(companyID string, t time.Time, fileName string, content []byte) (string, error)
	Load(path string) ([]byte, error)
}
