package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"go.uber.org/zap"
)

// DefaultListLimit caps history listings when no limit is given
const DefaultListLimit = 50

// ExportLogRepository handles export history operations
type ExportLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExportLogRepository creates a new export log repository
func NewExportLogRepository(db *sql.DB, logger *zap.Logger) *ExportLogRepository {
	return &ExportLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a generated export and fills in its id
func (r *ExportLogRepository) Create(ctx context.Context, log *models.ExportLog) error {
	query := `
		INSERT INTO export_logs (
			export_id, session_id, company_id, company_name, kind, file_name,
			archive_path, row_count, sheet_count, start_date, end_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		log.ExportID,
		log.SessionID,
		log.CompanyID,
		log.CompanyName,
		log.Kind,
		log.FileName,
		log.ArchivePath,
		log.RowCount,
		log.SheetCount,
		log.StartDate,
		log.EndDate,
		log.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create export log",
			zap.String("export_id", log.ExportID),
			zap.Error(err))
		return fmt.Errorf("failed to create export log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// GetByExportID retrieves an export log, or nil when absent
func (r *ExportLogRepository) GetByExportID(ctx context.Context, exportID string) (*models.ExportLog, error) {
	query := `
		SELECT id, export_id, session_id, company_id, company_name, kind, file_name,
			archive_path, row_count, sheet_count, start_date, end_date, created_at
		FROM export_logs
		WHERE export_id = ?
	`

	log, err := scanExportLog(r.db.QueryRowContext(ctx, query, exportID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get export log", zap.String("export_id", exportID), zap.Error(err))
		return nil, fmt.Errorf("failed to get export log: %w", err)
	}
	return log, nil
}

// ListByCompany returns a company's exports, newest first
func (r *ExportLogRepository) ListByCompany(ctx context.Context, companyID string, limit int) ([]*models.ExportLog, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, export_id, session_id, company_id, company_name, kind, file_name,
			archive_path, row_count, sheet_count, start_date, end_date, created_at
		FROM export_logs
		WHERE company_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, limit)
	if err != nil {
		r.logger.Error("Failed to list export logs", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list export logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.ExportLog, 0)
	for rows.Next() {
		log, err := scanExportLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export logs: %w", err)
	}
	return logs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExportLog(row rowScanner) (*models.ExportLog, error) {
	var log models.ExportLog
	err := row.Scan(
		&log.ID,
		&log.ExportID,
		&log.SessionID,
		&log.CompanyID,
		&log.CompanyName,
		&log.Kind,
		&log.FileName,
		&log.ArchivePath,
		&log.RowCount,
		&log.SheetCount,
		&log.StartDate,
		&log.EndDate,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}
