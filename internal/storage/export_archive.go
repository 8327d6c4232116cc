package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ExportArchive keeps generated workbooks under <base>/<company>/<YYYY-MM>/
type ExportArchive struct {
	storage FileStorage
	baseDir string
	logger  *zap.Logger
}

// NewExportArchive creates an archive rooted at baseDir
func NewExportArchive(storage *LocalFileStorage, logger *zap.Logger) *ExportArchive {
	return &ExportArchive{
		storage: storage,
		baseDir: storage.BaseDir(),
		logger:  logger,
	}
}

// PathFor returns where an export of companyID created at t is stored
func (a *ExportArchive) PathFor(companyID string, t time.Time, fileName string) (string, error) {
	company := SanitizeFolderName(companyID)
	if company == "" {
		return "", fmt.Errorf("cannot archive export: invalid company id %q", companyID)
	}
	name := filepath.Base(fileName)
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("cannot archive export: invalid file name %q", fileName)
	}
	return filepath.Join(a.baseDir, company, t.UTC().Format("2006-01"), name), nil
}

// Save writes the workbook and returns its path
func (a *ExportArchive) Save(companyID string, t time.Time, fileName string, content []byte) (string, error) {
	path, err := a.PathFor(companyID, t, fileName)
	if err != nil {
		return "", err
	}
	if err := a.storage.SaveFile(path, content); err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	a.logger.Info("Export archived",
		zap.String("company_id", companyID),
		zap.String("path", path))
	return path, nil
}

// Load reads an archived workbook back
func (a *ExportArchive) Load(path string) ([]byte, error) {
	return a.storage.ReadFile(path)
}

// SanitizeFolderName returns a filesystem-safe version of the name, keeping
// only alphanumerics, hyphens and underscores
func SanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeNameChars.ReplaceAllString(name, "")
}
