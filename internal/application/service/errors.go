package service

import "errors"

var (
	ErrExportNotFound    = errors.New("export not found")
	ErrExportNotArchived = errors.New("export has no archived workbook")
)
