package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

const presenceSheet = "Presence"

var presenceHeaders = []interface{}{"Student ID", "Username", "Station ID", "Station", "Present", "Sick", "Excused", "Absent", "Total"}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportPresences renders every presence row as an xlsx workbook
func (s *exportService) ExportPresences(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.Presence().Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load presence report: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			requestLogger(ctx, s.logger).Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", presenceSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(presenceSheet, "A1", &presenceHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.StudentID, r.Username, r.StationID, r.StationName, r.Present, r.Sick, r.Excused, r.Absent, r.Total()}
		if err := f.SetSheetRow(presenceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	requestLogger(ctx, s.logger).Info("Presence report exported", "rows", len(rows))
	return buf.Bytes(), nil
}
