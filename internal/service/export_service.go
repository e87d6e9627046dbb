package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/schedule"
	"github.com/twill-app/twill-api/pkg/export"
)

type statsProvider interface {
	Stats(ctx context.Context, userID string) (*dto.StatsResponse, error)
}

// ExportService renders attendance statistics as downloadable files.
type ExportService struct {
	stats  statsProvider
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(stats statsProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		stats:  stats,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// StatsCSV renders the per-subject breakdown plus the overall row as CSV.
func (s *ExportService) StatsCSV(ctx context.Context, userID string) ([]byte, string, error) {
	res, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(statsDataset(res))
	if err != nil {
		return nil, "", err
	}
	return payload, exportFilename("csv"), nil
}

// StatsPDF renders the same table as a PDF document.
func (s *ExportService) StatsPDF(ctx context.Context, userID string) ([]byte, string, error) {
	res, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(statsDataset(res), "Attendance Report")
	if err != nil {
		return nil, "", err
	}
	return payload, exportFilename("pdf"), nil
}

func statsDataset(res *dto.StatsResponse) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Subject", "Total Units", "Attended Units", "Percentage", "Required Units", "Units Can Skip"},
	}
	for _, subject := range res.Subjects {
		dataset.Rows = append(dataset.Rows, statsRow(subject.SubjectName, subject.Stats.TotalUnits,
			subject.Stats.AttendedUnits, subject.Stats.Percentage, subject.Stats.RequiredUnits, subject.Stats.UnitsCanSkip))
	}
	dataset.Rows = append(dataset.Rows, statsRow("Overall", res.Overall.TotalUnits,
		res.Overall.AttendedUnits, res.Overall.Percentage, res.Overall.RequiredUnits, res.Overall.UnitsCanSkip))
	return dataset
}

func statsRow(name string, total, attended, percentage, required, canSkip float64) []string {
	return []string{
		name,
		formatUnits(total),
		formatUnits(attended),
		schedule.FormatPercentage(percentage),
		formatUnits(required),
		formatUnits(canSkip),
	}
}

func formatUnits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func exportFilename(ext string) string {
	return fmt.Sprintf("attendance-%s.%s", time.Now().Format("2006-01-02"), ext)
}
