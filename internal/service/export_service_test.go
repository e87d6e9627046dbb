package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twill-app/twill-api/internal/dto"
	"github.com/twill-app/twill-api/internal/models"
)

type fakeStatsProvider struct {
	res *dto.StatsResponse
}

func (f *fakeStatsProvider) Stats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	return f.res, nil
}

func exportTestStats() *dto.StatsResponse {
	return &dto.StatsResponse{
		Overall: models.AttendanceStats{
			TotalUnits:    4,
			AttendedUnits: 2,
			Percentage:    50,
			RequiredUnits: 3,
		},
		PercentageFormatted: "50.00%",
		Subjects: []models.SubjectAttendance{
			{SubjectID: "math", SubjectName: "Mathematics", Stats: models.AttendanceStats{
				TotalUnits:    4,
				AttendedUnits: 2,
				Percentage:    50,
				RequiredUnits: 3,
			}},
		},
	}
}

func TestExportServiceStatsCSV(t *testing.T) {
	svc := NewExportService(&fakeStatsProvider{res: exportTestStats()}, nil)

	payload, filename, err := svc.StatsCSV(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	content := string(payload)
	assert.Contains(t, content, "Subject,Total Units")
	assert.Contains(t, content, "Mathematics,4,2,50.00%,3,0")
	assert.Contains(t, content, "Overall,4,2,50.00%,3,0")
}

func TestExportServiceStatsPDF(t *testing.T) {
	svc := NewExportService(&fakeStatsProvider{res: exportTestStats()}, nil)

	payload, filename, err := svc.StatsPDF(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
