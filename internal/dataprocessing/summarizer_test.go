package dataprocessing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostpayroll/internal/shared/testutil"
	"ghostpayroll/pkg/contracts/domain"
)

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		name       string
		config     SummarizerConfig
		wantSample int
		wantMerged int
	}{
		{
			name:       "default config",
			config:     DefaultSummarizerConfig(),
			wantSample: 5,
			wantMerged: 10,
		},
		{
			name:       "negative sizes clamp to zero",
			config:     SummarizerConfig{SampleRows: -1, MergedSampleRows: -3},
			wantSample: 0,
			wantMerged: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(nil, tt.config)
			assert.Equal(t, tt.wantSample, s.config.SampleRows)
			assert.Equal(t, tt.wantMerged, s.config.MergedSampleRows)
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	b := normalizedFixture(t)
	merged, err := NewReconciler(logger).Reconcile(context.Background(), b)
	require.NoError(t, err)

	out, err := NewSummarizer(logger, SummarizerConfig{SampleRows: 2, MergedSampleRows: 3}).
		Summarize(context.Background(), b, merged)
	require.NoError(t, err)

	t.Run("stats", func(t *testing.T) {
		assert.Equal(t, 3, out.Stats.TotalEmployees)
		require.NotNil(t, out.Stats.AverageNetSalary)
		assert.InDelta(t, (4000.0+2500.0+5000.0)/3, *out.Stats.AverageNetSalary, 1e-9)
		require.NotNil(t, out.Stats.AverageAttendanceHours)
		assert.InDelta(t, (8.0+8.0+4.0)/3, *out.Stats.AverageAttendanceHours, 1e-9)
	})

	t.Run("samples in dataset order", func(t *testing.T) {
		require.Len(t, out.Samples, 4)
		for i, kind := range domain.RequiredDatasets {
			assert.Equal(t, kind, out.Samples[i].Kind)
			assert.Equal(t, DatasetTitle(kind), out.Samples[i].Title)
		}
		assert.Equal(t, "Attendance Records (emp_id, attendance_date, check_in_time, check_out_time)", out.Samples[1].Title)
	})

	t.Run("sample rendering", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(out.Samples[1].CSV), "\n")
		require.Len(t, lines, 3, "header plus two rows")
		assert.Equal(t, "emp_id,attendance_date,check_in_time,check_out_time,work_mode", lines[0])
		assert.Equal(t, "E001,2024-01-15,2024-01-15 09:00:00,2024-01-15 17:00:00,office", lines[1])
	})

	t.Run("merged sample", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(out.MergedSample), "\n")
		assert.Len(t, lines, 4)
		assert.Equal(t, 4, out.MergedRows)
		// E002 has no attendance or connection data
		assert.True(t, strings.HasPrefix(lines[3], "E002,,,,,,,,,2024-01,2500,"), lines[3])
	})
}

func TestSummarizer_UndefinedAverages(t *testing.T) {
	attendance := "emp_id,attendance_date,check_in_time,check_out_time\nE001,2024-01-15,,\n"
	salary := "emp_id,payroll_month,net_salary,payment_date\nE001,2024-01,,2024-01-31\n"
	fx := testutil.NewWorkforceFixtures()
	b := batchFromCSV(t, fx.EmployeeCSV, attendance, salary, fx.WifiCSV)

	out, err := NewSummarizer(nil, DefaultSummarizerConfig()).Summarize(context.Background(), b, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Stats.TotalEmployees)
	assert.Nil(t, out.Stats.AverageNetSalary)
	assert.Nil(t, out.Stats.AverageAttendanceHours)
	assert.Empty(t, out.MergedSample)
}
