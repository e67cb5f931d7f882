package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostpayroll/pkg/contracts/domain"
)

func touch(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("emp_id\n"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name   string
		want   domain.DatasetKind
		wantOK bool
	}{
		{"employees.csv", domain.DatasetEmployee, true},
		{"Employee Master.xlsx", domain.DatasetEmployee, true},
		{"attendance_2024.csv", domain.DatasetAttendance, true},
		{"payroll-june.xlsx", domain.DatasetSalary, true},
		{"employee_salary.csv", domain.DatasetSalary, true},
		{"Wi-Fi_logs.csv", domain.DatasetWifi, true},
		{"wifi_sessions.csv", domain.DatasetWifi, true},
		{"notes.csv", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscovery_FindDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	touch(t, dir, "b.xlsx", base.Add(2*time.Hour))
	touch(t, dir, "a.CSV", base.Add(time.Hour))
	touch(t, dir, "readme.txt", base)
	touch(t, dir, "~$b.xlsx", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := NewDiscovery("/unused").FindDatasetFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name, "oldest first")
	assert.Equal(t, "b.xlsx", files[1].Name)
}

func TestDiscovery_FindDatasets(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "exports")
	require.NoError(t, os.Mkdir(dir, 0o755))

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	touch(t, dir, "employees.csv", base)
	touch(t, dir, "attendance.csv", base)
	touch(t, dir, "payroll_may.csv", base)
	newest := touch(t, dir, "payroll_june.xlsx", base.Add(24*time.Hour))
	touch(t, dir, "unrelated.csv", base)

	found, err := NewDiscovery(root).FindDatasets("exports")
	require.NoError(t, err)

	assert.Len(t, found, 3)
	assert.Equal(t, newest, found[domain.DatasetSalary].Path)
	assert.Contains(t, found, domain.DatasetEmployee)
	assert.NotContains(t, found, domain.DatasetWifi)
}

func TestDiscovery_FindDatasets_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindDatasets("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "old", ModTime: now.Add(-time.Hour)},
		{Name: "new", ModTime: now},
		{Name: "mid", ModTime: now.Add(-time.Minute)},
	})
	require.True(t, ok)
	assert.Equal(t, "new", latest.Name)
}
