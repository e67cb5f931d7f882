package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ghostpayroll/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// datasetKeywords map normalized filename fragments to datasets. The first
// kind whose keyword appears in the name wins, so employee comes last:
// "employee_salary.csv" is a salary file.
var datasetKeywords = []struct {
	kind     domain.DatasetKind
	keywords []string
}{
	{domain.DatasetSalary, []string{"salary", "payroll", "payout"}},
	{domain.DatasetAttendance, []string{"attendance", "timesheet"}},
	{domain.DatasetWifi, []string{"wifi", "wlan", "session"}},
	{domain.DatasetEmployee, []string{"employee", "staff", "master"}},
}

// Discovery finds dataset files in a directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindDatasetFiles lists the CSV and XLSX files in dir, oldest first.
// Excel lock files are skipped.
func (d *Discovery) FindDatasetFiles(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if (ext != ".csv" && ext != ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// FindDatasets assigns the files of dir to datasets by name. When several
// files match one dataset the most recently modified is used. Kinds with no
// match are absent from the result.
func (d *Discovery) FindDatasets(dir string) (map[domain.DatasetKind]FileInfo, error) {
	files, err := d.FindDatasetFiles(dir)
	if err != nil {
		return nil, err
	}

	candidates := make(map[domain.DatasetKind][]FileInfo)
	for _, f := range files {
		if kind, ok := ClassifyName(f.Name); ok {
			candidates[kind] = append(candidates[kind], f)
		}
	}

	found := make(map[domain.DatasetKind]FileInfo, len(candidates))
	for kind, fs := range candidates {
		if latest, ok := GetLatestFile(fs); ok {
			found[kind] = latest
		}
	}
	return found, nil
}

// ClassifyName guesses the dataset of a file from its name
func ClassifyName(name string) (domain.DatasetKind, bool) {
	base := strings.TrimSuffix(strings.ToLower(name), strings.ToLower(filepath.Ext(name)))
	base = strings.NewReplacer("-", "", "_", "", " ", "", ".", "").Replace(base)

	for _, entry := range datasetKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(base, kw) {
				return entry.kind, true
			}
		}
	}
	return "", false
}

// GetLatestFile returns the most recently modified file
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(latest.ModTime) {
			latest = f
		}
	}
	return latest, true
}
