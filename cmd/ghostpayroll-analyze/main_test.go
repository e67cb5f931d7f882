package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghostpayroll/internal/config"
	"ghostpayroll/internal/security"
	"ghostpayroll/internal/shared/testutil"
	"ghostpayroll/pkg/contracts/domain"
)

func writeFixtures(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	var args []string
	for kind, body := range testutil.NewWorkforceFixtures().Files() {
		path := filepath.Join(dir, kind+".csv")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		args = append(args, "--"+kind, path)
	}
	return args
}

func TestAnalyzeCommand_Fake(t *testing.T) {
	t.Setenv("GHOSTPAYROLL_REASONING_MIN_INTERVAL", "0s")
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(writeFixtures(t), "--fake"))
	require.NoError(t, cmd.ExecuteContext(context.Background()), stderr.String())

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), stdout.String())
	assert.Equal(t, "No anomalies detected.", result.Summary)
	assert.NotNil(t, result.Stats)
	assert.Equal(t, 3, result.Stats.TotalEmployees)
	assert.Contains(t, stderr.String(), "Analysis finished")
}

func TestAnalyzeCommand_Dir(t *testing.T) {
	t.Setenv("GHOSTPAYROLL_REASONING_MIN_INTERVAL", "0s")
	args := writeFixtures(t)
	dir := filepath.Dir(args[1])

	// an explicit flag wins over discovery
	override := filepath.Join(t.TempDir(), "staff.csv")
	require.NoError(t, os.WriteFile(override, []byte(testutil.NewWorkforceFixtures().EmployeeCSV), 0o600))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--dir", dir, "--employee", override, "--fake"})
	require.NoError(t, cmd.ExecuteContext(context.Background()), stderr.String())

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, 3, result.Stats.TotalEmployees)
}

func TestAnalyzeCommand_MissingFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--employee", "e.csv", "--fake"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Empty(t, stdout.String())
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	args := writeFixtures(t)
	for i := range args {
		if args[i] == "--wifi" {
			args[i+1] = filepath.Join(t.TempDir(), "absent.csv")
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(args, "--fake"))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wi-Fi Session Logs")
}

func TestAnalyzeCommand_Report(t *testing.T) {
	t.Setenv("GHOSTPAYROLL_REASONING_MIN_INTERVAL", "0s")
	report := filepath.Join(t.TempDir(), "out", "report.xlsx")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(writeFixtures(t), "--fake", "--report", report))
	require.NoError(t, cmd.ExecuteContext(context.Background()), stderr.String())

	f, err := excelize.OpenFile(report)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Anomalies", "Trends"}, f.GetSheetList())
}

func TestAnalyzeCommand_RejectsBadInputs(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(t *testing.T, args []string) []string
		errorContains string
	}{
		{
			name: "unsupported dataset extension",
			mutate: func(t *testing.T, args []string) []string {
				path := filepath.Join(t.TempDir(), "salary.txt")
				require.NoError(t, os.WriteFile(path, []byte("emp_id\n"), 0o600))
				return replaceFlag(args, "--salary", path)
			},
			errorContains: "must be a .csv or .xlsx file",
		},
		{
			name: "unsupported report extension",
			mutate: func(t *testing.T, args []string) []string {
				return append(args, "--report", filepath.Join(t.TempDir(), "report.pdf"))
			},
			errorContains: "unsupported report format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := newRootCmd(&stdout, &stderr)
			cmd.SetArgs(append(tt.mutate(t, writeFixtures(t)), "--fake"))

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Empty(t, stdout.String())
		})
	}
}

func replaceFlag(args []string, flag, value string) []string {
	for i := range args {
		if args[i] == flag {
			args[i+1] = value
		}
	}
	return args
}

func TestSealKeyCommand(t *testing.T) {
	t.Setenv(config.SecretPassphraseEnv, "test-passphrase")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader("AIza-secret\n"))
	cmd.SetArgs([]string{"seal-key"})
	require.NoError(t, cmd.Execute())

	sealed := strings.TrimSpace(stdout.String())
	require.True(t, security.IsSealed(sealed))
	plain, err := security.OpenSecret(sealed, "test-passphrase")
	require.NoError(t, err)
	assert.Equal(t, "AIza-secret", plain)

	t.Run("sealed key drives the analysis", func(t *testing.T) {
		t.Setenv("GHOSTPAYROLL_REASONING_API_KEY", sealed)
		t.Setenv("GHOSTPAYROLL_REASONING_MIN_INTERVAL", "0s")
		t.Setenv(config.SecretPassphraseEnv, "wrong-passphrase")

		var stdout, stderr bytes.Buffer
		cmd := newRootCmd(&stdout, &stderr)
		cmd.SetArgs(append(writeFixtures(t), "--fake"))
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open reasoning API key")
	})
}

func TestSealKeyCommand_NeedsPassphrase(t *testing.T) {
	t.Setenv(config.SecretPassphraseEnv, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader("AIza-secret\n"))
	cmd.SetArgs([]string{"seal-key"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.SecretPassphraseEnv)
}
