// Command ghostpayroll-analyze runs one reconciliation and reasoning pass over
// four dataset files and prints the analysis result as JSON on stdout. Logs go
// to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"ghostpayroll/internal/app"
	"ghostpayroll/internal/config"
	"ghostpayroll/internal/exporter"
	"ghostpayroll/internal/files"
	"ghostpayroll/internal/infrastructure"
	"ghostpayroll/internal/validation"
	"ghostpayroll/pkg/contracts/domain"
)

type analyzeOptions struct {
	files      map[domain.DatasetKind]*string
	dir        string
	configFile string
	fake       bool
	logLevel   string
	indent     bool
	report     string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &analyzeOptions{files: make(map[domain.DatasetKind]*string)}

	cmd := &cobra.Command{
		Use:   "ghostpayroll-analyze",
		Short: "Detect ghost payroll anomalies in four workforce datasets",
		Long: `Loads employee, attendance, salary and Wi-Fi datasets (CSV or XLSX),
reconciles them per employee and month, asks the reasoning service to
classify anomalies and prints the result as JSON. With --report the
result is also written as a CSV anomaly table or an XLSX workbook.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.Context(), opts, stdout, stderr)
		},
	}

	for _, kind := range domain.RequiredDatasets {
		opts.files[kind] = cmd.Flags().String(string(kind), "", fmt.Sprintf("path to the %s file", kind.DisplayName()))
	}
	cmd.Flags().StringVar(&opts.dir, "dir", "", "directory to discover unset dataset files in, by filename")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	cmd.Flags().BoolVar(&opts.fake, "fake", false, "use the offline reasoner instead of Gemini")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	cmd.Flags().BoolVar(&opts.indent, "indent", true, "indent the JSON output")
	cmd.Flags().StringVar(&opts.report, "report", "", "also write the result as a .csv or .xlsx report")

	cmd.AddCommand(newSealKeyCmd())

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func runAnalyze(ctx context.Context, opts *analyzeOptions, stdout, stderr io.Writer) error {
	cfg, err := config.LoadFrom(opts.configFile, func(c *config.Config) {
		if opts.fake {
			c.Reasoning.Provider = "fake"
		}
		if opts.logLevel != "" {
			c.Logging.Level = opts.logLevel
		}
	})
	if err != nil {
		return err
	}

	logger := infrastructure.NewLogger(stderr, cfg.Logging)

	paths, err := resolveInputs(opts)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	for _, kind := range domain.RequiredDatasets {
		if err := validator.ValidateDataset(kind, paths[kind]); err != nil {
			return fmt.Errorf("invalid %s: %w", kind.DisplayName(), err)
		}
	}
	if opts.report != "" {
		if _, err := exporter.FormatForPath(opts.report); err != nil {
			return err
		}
		if err := validator.ValidateOutputDirectory(filepath.Dir(opts.report)); err != nil {
			return err
		}
	}

	container, err := app.NewServices(ctx, cfg, logger, nil, nil)
	if err != nil {
		return err
	}

	for _, kind := range domain.RequiredDatasets {
		if _, err := container.Uploads.LoadFile(ctx, kind, paths[kind]); err != nil {
			return fmt.Errorf("failed to load %s: %w", kind.DisplayName(), err)
		}
	}

	result := container.Analysis.Analyze(ctx)

	if opts.report != "" {
		if err := container.Reports.ExportFile(ctx, opts.report, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	enc := json.NewEncoder(stdout)
	if opts.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// resolveInputs takes explicit flags first and fills the rest from --dir
func resolveInputs(opts *analyzeOptions) (map[domain.DatasetKind]string, error) {
	paths := make(map[domain.DatasetKind]string, len(domain.RequiredDatasets))
	for kind, p := range opts.files {
		if *p != "" {
			paths[kind] = *p
		}
	}

	if opts.dir != "" && len(paths) < len(domain.RequiredDatasets) {
		found, err := files.NewDiscovery(".").FindDatasets(opts.dir)
		if err != nil {
			return nil, err
		}
		for kind, f := range found {
			if _, set := paths[kind]; !set {
				paths[kind] = f.Path
			}
		}
	}

	for _, kind := range domain.RequiredDatasets {
		if _, ok := paths[kind]; !ok {
			return nil, fmt.Errorf("required flag %q not set and no %s found", string(kind), kind.DisplayName())
		}
	}
	return paths, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		slog.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
