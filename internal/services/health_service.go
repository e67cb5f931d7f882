package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"ghostpayroll/pkg/contracts"
	"ghostpayroll/pkg/contracts/domain"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	provider  string
	batches   *BatchStore
	results   *ResultStore
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, provider string, batches *BatchStore, results *ResultStore, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		provider:  provider,
		batches:   batches,
		results:   results,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status including per-component detail
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"batch":     hs.checkBatchHealth(),
			"reasoning": hs.checkReasoningHealth(),
			"results":   hs.checkResultHealth(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "degraded"
			break
		}
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	build := contracts.GetBuildInfo()
	return map[string]interface{}{
		"version":      hs.version,
		"api_version":  build.APIVersion,
		"build_time":   build.BuildTime,
		"git_commit":   build.GitCommit,
		"git_branch":   build.GitBranch,
		"go_version":   build.GoVersion,
		"os":           build.OS,
		"arch":         build.Architecture,
		"reasoning":    hs.provider,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkBatchHealth reports which upload slots are filled
func (hs *HealthService) checkBatchHealth() ServiceHealth {
	if hs.batches == nil {
		return ServiceHealth{Status: "not_ready", Message: "batch store not initialized"}
	}
	var missing []string
	for _, kind := range domain.RequiredDatasets {
		if !hs.batches.Status()[kind] {
			missing = append(missing, string(kind))
		}
	}
	msg := "all datasets uploaded"
	if len(missing) > 0 {
		msg = fmt.Sprintf("awaiting %s", strings.Join(missing, ", "))
	}
	return ServiceHealth{Status: "ready", Message: msg, Uptime: time.Since(hs.startTime).String()}
}

func (hs *HealthService) checkReasoningHealth() ServiceHealth {
	if hs.provider == "" {
		return ServiceHealth{Status: "not_ready", Message: "no reasoning provider configured"}
	}
	return ServiceHealth{Status: "ready", Message: "provider " + hs.provider}
}

func (hs *HealthService) checkResultHealth() ServiceHealth {
	if hs.results == nil {
		return ServiceHealth{Status: "not_ready", Message: "result store not initialized"}
	}
	return ServiceHealth{Status: "ready", Message: fmt.Sprintf("%d results cached", hs.results.Len())}
}
