package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostpayroll/pkg/contracts/domain"
)

func TestHealthService_HealthCheck(t *testing.T) {
	results, err := NewResultStore(4)
	require.NoError(t, err)

	tests := []struct {
		name     string
		provider string
		batches  *BatchStore
		want     string
	}{
		{name: "all components ready", provider: "Gemini", batches: NewBatchStore(5), want: "ok"},
		{name: "no provider", provider: "", batches: NewBatchStore(5), want: "degraded"},
		{name: "no batch store", provider: "Gemini", batches: nil, want: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", tt.provider, tt.batches, results, nil)
			status := hs.HealthCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Len(t, status.Services, 3)
		})
	}
}

func TestHealthService_BatchMessage(t *testing.T) {
	batches := NewBatchStore(5)
	batches.Put(domain.DatasetEmployee, "e.csv", frameOf(t, "emp_id\nE001\n"))
	hs := NewHealthService("1.0.0", "Fake", batches, nil, nil)

	sh := hs.checkBatchHealth()
	assert.Equal(t, "awaiting attendance, salary, wifi", sh.Message)
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.0.0", "Gemini", nil, nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "go_version")

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "v1", v["api_version"])
	assert.Equal(t, "unknown", v["git_commit"], "set by ldflags in release builds")
	assert.Equal(t, "Gemini", v["reasoning"])
}
