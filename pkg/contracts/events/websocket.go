// Package events defines the messages pushed to dashboard clients over the
// /ws event stream.
package events

import (
	"time"

	"ghostpayroll/pkg/contracts/domain"
)

// MessageType defines the type of an event message
type MessageType string

const (
	MessageTypeConnect           MessageType = "connect"
	MessageTypeUploadAccepted    MessageType = "upload:accepted"
	MessageTypeAnalysisStarted   MessageType = "analysis:started"
	MessageTypeAnalysisCompleted MessageType = "analysis:completed"
)

// Message is the envelope of every event
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// ConnectData greets a newly connected client
type ConnectData struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

// UploadAccepted is published when a dataset fills its batch slot
type UploadAccepted struct {
	Upload        domain.UploadRecord `json:"upload"`
	Rows          int                 `json:"rows"`
	BatchComplete bool                `json:"batch_complete"`
}

// AnalysisStarted is published when a complete batch enters the pipeline
type AnalysisStarted struct {
	Provider string `json:"provider"`
}

// AnalysisCompleted is published with the outcome of a pipeline run
type AnalysisCompleted struct {
	AnalysisID       string                  `json:"analysis_id"`
	Summary          string                  `json:"summary"`
	Anomalies        int                     `json:"anomalies"`
	RiskDistribution domain.RiskDistribution `json:"risk_distribution"`
}
