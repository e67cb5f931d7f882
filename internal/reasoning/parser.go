package reasoning

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"ghostpayroll/pkg/contracts/domain"
)

// ErrNoStructuredPayload means the reply contained no JSON object
var ErrNoStructuredPayload = errors.New("no JSON object found in response")

// Payload is the structured part of a reasoning reply
type Payload struct {
	Anomalies        []domain.Anomaly
	Summary          string
	RiskDistribution domain.RiskDistribution
}

// ResponseParser extracts a Payload from raw model output
type ResponseParser interface {
	Parse(raw string) (*Payload, error)
}

// FirstObjectParser decodes the first balanced top-level {...} in the text.
// Braces inside JSON strings are ignored.
type FirstObjectParser struct{}

type wirePayload struct {
	Anomalies        []domain.Anomaly           `json:"anomalies"`
	Summary          string                     `json:"summary"`
	RiskDistribution map[string]json.RawMessage `json:"risk_distribution"`
}

// Parse implements ResponseParser
func (FirstObjectParser) Parse(raw string) (*Payload, error) {
	obj, ok := firstObject(raw)
	if !ok {
		return nil, ErrNoStructuredPayload
	}

	var wire wirePayload
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response JSON: %w", err)
	}

	p := &Payload{
		Anomalies:        wire.Anomalies,
		Summary:          wire.Summary,
		RiskDistribution: domain.RiskDistribution{},
	}
	if p.Anomalies == nil {
		p.Anomalies = []domain.Anomaly{}
	}
	for level, v := range wire.RiskDistribution {
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			continue
		}
		p.RiskDistribution[level] = int(math.Round(n))
	}
	return p, nil
}

// firstObject returns the first complete top-level JSON object in s
func firstObject(s string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
