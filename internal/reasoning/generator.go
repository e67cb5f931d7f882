package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Generator sends a prompt to a text-generation backend and returns its raw reply
type Generator interface {
	// Name is the provider name used in user-facing failure summaries
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API through the official genai client
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Name implements Generator
func (g *GeminiGenerator) Name() string { return "Gemini" }

// Model returns the configured model name
func (g *GeminiGenerator) Model() string { return g.model }

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("response contained no candidates")
	}
	return resp.Text(), nil
}

// FakeGenerator returns canned replies. It is used by the offline CLI and tests.
type FakeGenerator struct {
	mu      sync.Mutex
	name    string
	replies []FakeReply
	prompts []string
}

// FakeReply is one scripted Generate result
type FakeReply struct {
	Text string
	Err  error
}

// NewFakeGenerator creates a generator that plays replies in order and then
// repeats the last one
func NewFakeGenerator(name string, replies ...FakeReply) *FakeGenerator {
	if name == "" {
		name = "Fake"
	}
	return &FakeGenerator{name: name, replies: replies}
}

// Name implements Generator
func (f *FakeGenerator) Name() string { return f.name }

// Generate implements Generator
func (f *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return `{"anomalies": [], "summary": "No anomalies detected.", "risk_distribution": {"high": 0, "medium": 0, "low": 0}}`, nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply.Text, reply.Err
}

// Prompts returns every prompt received so far
func (f *FakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}
