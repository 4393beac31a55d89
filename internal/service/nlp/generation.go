package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
)

// FallbackStory is returned when the generation collaborator stays
// unreachable through every retry. Callers get this exact text with the
// fallback flag set, never an error.
const FallbackStory = "Once upon a time, in a quiet village nestled between rolling green hills, " +
	"a young inventor named Elara discovered a hidden cave. Inside, she found an ancient machine, " +
	"humming with energy. As she touched its surface, a holographic map appeared, revealing a " +
	"long-lost civilization waiting to be rediscovered."

// Generator produces a story continuation for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPGenerator calls the model host's /generate endpoint.
type HTTPGenerator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGenerator creates a generator against the given base URL. The
// client's timeout bounds each attempt; expiry is a transient failure the
// retry policy may absorb.
func NewHTTPGenerator(baseURL string, client *http.Client) *HTTPGenerator {
	return &HTTPGenerator{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Story string `json:"story"`
	Error string `json:"error,omitempty"`
}

// Generate posts the prompt and returns the generated story text
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generate returned status %d", domain.ErrTransient, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if out.Error != "" {
		return "", errors.New(out.Error)
	}

	return out.Story, nil
}

// GenerationService wraps a Generator with the bounded-retry policy and the
// documented fallback.
type GenerationService struct {
	generator Generator
	policy    Policy
	logger    *slog.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(generator Generator, policy Policy, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		policy:    policy,
		logger:    logger,
	}
}

// Generate runs the collaborator under the retry policy. On exhaustion it
// degrades to the canned fallback story rather than surfacing an error.
func (s *GenerationService) Generate(ctx context.Context, prompt string) models.GenerateResult {
	var story string
	err := s.policy.Do(ctx, func(ctx context.Context) error {
		var genErr error
		story, genErr = s.generator.Generate(ctx, prompt)
		return genErr
	})
	if err != nil {
		s.logger.Warn("model unresponsive, returning fallback story", "error", err)
		return models.GenerateResult{Content: FallbackStory, Fallback: true}
	}

	return models.GenerateResult{Content: story}
}
