package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"versecraft/internal/domain"
)

// GrammarClient corrects one plain-text sentence. Stateless and retryable.
type GrammarClient interface {
	Correct(ctx context.Context, sentence string) (string, error)
}

// HTTPGrammarClient calls the grammar host's /correct endpoint.
type HTTPGrammarClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGrammarClient creates a grammar client against the given base URL
func NewHTTPGrammarClient(baseURL string, client *http.Client) *HTTPGrammarClient {
	return &HTTPGrammarClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type correctRequest struct {
	Text string `json:"text"`
}

type correctResponse struct {
	CorrectedText string `json:"corrected_text"`
}

// Correct posts one sentence and returns its corrected form
func (c *HTTPGrammarClient) Correct(ctx context.Context, sentence string) (string, error) {
	body, err := json.Marshal(correctRequest{Text: sentence})
	if err != nil {
		return "", fmt.Errorf("encode correct request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/correct", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build correct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: correct returned status %d", domain.ErrTransient, resp.StatusCode)
	}

	var out correctResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode correct response: %w", err)
	}

	return out.CorrectedText, nil
}

// Correction is the per-sentence proofread result. Failed sentences keep
// their original text; there is no fallback correction to fake.
type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Failed    bool   `json:"failed,omitempty"`
}

// ProofreadService splits text into sentences and corrects each one through
// the grammar collaborator under the retry policy.
type ProofreadService struct {
	grammar GrammarClient
	policy  Policy
	logger  *slog.Logger
}

// NewProofreadService creates a new proofread service
func NewProofreadService(grammar GrammarClient, policy Policy, logger *slog.Logger) *ProofreadService {
	return &ProofreadService{
		grammar: grammar,
		policy:  policy,
		logger:  logger,
	}
}

// Proofread corrects the text sentence by sentence. A sentence whose
// correction fails after retries is reported, not dropped: the caller sees
// the original text with the failed flag set.
func (s *ProofreadService) Proofread(ctx context.Context, text string) ([]Correction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	sentences := SplitSentences(text)
	corrections := make([]Correction, 0, len(sentences))

	for _, sentence := range sentences {
		var corrected string
		err := s.policy.Do(ctx, func(ctx context.Context) error {
			var corrErr error
			corrected, corrErr = s.grammar.Correct(ctx, sentence)
			return corrErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("grammar correction failed", "error", err)
			corrections = append(corrections, Correction{
				Original:  sentence,
				Corrected: sentence,
				Failed:    true,
			})
			continue
		}

		corrections = append(corrections, Correction{
			Original:  sentence,
			Corrected: corrected,
		})
	}

	return corrections, nil
}
