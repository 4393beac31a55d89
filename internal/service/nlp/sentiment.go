package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
)

// SentimentClassifier assigns a sentiment category to a piece of text.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// HTTPSentimentClassifier calls the sentiment host's /sentiment endpoint.
type HTTPSentimentClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSentimentClassifier creates a classifier against the given base URL
func NewHTTPSentimentClassifier(baseURL string, client *http.Client) *HTTPSentimentClassifier {
	return &HTTPSentimentClassifier{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

// Classify posts the text and returns one of the known sentiment
// categories. Anything the collaborator reports outside the known set maps
// to undecided.
func (c *HTTPSentimentClassifier) Classify(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(sentimentRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("encode sentiment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sentiment", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sentiment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: sentiment returned status %d", domain.ErrTransient, resp.StatusCode)
	}

	var out sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sentiment response: %w", err)
	}

	switch out.Sentiment {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
		return out.Sentiment, nil
	default:
		return models.SentimentUndecided, nil
	}
}
