// Package summarize produces a natural-language reading of a finished
// report via the Groq chat-completions API. It is strictly optional:
// callers treat a summarizer failure as a degraded run, never a failed
// one.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Summarizer calls the Groq chat-completions endpoint.
type Summarizer struct {
	key       string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
	log       *logrus.Entry
}

// New creates a summarizer. An empty baseURL selects the public
// endpoint; a zero maxTokens falls back to 1024.
func New(key, model, baseURL string, maxTokens int) *Summarizer {
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Summarizer{
		key:       key,
		model:     model,
		baseURL:   baseURL,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: 60 * time.Second},
		log:       logrus.WithField("component", "summarize"),
	}
}

// IsAvailable reports whether an API key is configured.
func (s *Summarizer) IsAvailable() bool {
	return s.key != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize sends the user query and the rendered CSV to the model and
// returns its commentary.
func (s *Summarizer) Summarize(ctx context.Context, userQuery, csvData string) (string, error) {
	if !s.IsAvailable() {
		return "", fmt.Errorf("no groq api key configured")
	}

	prompt := fmt.Sprintf(
		"User Query: %s\n\nCSV Data:\n%s\n\nProvide a concise summary and insights based on the query and CSV data.",
		userQuery, csvData,
	)

	body, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   s.maxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling groq: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	s.log.WithField("model", s.model).Debug("summary generated")
	return out.Choices[0].Message.Content, nil
}
