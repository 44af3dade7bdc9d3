// Package narrator rewrites the rule-based product explanation into a short
// friendly paragraph using an OpenAI-compatible chat completions endpoint.
// Callers always keep the deterministic explanation as a fallback.
package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

type Request struct {
	ProductName string
	Category    string
	EcoScore    int
	Label       eco.Label
	Evidence    eco.Evidence
	Explanation string
}

type Rewriter interface {
	Rewrite(ctx context.Context, req Request) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You explain product sustainability to shoppers. Rewrite the given assessment in at most two friendly sentences. Do not invent facts, scores or certifications."

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (%s)\n", req.ProductName, req.Category)
	fmt.Fprintf(&b, "Eco score: %d/100, label: %s\n", req.EcoScore, req.Label)
	if len(req.Evidence.Positive) > 0 {
		fmt.Fprintf(&b, "Positive indicators: %s\n", strings.Join(req.Evidence.Positive, ", "))
	}
	if len(req.Evidence.Negative) > 0 {
		fmt.Fprintf(&b, "Concerns: %s\n", strings.Join(req.Evidence.Negative, ", "))
	}
	fmt.Fprintf(&b, "Assessment: %s", req.Explanation)
	return b.String()
}

// Rewrite returns the rewritten explanation. Every failure is an
// apperr.ExternalService error.
func (c *Client) Rewrite(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		Temperature: 0.2,
		MaxTokens:   160,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite", fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite", fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite", fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", apperr.Wrap(apperr.ExternalService, "narrator.rewrite", errors.New("empty completion"))
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
