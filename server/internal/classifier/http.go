package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPConfig configures an OpenAI-compatible chat completions endpoint.
type HTTPConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// HTTPCollaborator asks a chat-completions model for probe scripts.
type HTTPCollaborator struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPCollaborator validates cfg and returns a collaborator.
func NewHTTPCollaborator(cfg HTTPConfig) (*HTTPCollaborator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing collaborator API key")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("missing collaborator model")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &HTTPCollaborator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

const systemPrompt = "You are a behavior analyst trained in Relational Frame Theory and Acceptance and Commitment Therapy. " +
	"You write short, developmentally appropriate clinician scripts. Reply with a single JSON object only."

// BuildPrompt renders the user message for a request.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statement: %q\n", req.Text)
	if strings.TrimSpace(req.Context) != "" {
		fmt.Fprintf(&b, "Context: %q\n", req.Context)
	}
	if strings.TrimSpace(req.SubjectName) != "" {
		fmt.Fprintf(&b, "Client first name: %s\n", req.SubjectName)
	}
	b.WriteString(`
Classify the verbal relation in the statement and write probe scripts.
Return JSON with these fields:
  "relationType": short relational frame label,
  "relationExplanation": one or two sentences,
  "validatingScripts": list of 2 scripts that affirm the thought,
  "challengingScripts": list of 2 scripts that invite distance from the thought,
  "suggestedTitle": a title of at most five words.`)
	return b.String()
}

// Generate sends one chat completion request and normalizes the reply.
func (c *HTTPCollaborator) Generate(ctx context.Context, req Request) (Result, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type reqBody struct {
		Model          string         `json:"model"`
		Messages       []msg          `json:"messages"`
		Temperature    float64        `json:"temperature,omitempty"`
		MaxTokens      int            `json:"max_tokens,omitempty"`
		ResponseFormat responseFormat `json:"response_format"`
	}
	body := reqBody{
		Model: c.cfg.Model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("collaborator request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("collaborator http %d: %s", resp.StatusCode, truncate(respRaw, maxErrorBody))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return Result{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Result{}, fmt.Errorf("collaborator response missing choices: %w", ErrMalformedResponse)
	}

	res, err := Normalize([]byte(decoded.Choices[0].Message.Content))
	if err != nil {
		return Result{}, fmt.Errorf("normalize response: %w", err)
	}
	return res, nil
}

const (
	maxResponseBytes = 1 << 20
	maxErrorBody     = 512
)

// truncate shortens an upstream body for inclusion in an error.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "...(truncated)"
}
