// Package enhance rewrites endpoint descriptions through an OpenAI-compatible
// chat-completions API. It implements the markdown.Enhancer hook; every
// failure surfaces as an error so the caller keeps the original text.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
	"github.com/iliakrupin/openapi-to-docx/markdown"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultModel       = "Qwen/Qwen3-30B-A3B-FP8"
	perItemTokenBudget = 150
	batchTokenCeiling  = 2000
	// Responses at or below this length are treated as refusals or noise.
	minUsefulLength = 10
)

// Options configures a Client. BaseURL is required; everything else has a
// default.
type Options struct {
	BaseURL    string
	Token      string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     spec.Logger
}

// Client calls a chat-completions endpoint to improve descriptions. Results
// are cached in memory per description and endpoint, so repeated generations
// of the same document reuse earlier answers. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	model   string
	http    *http.Client
	logger  spec.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, &docerrors.ConfigError{Option: "BaseURL", Message: "enhancement endpoint URL is required"}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = spec.NopLogger{}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		model:   spec.FirstNonEmpty(opts.Model, defaultModel),
		http:    httpClient,
		logger:  logger,
		cache:   make(map[string]string),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func cacheKey(description string, ep markdown.EndpointContext) string {
	return description + "\x00" + ep.Method + "\x00" + ep.Path
}

// EnhanceBatch improves several descriptions with one request. The returned
// map is keyed by original description; entries the model did not answer for
// are absent.
func (c *Client) EnhanceBatch(ctx context.Context, items map[string]markdown.EndpointContext) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	results := make(map[string]string)
	type pending struct {
		description string
		endpoint    markdown.EndpointContext
	}
	var todo []pending

	c.mu.Lock()
	for description, ep := range items {
		if cached, ok := c.cache[cacheKey(description, ep)]; ok {
			results[description] = cached
			continue
		}
		todo = append(todo, pending{description, ep})
	}
	c.mu.Unlock()
	if len(todo) == 0 {
		return results, nil
	}
	sort.Slice(todo, func(i, j int) bool {
		a, b := todo[i].endpoint, todo[j].endpoint
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})

	var endpointLines []string
	for _, p := range todo {
		endpointLines = append(endpointLines,
			fmt.Sprintf("- %s %s: %s", p.endpoint.Method, p.endpoint.Path, spec.FirstNonEmpty(p.description, "missing")))
	}

	prompt := fmt.Sprintf(`Improve the short descriptions for the following API endpoints.

Endpoints:
%s

For each endpoint write a short (1-2 sentences) clear description.
IMPORTANT: if the original description contains "Parameters:", "Returns:" or "Raises:" blocks, do NOT include them in the improved description; improve only the part before those blocks.
Reply with a JSON array where every element is:
{"endpoint": "METHOD path", "description": "improved description"}

Reply with JSON only, no extra commentary.`, strings.Join(endpointLines, "\n"))

	maxTokens := perItemTokenBudget * len(todo)
	if maxTokens > batchTokenCeiling {
		maxTokens = batchTokenCeiling
	}
	content, err := c.chat(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an API documentation expert. Write short, clear descriptions. Always answer with valid JSON."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	var answers []struct {
		Endpoint    string `json:"endpoint"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(extractFencedJSON(content)), &answers); err != nil {
		return nil, fmt.Errorf("parsing batch enhancement response: %w", err)
	}

	byEndpoint := make(map[string]string, len(answers))
	for _, a := range answers {
		byEndpoint[a.Endpoint] = a.Description
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range todo {
		improved := byEndpoint[p.endpoint.Method+" "+p.endpoint.Path]
		improved = markdown.Sanitize(improved)
		if len(improved) <= minUsefulLength {
			continue
		}
		results[p.description] = improved
		c.cache[cacheKey(p.description, p.endpoint)] = improved
	}
	return results, nil
}

// Enhance improves a single description.
func (c *Client) Enhance(ctx context.Context, description string, endpoint markdown.EndpointContext) (string, error) {
	key := cacheKey(description, endpoint)
	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	prompt := fmt.Sprintf(`Improve the short description for an API endpoint.

Endpoint: %s %s
Current description: %s

Write a short (1-2 sentences) clear description of what this endpoint does.
IMPORTANT: if the original description contains "Parameters:", "Returns:" or "Raises:" blocks, do NOT include them; improve only the part before those blocks.
Reply with the improved description only, no extra commentary.`,
		endpoint.Method, endpoint.Path, spec.FirstNonEmpty(description, "missing"))

	content, err := c.chat(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an API documentation expert. Write short, clear descriptions."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   perItemTokenBudget,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	improved := markdown.Sanitize(content)
	if len(improved) <= minUsefulLength {
		return "", fmt.Errorf("enhancement response too short: %q", improved)
	}

	c.mu.Lock()
	c.cache[key] = improved
	c.mu.Unlock()
	c.logger.Debug("enhanced description", "method", endpoint.Method, "path", endpoint.Path)
	return improved, nil
}

// ClearCache drops all cached enhancements.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cache)
}

func (c *Client) chat(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("calling enhancement API", "url", url, "model", req.Model)
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling enhancement API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("enhancement API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding enhancement API response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("enhancement API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// extractFencedJSON pulls the JSON payload out of a markdown code fence when
// the model wraps its answer in one.
func extractFencedJSON(content string) string {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		rest := content[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(content)
}
