package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/integrations/breaker"
	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/pkg/errors"
)

const providerName = "openai"

const maxResponseBytes = 1 << 20

var (
	ErrNotConfigured = errors.New("text generation api key is not configured")
	ErrEmptyResponse = errors.New("text generation returned no content")
)

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func DefaultOptions() Options {
	return Options{Model: "gpt-4o", Temperature: 0.2, MaxTokens: 1000}
}

type Client struct {
	baseURL string
	apiKey  string
	opts    Options
	httpc   *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration, opts Options) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		opts:    opts,
		httpc:   breaker.NewClient(providerName, timeout, breaker.DefaultSettings()),
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

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one system + user exchange and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	started := time.Now()
	text, err := c.complete(ctx, system, user)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveProviderCall(providerName, outcome, started)
	return text, err
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse base url")
	}
	u.Path = "/v1/chat/completions"

	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	r := io.LimitReader(resp.Body, maxResponseBytes)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		_ = json.NewDecoder(r).Decode(&ae)
		slog.WarnContext(ctx, "text generation rejected",
			"provider", providerName,
			"status", resp.StatusCode,
			"type", ae.Error.Type,
			"code", ae.Error.Code,
			"message", ae.Error.Message,
		)
		return "", errors.Errorf("text generation http %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(r).Decode(&cr); err != nil {
		return "", errors.Wrap(err, "decode")
	}
	if len(cr.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(cr.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
