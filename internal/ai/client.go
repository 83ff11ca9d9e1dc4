package ai

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

	"simplynourished/internal/config"
)

var (
	// ErrCredentialMissing is returned before any network call when no API
	// key is configured.
	ErrCredentialMissing = errors.New("OPENAI_API_KEY is not configured")
	// ErrEmptyResponse means the provider answered but produced no text.
	ErrEmptyResponse = errors.New("ai response content is empty")
)

// ProviderError is any failure of the remote call itself: transport, non-2xx
// status or an undecodable body.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode >= 300) {
		return fmt.Sprintf("openai chat completions error (%d): %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "openai chat completions error"
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	N            int
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Client is a text-generation provider. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

type OpenAIChatClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIChatClient(cfg config.Config) *OpenAIChatClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &OpenAIChatClient{
		apiKey:      strings.TrimSpace(cfg.OpenAIAPIKey),
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/"),
		model:       strings.TrimSpace(cfg.OpenAIModel),
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// New picks the provider named by cfg.AIProvider.
func New(cfg config.Config) Client {
	if cfg.AIProvider == config.ProviderMock {
		return MockClient{Model: cfg.OpenAIModel}
	}
	return NewOpenAIChatClient(cfg)
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
	N           int           `json:"n"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

func (c *OpenAIChatClient) Complete(ctx context.Context, req Request) (Response, error) {
	if c.apiKey == "" {
		return Response{}, ErrCredentialMissing
	}
	if c.baseURL == "" {
		return Response{}, &ProviderError{Err: errors.New("OPENAI_BASE_URL is not configured")}
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	if model == "" {
		return Response{}, &ProviderError{Err: errors.New("OPENAI_MODEL is not configured")}
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	n := req.N
	if n <= 0 {
		n = 1
	}

	messages := make([]chatMessage, 0, 2)
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	bodyRaw, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		N:           n,
	})
	if err != nil {
		return Response{}, &ProviderError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyRaw))
	if err != nil {
		return Response{}, &ProviderError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, &ProviderError{Err: err}
	}
	defer httpResp.Body.Close()

	responseBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, &ProviderError{StatusCode: httpResp.StatusCode, Err: err}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return Response{}, &ProviderError{
			StatusCode: httpResp.StatusCode,
			Body:       truncateForLog(string(responseBody), 500),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return Response{}, &ProviderError{
			StatusCode: httpResp.StatusCode,
			Body:       truncateForLog(string(responseBody), 500),
			Err:        fmt.Errorf("decode chat completion: %w", err),
		}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return Response{}, ErrEmptyResponse
	}
	text := *parsed.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return Response{}, ErrEmptyResponse
	}

	modelName := strings.TrimSpace(parsed.Model)
	if modelName == "" {
		modelName = model
	}
	return Response{Text: text, Model: modelName, Usage: parsed.Usage}, nil
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}
