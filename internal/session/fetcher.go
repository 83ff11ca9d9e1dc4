package session

import (
	"context"
	"errors"
	"time"

	"simplynourished/internal/ai"
	"simplynourished/internal/config"
	"simplynourished/internal/meals"
)

const (
	msgPlanRequired      = "Please calculate your diet plan first."
	msgCredentialMissing = "OpenAI API key not configured."
	msgEmptyResponse     = "No recipes received from AI."
	msgFetchFailedPrefix = "Error fetching recipes: "
)

// Outcome is the result of one provider round trip: either suggestions or
// the failure cause.
type Outcome struct {
	Suggestions []string
	Model       string
	Err         error
}

// Fetcher builds the meal prompt, calls the provider once and extracts the
// suggestions.
type Fetcher struct {
	client      ai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func NewFetcher(client ai.Client, cfg config.Config) *Fetcher {
	return &Fetcher{
		client:      client,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		timeout:     time.Duration(cfg.AITimeoutSeconds) * time.Second,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, dailyCalories, dailyProtein int) Outcome {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.client.Complete(ctx, ai.Request{
		Model:        f.model,
		SystemPrompt: meals.SystemPrompt,
		UserPrompt:   meals.BuildPrompt(dailyCalories, dailyProtein),
		MaxTokens:    f.maxTokens,
		Temperature:  f.temperature,
		N:            1,
	})
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Suggestions: meals.Extract(resp.Text), Model: resp.Model}
}

// UserMessage maps a fetch failure to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPlanRequired):
		return msgPlanRequired
	case errors.Is(err, ai.ErrCredentialMissing):
		return msgCredentialMissing
	case errors.Is(err, ai.ErrEmptyResponse):
		return msgEmptyResponse
	default:
		return msgFetchFailedPrefix + err.Error()
	}
}
