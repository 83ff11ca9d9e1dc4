package ai

import (
	"context"
	"regexp"
	"strings"
)

var promptNumbers = regexp.MustCompile(`approximately (\d+) calories and (\d+)g of protein`)

// MockClient answers locally with a fixed three-meal plan so the service can
// run without a provider account.
type MockClient struct {
	Model string
}

func (m MockClient) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, &ProviderError{Err: err}
	}

	target := "your daily targets"
	if match := promptNumbers.FindStringSubmatch(req.UserPrompt); match != nil {
		target = match[1] + " kcal and " + match[2] + "g protein"
	}

	text := strings.Join([]string{
		"Here are three ideas for " + target + ":",
		"Breakfast: Greek yogurt with berries, oats and a spoon of peanut butter.",
		"Lunch: Grilled chicken quinoa bowl with roasted vegetables.",
		"Dinner: Baked salmon with sweet potato and steamed broccoli.",
	}, "\n")

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = strings.TrimSpace(m.Model)
	}
	if model == "" {
		model = "mock"
	}
	return Response{
		Text:  text,
		Model: model,
		Usage: Usage{
			PromptTokens:     120,
			CompletionTokens: 80,
			TotalTokens:      200,
		},
	}, nil
}
