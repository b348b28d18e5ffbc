package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"context"

	"meal-planner/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Generator produces raw model output for a prompt. The resolver only
// depends on this interface; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenRouterClient calls the OpenRouter chat-completions API.
type OpenRouterClient struct {
	config *config.Config
	client *resty.Client
}

// NewOpenRouterClient creates the OpenRouter client.
func NewOpenRouterClient(cfg *config.Config) *OpenRouterClient {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://meal-planner.app").
		SetHeader("X-Title", "Meal Planner").
		SetTimeout(cfg.OpenRouter.Timeout)

	return &OpenRouterClient{
		config: cfg,
		client: client,
	}
}

// Generate sends the prompt and returns the raw response text.
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	// Collapse runs of whitespace so equal prompts produce equal requests.
	prompt = strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")

	req := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}
