// Package chat forwards assistant prompts to the Gemini API.
package chat

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when CHAT_MODEL is not configured.
const DefaultModel = "gemini-2.0-flash"

const systemPrompt = "You are an AI assistant that helps people find information."

// Client is a thin passthrough to the generative model. No conversation state
// is kept; each prompt stands alone.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds the chat client. Credentials come from the environment
// (GEMINI_API_KEY or application default credentials).
func NewClient(ctx context.Context, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Prompt sends one user query and returns the model's reply text.
func (c *Client) Prompt(ctx context.Context, query string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: query}},
		},
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		MaxOutputTokens: 800,
		Temperature:     genai.Ptr[float32](0.7),
		TopP:            genai.Ptr[float32](0.95),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
