package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIClient supplies the completer primitive backed by the OpenAI chat
// completions API.
type openAIClient struct {
	client *openai.Client
	model  string
}

func newOpenAIClient(apiKey, model string) (*openAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (c *openAIClient) completion(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: getSystemPrompt(),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)

	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			// unauthorized
			return "", fmt.Errorf("unauthorized: invalid OpenAI API key")
		case 429:
			// rate limiting or engine overload
			return "", fmt.Errorf("rate limited by OpenAI API")
		case 500:
			// openai server error
			return "", fmt.Errorf("OpenAI server error")
		default:
			// unhandled
			return "", fmt.Errorf("OpenAI API error: %v", e)
		}
	}
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
