// Package genai wraps the Anthropic API for single-prompt text generation.
package genai

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultModel = "claude-haiku-4-5-20251001"

// Client generates text for a single user prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures the client.
type Options struct {
	Model     string
	MaxTokens int64
	System    string
	BaseURL   string // test override
}

type sdkClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
	system    string
}

// NewClient creates a text-generation client backed by the official SDK.
func NewClient(apiKey string, opts Options) Client {
	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &sdkClient{
		client:    sdk.NewClient(sdkOpts...),
		model:     model,
		maxTokens: maxTokens,
		system:    opts.System,
	}
}

func (c *sdkClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if c.system != "" {
		params.System = []sdk.TextBlockParam{{Text: c.system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "genai: create message")
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", eris.New("genai: empty completion")
	}
	return out, nil
}
