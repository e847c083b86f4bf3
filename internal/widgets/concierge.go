package widgets

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tripdesk/berlin-cli/pkg/genai"
)

// DefaultApology is returned when the text source fails or the prompt is
// empty.
const DefaultApology = "Sorry, I can't answer that right now. Please try again in a moment."

// Concierge answers free-text travel questions via the generative-text
// source, degrading to a fixed apology on any failure.
type Concierge struct {
	client  genai.Client
	apology string
}

// NewConcierge creates the concierge widget. An empty apology selects
// DefaultApology.
func NewConcierge(client genai.Client, apology string) *Concierge {
	if apology == "" {
		apology = DefaultApology
	}
	return &Concierge{client: client, apology: apology}
}

// Ask returns a generated answer for prompt, or the apology string on any
// failure. It never returns an error.
func (c *Concierge) Ask(ctx context.Context, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return c.apology
	}

	answer, err := c.client.Complete(ctx, prompt)
	if err != nil {
		zap.L().Warn("concierge falling back to apology", zap.Error(err))
		return c.apology
	}
	return answer
}
