package realizer

import (
	"context"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/mystery"
)

const flavourMaxTokens = 256

// Flavourer optionally rewrites a templated line with a chat model for
// variety. It is cosmetic only: the statement content is already fixed and
// recorded, and any failure falls back to the templated line.
type Flavourer struct {
	client *openai.Client
	logger *slog.Logger
}

// NewFlavourer returns nil when no API key is configured, which disables the
// rewrite pass entirely.
func NewFlavourer(apiKey string, logger *slog.Logger) *Flavourer {
	if apiKey == "" {
		return nil
	}
	return &Flavourer{
		client: openai.NewClient(apiKey),
		logger: logger.With("source", "Flavourer"),
	}
}

// Rewrite rephrases the line in the speaker's voice without changing what it
// asserts. On any error the original line is returned.
func (f *Flavourer) Rewrite(ctx context.Context, speaker mystery.Person, line string) string {
	completion, err := f.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo,
			MaxTokens: flavourMaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "You rephrase a murder-mystery suspect's answer in their voice. " +
						"Keep every factual claim exactly as given. Reply with the rephrased line only.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: "Speaker: " + speaker.Name + "\nAnswer: " + line,
				},
			},
		},
	)
	if err != nil {
		f.logger.WarnContext(ctx, "flavour rewrite failed", errors.SlogError(err))
		return line
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return line
	}
	return completion.Choices[0].Message.Content
}
