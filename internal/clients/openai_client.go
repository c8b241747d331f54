package clients

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

const translatePrompt = `You translate user text for an English-only emotion classifier.
- If the text is Vietnamese, translate it to natural English.
- If the text is already English (or any other language you cannot translate faithfully), return it unchanged.
- Preserve tone, emphasis and emoji.
- Return ONLY the resulting text. No quotes, no explanations, no Markdown.`

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

// GetOpenAIClient returns nil when no API key is configured; callers treat
// that as translation being disabled.
func GetOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		slog.Warn("[OpenAIClient] Missing OPENAI_API_KEY, translation disabled")
		return nil
	}
	openAIOnce.Do(func() {
		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
			),
			model: model,
		}
		slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
			slog.Duration("timeout", openAIRequestTimeout),
			slog.String("model", model))
	})
	return openAIClientInstance
}

// Translate returns text in English. Any failure hands back the input.
func (o *OpenAIClient) Translate(ctx context.Context, text string) string {
	if o == nil || strings.TrimSpace(text) == "" {
		return text
	}

	completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(translatePrompt),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		slog.Warn("[OpenAIClient] Translation failed, using original text",
			slog.String("error", err.Error()))
		return text
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		slog.Warn("[OpenAIClient] OpenAI returned empty translation, using original text")
		return text
	}

	translated := strings.TrimSpace(completion.Choices[0].Message.Content)
	slog.Debug("[OpenAIClient] Translated text", getPreview([]byte(translated)))
	return translated
}
