package timeparse

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"bookbot/app/calendar"
	"bookbot/app/config"

	_ "embed"

	"github.com/sashabaranov/go-openai"
)

//go:embed extract_prompt.txt
var extractPrompt string

const modelTimeout = 30 * time.Second

type modelExtraction struct {
	Found           bool   `json:"found"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
}

func createClient(cfg config.OpenAI) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: modelTimeout,
	}

	return openai.NewClientWithConfig(clientConfig)
}

func (s *Service) extractWithModel(ctx context.Context, text string) (calendar.TimeRequest, bool) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.OpenAI.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		slog.Warn("model time extraction failed", "error", err)
		return calendar.TimeRequest{}, false
	}

	if len(resp.Choices) == 0 {
		return calendar.TimeRequest{}, false
	}

	var extracted modelExtraction
	if err = json.Unmarshal([]byte(resp.Choices[0].Message.Content), &extracted); err != nil {
		slog.Warn("model returned malformed extraction", "error", err)
		return calendar.TimeRequest{}, false
	}

	if !extracted.Found {
		return calendar.TimeRequest{}, false
	}

	if _, err = calendar.At(extracted.Date, extracted.Start); err != nil {
		slog.Warn("model returned invalid date/time", "date", extracted.Date, "start", extracted.Start)
		return calendar.TimeRequest{}, false
	}

	if extracted.DurationMinutes <= 0 {
		extracted.DurationMinutes = defaultDurationMin
	}

	return calendar.TimeRequest{
		Date:        extracted.Date,
		Start:       extracted.Start,
		DurationMin: extracted.DurationMinutes,
	}, true
}
