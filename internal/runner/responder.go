package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnexpectedFormat is returned when none of the known response envelope
// shapes carry a textual answer.
var ErrUnexpectedFormat = errors.New("unexpected chatbot response format")

type targetRequest struct {
	Model            string   `json:"model,omitempty"`
	Input            string   `json:"input"`
	Temperature      float64  `json:"temperature,omitempty"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	TopP             float64  `json:"top_p,omitempty"`
	FrequencyPenalty float64  `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64  `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
}

// targetResponse covers the envelope shapes known chatbot providers answer
// with: a chat-completion shape, a nested output shape, and the two flat
// fields.
type targetResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Response string `json:"response"`
	Text     string `json:"text"`
}

// AskTarget performs one POST to the stored chatbot endpoint and extracts the
// textual answer. A non-2xx status and a malformed body are distinct
// failures.
func (r *Runner) AskTarget(ctx context.Context, target Target, utterance string) (string, error) {
	payload, err := json.Marshal(targetRequest{
		Model:            target.Model,
		Input:            utterance,
		Temperature:      target.Temperature,
		MaxTokens:        target.MaxTokens,
		TopP:             target.TopP,
		FrequencyPenalty: target.FrequencyPenalty,
		PresencePenalty:  target.PresencePenalty,
		Stop:             target.Stop,
	})

	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Endpoint, bytes.NewReader(payload))

	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+target.APIKey)

	resp, err := r.HTTPClient.Do(req)

	if err != nil {
		return "", fmt.Errorf("chatbot request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chatbot API returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded targetResponse

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("invalid chatbot response body: %w", err)
	}

	return extractAnswer(decoded)
}

func extractAnswer(resp targetResponse) (string, error) {
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		return resp.Choices[0].Message.Content, nil
	}

	if len(resp.Output) > 0 && len(resp.Output[0].Content) > 0 && resp.Output[0].Content[0].Text != "" {
		return resp.Output[0].Content[0].Text, nil
	}

	if resp.Response != "" {
		return resp.Response, nil
	}

	if resp.Text != "" {
		return resp.Text, nil
	}

	return "", ErrUnexpectedFormat
}
