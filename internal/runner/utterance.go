package runner

import (
	"context"
	"fmt"

	"github.com/utterly-dev/utterly/internal/genai"
)

type utteranceResponse struct {
	Utterances []string `json:"utterances"`
}

// GenerateUtterances asks the generative model for count paraphrases of
// question. The model's output is expected to look like JSON; a response
// that does not parse is a hard failure for the call, not a partial result.
func (r *Runner) GenerateUtterances(ctx context.Context, question string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`Please generate %d utterances of the question %q
in a json format with the structure {"utterances": ["...", "..."]}.
Each utterance must be a rephrasing of the question that keeps its meaning.
Do not include any comments, strictly reply in json format only.`, count, question)

	text, err := r.AI.GenerateText(ctx, prompt)

	if err != nil {
		return nil, fmt.Errorf("utterance generation failed: %w", err)
	}

	var decoded utteranceResponse

	if err := genai.DecodeJSON(text, &decoded); err != nil {
		return nil, fmt.Errorf("utterance generation failed: %w", err)
	}

	if len(decoded.Utterances) == 0 {
		return nil, fmt.Errorf("utterance generation returned no utterances")
	}

	if len(decoded.Utterances) > count {
		decoded.Utterances = decoded.Utterances[:count]
	}

	return decoded.Utterances, nil
}
