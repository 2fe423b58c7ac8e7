package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/workflow"
)

type analysisResponse struct {
	OverallQuality        string   `json:"overall_quality"`
	AccuracyPercent       float64  `json:"accuracy_percent"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	MatchesExpectedAnswer bool     `json:"matches_expected_answer"`
}

// AnalyzeResponses scores one question's full utterance/answer batch against
// the expected answer with a single model call. The verdict comes back at
// question granularity and is shared by every utterance record.
func (r *Runner) AnalyzeResponses(ctx context.Context, q workflow.QuestionStep, utterances, answers []string) (*QuestionAnalysis, error) {
	utteranceJSON, err := json.Marshal(utterances)

	if err != nil {
		return nil, err
	}

	answerJSON, err := json.Marshal(answers)

	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`As a chatbot tester, please compare the following utterances and answers:
%s and %s, and evaluate if the majority of answers matches the expected answer of %q.
Generate a report in json format with the structure
{"overall_quality": string, "accuracy_percent": number, "strengths": ["..."], "weaknesses": ["..."], "matches_expected_answer": boolean}.
List at most two strengths and two weaknesses.
Do not include any comments, strictly reply in json format only.`, utteranceJSON, answerJSON, q.ExpectedAnswer)

	text, err := r.AI.GenerateText(ctx, prompt)

	if err != nil {
		return nil, fmt.Errorf("response analysis failed: %w", err)
	}

	var decoded analysisResponse

	if err := genai.DecodeJSON(text, &decoded); err != nil {
		return nil, fmt.Errorf("response analysis failed: %w", err)
	}

	records := make([]UtteranceRecord, len(utterances))

	for i, utterance := range utterances {
		records[i] = UtteranceRecord{Text: utterance, Response: answers[i]}
	}

	return &QuestionAnalysis{
		Question:       q.Prompt,
		ExpectedAnswer: q.ExpectedAnswer,
		Utterances:     records,
		Level: QuestionLevelAnalysis{
			MatchesExpected: decoded.MatchesExpectedAnswer,
			OverallQuality:  decoded.OverallQuality,
			Accuracy:        Clamp01(decoded.AccuracyPercent / 100),
			Strengths:       decoded.Strengths,
			Weaknesses:      decoded.Weaknesses,
		},
	}, nil
}
