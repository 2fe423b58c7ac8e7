package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/types"
)

// Clamp01 bounds a score into [0, 1]. The synthesis model is untrusted; an
// out-of-range value is clamped, never rejected or retried.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// SynthesizeReport makes the single report-synthesis call and shapes its
// output into the persisted payload. A response that fails to parse is fatal
// for the whole run; no partial report survives it.
//
// The narrative fields and scores come from the model. The utterance lists
// under each question metric are rebuilt from the actual records, so the
// stored report always pairs every utterance with the response the target
// really gave, one entry per question processed.
func (r *Runner) SynthesizeReport(ctx context.Context, in RunInput, analyses []QuestionAnalysis, intents []IntentAnalysis) (*types.ReportPayload, error) {
	resultsJSON, err := json.Marshal(analyses)

	if err != nil {
		return nil, err
	}

	intentsJSON, err := json.Marshal(intents)

	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Generate a comprehensive test report for the chatbot testing session.
Project: %s
Workflow: %s
Chatbot: %s (model %s)
Test Results: %s
Intent Checks: %s

Create a detailed report in JSON format with the following structure:
{
  "overallScore": number (0-1),
  "metrics": {
    "accuracyByQuestion": [
      {"question": string, "score": number (0-1), "averageSimilarity": number (0-1), "consistencyScore": number (0-1)}
    ],
    "consistencyScore": number (0-1),
    "averageResponseQuality": number (0-1)
  },
  "details": {
    "summary": string,
    "recommendations": [string],
    "questionAnalysis": [
      {"question": string, "accuracy": number (0-1), "comments": string, "strengths": [string], "weaknesses": [string]}
    ],
    "consistencyAnalysis": string
  }
}
Include one accuracyByQuestion and one questionAnalysis entry per question, in order.
Provide detailed insights and actionable recommendations.
IMPORTANT: Return ONLY the JSON object, without any markdown formatting or additional text.`,
		in.ProjectName, in.WorkflowName, in.ChatbotName, in.ModelName, resultsJSON, intentsJSON)

	text, err := r.AI.GenerateText(ctx, prompt)

	if err != nil {
		return nil, fmt.Errorf("report synthesis failed: %w", err)
	}

	var payload types.ReportPayload

	if err := genai.DecodeJSON(text, &payload); err != nil {
		return nil, fmt.Errorf("report synthesis failed: %w", err)
	}

	normalizeReport(&payload, analyses, intents)

	return &payload, nil
}

func normalizeReport(payload *types.ReportPayload, analyses []QuestionAnalysis, intents []IntentAnalysis) {
	payload.Metrics.TotalQuestions = len(analyses)
	payload.Metrics.TotalIntents = len(intents)

	metrics := make([]types.QuestionMetric, len(analyses))

	for i, analysis := range analyses {
		var metric types.QuestionMetric

		if i < len(payload.Metrics.AccuracyByQuestion) {
			metric = payload.Metrics.AccuracyByQuestion[i]
		} else {
			metric = types.QuestionMetric{
				Score:             analysis.Level.Accuracy,
				AverageSimilarity: analysis.Level.Accuracy,
			}

			if analysis.Level.MatchesExpected {
				metric.ConsistencyScore = 1
			}
		}

		metric.Question = analysis.Question
		metric.Score = Clamp01(metric.Score)
		metric.AverageSimilarity = Clamp01(metric.AverageSimilarity)
		metric.ConsistencyScore = Clamp01(metric.ConsistencyScore)

		metric.Utterances = make([]types.UtteranceMetric, len(analysis.Utterances))

		for j, record := range analysis.Utterances {
			metric.Utterances[j] = types.UtteranceMetric{
				Text:            record.Text,
				Response:        record.Response,
				SimilarityScore: metric.AverageSimilarity,
				Analysis:        analysis.Level.OverallQuality,
			}
		}

		metrics[i] = metric
	}

	payload.Metrics.AccuracyByQuestion = metrics
	payload.Metrics.AverageResponseQuality = Clamp01(payload.Metrics.AverageResponseQuality)
	payload.Metrics.ConsistencyScore = Clamp01(payload.Metrics.ConsistencyScore)
	payload.OverallScore = Clamp01(payload.OverallScore)

	for i := range payload.Details.QuestionAnalysis {
		payload.Details.QuestionAnalysis[i].Accuracy = Clamp01(payload.Details.QuestionAnalysis[i].Accuracy)
	}
}
