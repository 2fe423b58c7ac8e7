package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/workflow"
)

const defaultSynthesis = `{
  "overallScore": 0.85,
  "metrics": {
    "accuracyByQuestion": [
      {"question": "", "score": 0.9, "averageSimilarity": 0.8, "consistencyScore": 0.95}
    ],
    "consistencyScore": 0.9,
    "averageResponseQuality": 0.85
  },
  "details": {
    "summary": "The chatbot handled refunds well.",
    "recommendations": ["Tighten answers about edge cases."],
    "questionAnalysis": [
      {"question": "What is the refund policy?", "accuracy": 0.9, "comments": "Solid.", "strengths": ["clear"], "weaknesses": ["verbose"]}
    ],
    "consistencyAnalysis": "Answers were stable across phrasings."
  }
}`

// promptText pulls the prompt out of a generateContent request body.
func promptText(t *testing.T, r *http.Request) string {
	t.Helper()

	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}

	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	require.NotEmpty(t, body.Contents)
	require.NotEmpty(t, body.Contents[0].Parts)

	return body.Contents[0].Parts[0].Text
}

func geminiReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()

	response := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(response))
}

// fakeGemini routes prompts by their distinctive openings: utterance
// generation, batch analysis and report synthesis each get a canned reply.
func fakeGemini(t *testing.T, synthesis string) *genai.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prompt := promptText(t, r)

		switch {
		case strings.Contains(prompt, "utterances of the question"):
			geminiReply(t, w, `{"utterances": ["How do refunds work?", "Can I get my money back?", "What is your refund policy?"]}`)
		case strings.Contains(prompt, "As a chatbot tester"):
			geminiReply(t, w, "```json\n{\"overall_quality\": \"good\", \"accuracy_percent\": 90, \"strengths\": [\"clear\"], \"weaknesses\": [], \"matches_expected_answer\": true}\n```")
		case strings.Contains(prompt, "comprehensive test report"):
			geminiReply(t, w, synthesis)
		default:
			t.Errorf("unexpected prompt: %s", prompt)
		}
	}))
	t.Cleanup(server.Close)

	client := genai.NewClient("test-key", "test-model")
	client.BaseURL = server.URL

	return client
}

func fakeChatbot(t *testing.T, calls *int32) Target {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		fmt.Fprintf(w, `{"response": "Refunds are available for 30 days. (%d)"}`, n)
	}))
	t.Cleanup(server.Close)

	return Target{Endpoint: server.URL, APIKey: "bot-key", Model: "gpt-4o-mini"}
}

func questionItem(count int) workflow.Item {
	return workflow.Item{
		Type:           workflow.ItemQuestion,
		Question:       "What is the refund policy?",
		ExpectedAnswer: "Refunds are available for 30 days.",
		UtteranceCount: count,
	}
}

func TestExecuteProducesReport(t *testing.T) {
	var calls int32

	r := New(fakeGemini(t, defaultSynthesis))
	target := fakeChatbot(t, &calls)

	input := RunInput{
		ProjectName:  "Support Bot",
		WorkflowName: "Refund Checks",
		ChatbotName:  "Helpdesk",
		ModelName:    "gpt-4o-mini",
		Items: []workflow.Item{
			{Type: workflow.ItemIntent, Intent: "answer refund questions accurately"},
			questionItem(3),
			{Type: workflow.ItemEnd},
			questionItem(3), // must never run
		},
		Target: target,
	}

	payload, err := r.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	assert.Equal(t, 1, payload.Metrics.TotalQuestions)
	assert.Equal(t, 1, payload.Metrics.TotalIntents)
	assert.InDelta(t, 0.85, payload.OverallScore, 0.0001)

	require.Len(t, payload.Metrics.AccuracyByQuestion, 1)
	metric := payload.Metrics.AccuracyByQuestion[0]
	assert.Equal(t, "What is the refund policy?", metric.Question)

	require.Len(t, metric.Utterances, 3)

	for _, utterance := range metric.Utterances {
		assert.NotEmpty(t, utterance.Text)
		assert.NotEmpty(t, utterance.Response)
	}

	assert.Equal(t, "The chatbot handled refunds well.", payload.Details.Summary)
}

func TestExecuteRebuildsMissingQuestionMetrics(t *testing.T) {
	// Synthesis that reports no per-question entries at all. One entry per
	// processed question must still come out, built from the analyzer verdict.
	synthesis := `{"overallScore": 0.7, "metrics": {"accuracyByQuestion": [], "consistencyScore": 0.7, "averageResponseQuality": 0.7}, "details": {"summary": "s", "recommendations": [], "questionAnalysis": [], "consistencyAnalysis": "c"}}`

	var calls int32

	r := New(fakeGemini(t, synthesis))

	input := RunInput{
		Items:  []workflow.Item{questionItem(2)},
		Target: fakeChatbot(t, &calls),
	}

	payload, err := r.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, payload.Metrics.AccuracyByQuestion, 1)

	metric := payload.Metrics.AccuracyByQuestion[0]
	assert.Equal(t, "What is the refund policy?", metric.Question)
	assert.InDelta(t, 0.9, metric.Score, 0.0001)
	assert.Equal(t, 1.0, metric.ConsistencyScore)
	require.Len(t, metric.Utterances, 2)
}

func TestExecuteClampsScores(t *testing.T) {
	synthesis := `{"overallScore": 1.4, "metrics": {"accuracyByQuestion": [{"question": "q", "score": -0.2, "averageSimilarity": 2.5, "consistencyScore": 0.5}], "consistencyScore": -1, "averageResponseQuality": 1.1}, "details": {"summary": "s", "recommendations": [], "questionAnalysis": [{"question": "q", "accuracy": 1.9, "comments": "", "strengths": [], "weaknesses": []}], "consistencyAnalysis": "c"}}`

	var calls int32

	r := New(fakeGemini(t, synthesis))

	input := RunInput{
		Items:  []workflow.Item{questionItem(1)},
		Target: fakeChatbot(t, &calls),
	}

	payload, err := r.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 1.0, payload.OverallScore)
	assert.Equal(t, 0.0, payload.Metrics.ConsistencyScore)
	assert.Equal(t, 1.0, payload.Metrics.AverageResponseQuality)

	metric := payload.Metrics.AccuracyByQuestion[0]
	assert.Equal(t, 0.0, metric.Score)
	assert.Equal(t, 1.0, metric.AverageSimilarity)

	require.Len(t, payload.Details.QuestionAnalysis, 1)
	assert.Equal(t, 1.0, payload.Details.QuestionAnalysis[0].Accuracy)
}

func TestExecuteSkipsIncompleteQuestions(t *testing.T) {
	var calls int32

	r := New(fakeGemini(t, defaultSynthesis))

	input := RunInput{
		Items: []workflow.Item{
			{Type: workflow.ItemQuestion, Question: "No expected answer"},
			{Type: workflow.ItemQuestion, ExpectedAnswer: "No question"},
		},
		Target: fakeChatbot(t, &calls),
	}

	_, err := r.Execute(context.Background(), input)

	require.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestExecuteStopsAtEndItem(t *testing.T) {
	var calls int32

	r := New(fakeGemini(t, defaultSynthesis))

	input := RunInput{
		Items: []workflow.Item{
			{Type: workflow.ItemEnd},
			questionItem(3),
		},
		Target: fakeChatbot(t, &calls),
	}

	_, err := r.Execute(context.Background(), input)

	require.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestExecuteSkipsMalformedItems(t *testing.T) {
	var calls int32

	r := New(fakeGemini(t, defaultSynthesis))

	input := RunInput{
		Items: []workflow.Item{
			{Type: "mystery"},
			questionItem(1),
		},
		Target: fakeChatbot(t, &calls),
	}

	payload, err := r.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 1, payload.Metrics.TotalQuestions)
}

func TestExecuteFailedSynthesisIsFatal(t *testing.T) {
	var calls int32

	r := New(fakeGemini(t, "I could not produce JSON today."))

	input := RunInput{
		Items:  []workflow.Item{questionItem(1)},
		Target: fakeChatbot(t, &calls),
	}

	_, err := r.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "report synthesis failed")
}

func TestExecuteToleratesFailedChatbotCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	r := New(fakeGemini(t, defaultSynthesis))

	input := RunInput{
		Items:  []workflow.Item{questionItem(3)},
		Target: Target{Endpoint: server.URL, APIKey: "bot-key"},
	}

	payload, err := r.Execute(context.Background(), input)

	require.NoError(t, err)

	// Failed calls leave empty responses but keep their slots.
	metric := payload.Metrics.AccuracyByQuestion[0]
	require.Len(t, metric.Utterances, 3)

	for _, utterance := range metric.Utterances {
		assert.NotEmpty(t, utterance.Text)
		assert.Empty(t, utterance.Response)
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.4))
	assert.Equal(t, 0.5, Clamp01(0.5))
}

func TestValidateIntent(t *testing.T) {
	valid := ValidateIntent("handle billing questions about invoices")

	assert.True(t, valid.Valid)
	assert.InDelta(t, 0.95, valid.Confidence, 0.0001)
	assert.Empty(t, valid.Suggestions)

	vague := ValidateIntent("billing")

	assert.False(t, vague.Valid)
	assert.InDelta(t, 0.45, vague.Confidence, 0.0001)
	assert.NotEmpty(t, vague.Suggestions)
}
