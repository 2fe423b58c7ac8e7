// Package runner executes a workflow's item sequence against a target
// chatbot and produces the payload for one Report.
package runner

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/types"
	"github.com/utterly-dev/utterly/internal/workflow"
)

// ErrNoQuestions is returned when a run finishes without a single
// successfully processed question item.
var ErrNoQuestions = errors.New("no questions were successfully processed")

// Target describes how to call the chatbot under test.
type Target struct {
	Endpoint         string
	APIKey           string
	Model            string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Stop             []string
}

// RunInput carries everything one execution needs: the decoded item list,
// the target configuration and the display names the synthesizer embeds in
// its prompt.
type RunInput struct {
	ProjectName  string
	WorkflowName string
	ChatbotName  string
	ModelName    string
	Items        []workflow.Item
	Target       Target
}

// QuestionLevelAnalysis is the analyzer's per-question verdict. The external
// model scores the batch as a whole, so every utterance of a question shares
// this one value; there is no per-utterance granularity to report.
type QuestionLevelAnalysis struct {
	MatchesExpected bool     `json:"matchesExpected"`
	OverallQuality  string   `json:"overallQuality"`
	Accuracy        float64  `json:"accuracy"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
}

// UtteranceRecord pairs one paraphrase with the answer the target gave it.
type UtteranceRecord struct {
	Text     string `json:"text"`
	Response string `json:"response"`
}

type QuestionAnalysis struct {
	Question       string                `json:"question"`
	ExpectedAnswer string                `json:"expectedAnswer"`
	Utterances     []UtteranceRecord     `json:"utterances"`
	Level          QuestionLevelAnalysis `json:"level"`
}

type IntentAnalysis struct {
	Intent      string   `json:"intent"`
	Valid       bool     `json:"valid"`
	Message     string   `json:"message"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type Runner struct {
	AI         *genai.Client
	HTTPClient *http.Client
}

func New(ai *genai.Client) *Runner {
	return &Runner{
		AI:         ai,
		HTTPClient: &http.Client{},
	}
}

// Execute walks the items strictly in stored array order. Delay items
// suspend the run, intent items record a validation analysis, question items
// fan out to the target and are analyzed as a batch, and an end item stops
// processing. Question items missing their prompt or expected answer are
// dropped without an error; a failed utterance generation or analysis
// abandons that question and the run continues. Every external call is
// attempted exactly once.
func (r *Runner) Execute(ctx context.Context, in RunInput) (*types.ReportPayload, error) {
	var (
		analyses []QuestionAnalysis
		intents  []IntentAnalysis
	)

items:
	for _, item := range in.Items {
		step, err := item.Decode()

		if err != nil {
			log.Printf("Skipping malformed workflow item: %v", err)
			continue
		}

		switch s := step.(type) {
		case workflow.DelayStep:
			if err := sleep(ctx, time.Duration(s.Minutes*float64(time.Minute))); err != nil {
				return nil, err
			}
		case workflow.IntentStep:
			intents = append(intents, ValidateIntent(s.Text))
		case workflow.QuestionStep:
			if s.Prompt == "" || s.ExpectedAnswer == "" {
				continue
			}

			analysis, err := r.processQuestion(ctx, in.Target, s)

			if err != nil {
				log.Printf("Error processing question %q: %v", s.Prompt, err)
				continue
			}

			analyses = append(analyses, *analysis)
		case workflow.EndStep:
			break items
		}
	}

	if len(analyses) == 0 {
		return nil, ErrNoQuestions
	}

	return r.SynthesizeReport(ctx, in, analyses, intents)
}

func (r *Runner) processQuestion(ctx context.Context, target Target, q workflow.QuestionStep) (*QuestionAnalysis, error) {
	count := q.UtteranceCount

	if count <= 0 {
		count = workflow.DefaultUtteranceCount
	}

	utterances, err := r.GenerateUtterances(ctx, q.Prompt, count)

	if err != nil {
		return nil, err
	}

	answers := r.collectAnswers(ctx, target, utterances)

	return r.AnalyzeResponses(ctx, q, utterances, answers)
}

// collectAnswers issues one chatbot call per utterance concurrently. The
// result slice preserves utterance index order; a failed call leaves an
// empty string at its index instead of aborting the question.
func (r *Runner) collectAnswers(ctx context.Context, target Target, utterances []string) []string {
	answers := make([]string, len(utterances))

	var wg sync.WaitGroup

	for i, utterance := range utterances {
		wg.Add(1)

		go func(i int, utterance string) {
			defer wg.Done()

			answer, err := r.AskTarget(ctx, target, utterance)

			if err != nil {
				log.Printf("Chatbot call failed for utterance %d: %v", i, err)
				return
			}

			answers[i] = answer
		}(i, utterance)
	}

	wg.Wait()

	return answers
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
