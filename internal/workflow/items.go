package workflow

import (
	"encoding/json"
	"fmt"
)

type ItemType string

const (
	ItemIntent   ItemType = "intent"
	ItemQuestion ItemType = "question"
	ItemDelay    ItemType = "delay"
	ItemEnd      ItemType = "end"
)

const (
	MinUtteranceCount     = 1
	MaxUtteranceCount     = 30
	DefaultUtteranceCount = 10
)

// Item is the wire envelope stored in Workflow.Items. Only the fields for
// the item's type are meaningful; Decode turns the envelope into its typed
// step.
type Item struct {
	ID   string   `json:"id"`
	Type ItemType `json:"type"`

	// question
	Question       string `json:"question,omitempty"`
	ExpectedAnswer string `json:"expectedAnswer,omitempty"`
	UtteranceCount int    `json:"utteranceCount,omitempty"`

	// intent
	Intent    string `json:"intent,omitempty"`
	Validated bool   `json:"validated,omitempty"`

	// delay, in minutes
	Delay float64 `json:"delay,omitempty"`

	// end
	EndMessage string `json:"endMessage,omitempty"`
}

// Step is the closed set of workflow step kinds. Every consumer type-switches
// over IntentStep, QuestionStep, DelayStep and EndStep.
type Step interface {
	isStep()
}

type IntentStep struct {
	Text      string
	Validated bool
}

type QuestionStep struct {
	Prompt         string
	ExpectedAnswer string
	UtteranceCount int
}

type DelayStep struct {
	Minutes float64
}

type EndStep struct {
	Message string
}

func (IntentStep) isStep()   {}
func (QuestionStep) isStep() {}
func (DelayStep) isStep()    {}
func (EndStep) isStep()      {}

// Decode returns the typed step for the envelope. Unknown types are an error
// rather than a silent passthrough.
func (i Item) Decode() (Step, error) {
	switch i.Type {
	case ItemIntent:
		return IntentStep{Text: i.Intent, Validated: i.Validated}, nil
	case ItemQuestion:
		return QuestionStep{
			Prompt:         i.Question,
			ExpectedAnswer: i.ExpectedAnswer,
			UtteranceCount: i.UtteranceCount,
		}, nil
	case ItemDelay:
		return DelayStep{Minutes: i.Delay}, nil
	case ItemEnd:
		return EndStep{Message: i.EndMessage}, nil
	default:
		return nil, fmt.Errorf("unknown workflow item type: %q", i.Type)
	}
}

// DecodeItems parses the JSONB blob a Workflow row stores its items in.
func DecodeItems(raw []byte) ([]Item, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []Item

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("invalid workflow items: %w", err)
	}

	return items, nil
}

// EncodeItems serializes items back into the stored blob shape.
func EncodeItems(items []Item) ([]byte, error) {
	return json.Marshal(items)
}
