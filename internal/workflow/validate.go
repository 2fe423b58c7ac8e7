package workflow

import "fmt"

// ValidateItems enforces the save-time invariants: item types must be known,
// at most one end item may appear and it must be last, and delays cannot be
// negative. It also clamps utterance counts into [1, 30] in place; a zero
// count is left alone and resolved to the default at run time.
//
// A question missing its prompt or expected answer is accepted here; the
// runner drops such items from the report instead.
func ValidateItems(items []Item) error {
	for idx := range items {
		item := &items[idx]

		step, err := item.Decode()

		if err != nil {
			return fmt.Errorf("item %d: %w", idx, err)
		}

		switch s := step.(type) {
		case EndStep:
			if idx != len(items)-1 {
				return fmt.Errorf("item %d: end item must be the last item", idx)
			}
		case DelayStep:
			if s.Minutes < 0 {
				return fmt.Errorf("item %d: delay cannot be negative", idx)
			}
		case QuestionStep:
			if item.UtteranceCount != 0 {
				if item.UtteranceCount < MinUtteranceCount {
					item.UtteranceCount = MinUtteranceCount
				}
				if item.UtteranceCount > MaxUtteranceCount {
					item.UtteranceCount = MaxUtteranceCount
				}
			}
		case IntentStep:
			// No save-time constraints beyond a known type.
		}
	}

	return nil
}
