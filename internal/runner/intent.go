package runner

import "strings"

// ValidateIntent performs the lightweight intent check. It never contacts
// the target chatbot; an intent is judged on how specific its wording is.
func ValidateIntent(intent string) IntentAnalysis {
	trimmed := strings.TrimSpace(intent)
	valid := len(trimmed) > 10

	if valid {
		return IntentAnalysis{
			Intent:     trimmed,
			Valid:      true,
			Message:    "The chatbot understands that you want to " + strings.ToLower(trimmed) + ". It will use this understanding to better answer related questions.",
			Confidence: 0.95,
		}
	}

	return IntentAnalysis{
		Intent:     trimmed,
		Valid:      false,
		Message:    "The intent is too vague. Please provide more specific details about what you want the chatbot to understand.",
		Confidence: 0.45,
		Suggestions: []string{
			"Add more specific details about the context",
			"Include examples of what you want the chatbot to understand",
			"Specify the type of information you are looking for",
		},
	}
}
