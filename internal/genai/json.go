package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips the Markdown code fences models wrap their "JSON" answers
// in. The result is still untrusted text; callers decode it strictly.
func CleanJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}

// DecodeJSON cleans and strictly parses model output into v. Any deviation
// from well-formed JSON is a hard failure, never a partial recovery.
func DecodeJSON(text string, v interface{}) error {
	if err := json.Unmarshal([]byte(CleanJSON(text)), v); err != nil {
		return fmt.Errorf("malformed model response: %w", err)
	}

	return nil
}
