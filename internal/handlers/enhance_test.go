package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhancePrompt(t *testing.T) {
	prompt, err := enhancePrompt(EnhanceTypeQuestion, "how refund")

	require.NoError(t, err)
	assert.Contains(t, prompt, "Question: how refund")
	assert.Contains(t, prompt, "enhanced question")

	prompt, err = enhancePrompt(EnhanceTypeAnswer, "30 days")

	require.NoError(t, err)
	assert.Contains(t, prompt, "Answer: 30 days")
	assert.Contains(t, prompt, "enhanced answer")
}

func TestEnhancePromptUnknownType(t *testing.T) {
	_, err := enhancePrompt("poem", "content")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported enhancement type")
}
