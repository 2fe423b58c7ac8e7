package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeItemTypes(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Step
	}{
		{
			name: "intent",
			item: Item{Type: ItemIntent, Intent: "book flights", Validated: true},
			want: IntentStep{Text: "book flights", Validated: true},
		},
		{
			name: "question",
			item: Item{Type: ItemQuestion, Question: "What is the refund policy?", ExpectedAnswer: "30 days", UtteranceCount: 5},
			want: QuestionStep{Prompt: "What is the refund policy?", ExpectedAnswer: "30 days", UtteranceCount: 5},
		},
		{
			name: "delay",
			item: Item{Type: ItemDelay, Delay: 1.5},
			want: DelayStep{Minutes: 1.5},
		},
		{
			name: "end",
			item: Item{Type: ItemEnd, EndMessage: "done"},
			want: EndStep{Message: "done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := tt.item.Decode()

			require.NoError(t, err)
			assert.Equal(t, tt.want, step)
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Item{Type: "branch"}.Decode()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow item type")
}

func TestDecodeItemsRoundTrip(t *testing.T) {
	items := []Item{
		{ID: "a", Type: ItemIntent, Intent: "handle billing questions"},
		{ID: "b", Type: ItemQuestion, Question: "How do I pay?", ExpectedAnswer: "By card", UtteranceCount: 3},
		{ID: "c", Type: ItemEnd},
	}

	raw, err := EncodeItems(items)
	require.NoError(t, err)

	decoded, err := DecodeItems(raw)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestDecodeItemsEmpty(t *testing.T) {
	items, err := DecodeItems(nil)

	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestDecodeItemsInvalidJSON(t *testing.T) {
	_, err := DecodeItems([]byte(`{"not": "a list"`))

	require.Error(t, err)
}
