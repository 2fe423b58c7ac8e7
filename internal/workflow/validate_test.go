package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(count int) Item {
	return Item{Type: ItemQuestion, Question: "What is the refund policy?", ExpectedAnswer: "30 days", UtteranceCount: count}
}

func TestValidateItemsAcceptsEndLast(t *testing.T) {
	items := []Item{
		question(5),
		{Type: ItemDelay, Delay: 2},
		{Type: ItemEnd},
	}

	assert.NoError(t, ValidateItems(items))
}

func TestValidateItemsRejectsEndInMiddle(t *testing.T) {
	items := []Item{
		{Type: ItemEnd},
		question(5),
	}

	err := ValidateItems(items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "end item must be the last item")
}

func TestValidateItemsRejectsTwoEnds(t *testing.T) {
	items := []Item{
		question(5),
		{Type: ItemEnd},
		{Type: ItemEnd},
	}

	err := ValidateItems(items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "end item must be the last item")
}

func TestValidateItemsRejectsNegativeDelay(t *testing.T) {
	items := []Item{
		{Type: ItemDelay, Delay: -1},
	}

	err := ValidateItems(items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay cannot be negative")
}

func TestValidateItemsRejectsUnknownType(t *testing.T) {
	items := []Item{
		{Type: "loop"},
	}

	err := ValidateItems(items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow item type")
}

func TestValidateItemsClampsUtteranceCount(t *testing.T) {
	items := []Item{
		question(100),
		question(-3),
		question(0),
		question(7),
	}

	require.NoError(t, ValidateItems(items))

	assert.Equal(t, MaxUtteranceCount, items[0].UtteranceCount)
	assert.Equal(t, MinUtteranceCount, items[1].UtteranceCount)
	// Zero stays zero; the default is applied at run time.
	assert.Equal(t, 0, items[2].UtteranceCount)
	assert.Equal(t, 7, items[3].UtteranceCount)
}

func TestValidateItemsAcceptsIncompleteQuestion(t *testing.T) {
	items := []Item{
		{Type: ItemQuestion, Question: "No expected answer here"},
	}

	assert.NoError(t, ValidateItems(items))
}
