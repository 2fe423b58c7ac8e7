package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStopSequences(t *testing.T) {
	assert.Nil(t, splitStopSequences(""))
	assert.Equal(t, []string{"END"}, splitStopSequences("END"))
	assert.Equal(t, []string{"END", "STOP"}, splitStopSequences("END, STOP"))
	assert.Equal(t, []string{"END"}, splitStopSequences("END,,  ,"))
}
