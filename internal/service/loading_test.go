package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadingMessagesRandom(t *testing.T) {
	l := DefaultLoadingMessages()
	assert.Len(t, l.messages, 25)

	for range 50 {
		assert.Contains(t, defaultLoadingMessages, l.Random())
	}
}

func TestSnagMessage(t *testing.T) {
	assert.Equal(t, "Oops, Clementine hit a snag. Please try again in a moment.", SnagMessage("Clementine"))
}
