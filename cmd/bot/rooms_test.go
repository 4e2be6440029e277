package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clementine-bot/clementine/internal/domain"
)

func TestPrintRoomList(t *testing.T) {
	assistants := `["a1","a2"]`
	prompt := "You are a very thorough assistant that explains every step in detail"
	size := 120
	updated := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := printRoomList(&buf, map[string]domain.RoomOverride{
		"C2": {RoomID: "C2", ContextWindowSize: &size, UpdatedAt: updated},
		"C1": {RoomID: "C1", AssistantList: &assistants, SystemPrompt: &prompt, UpdatedAt: updated},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ROOM"))
	assert.True(t, strings.HasPrefix(lines[1], "C1"))
	assert.Contains(t, lines[1], `["a1","a2"]`)
	assert.Contains(t, lines[1], "You are a very thorough assistant tha...")
	assert.True(t, strings.HasPrefix(lines[2], "C2"))
	assert.Contains(t, lines[2], "120")
	assert.Contains(t, lines[2], "2026-03-04 05:06")
}

func TestPrintRoomList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoomList(&buf, nil))
	assert.Equal(t, "No rooms have a custom configuration.\n", buf.String())
}

func TestPrintRoomView(t *testing.T) {
	var buf bytes.Buffer
	printRoomView(&buf, domain.RoomConfigView{
		Config: domain.ResolvedRoomConfig{
			RoomID:            "C1",
			AssistantList:     []string{"konflux", "clowder"},
			SystemPrompt:      "Be helpful",
			ContextWindowSize: 80,
		},
		Bounds:          domain.ContextBounds{Min: 50, Max: 250},
		HasCustomConfig: true,
	})

	out := buf.String()
	assert.Contains(t, out, "C1 (custom)")
	assert.Contains(t, out, "konflux, clowder")
	assert.Contains(t, out, "80 (range 50-250)")
	assert.Contains(t, out, "Be helpful")
}
