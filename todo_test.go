package agent

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTodos_EmptySentinel(t *testing.T) {
	assert.Equal(t, NoTodosText, ReadTodos(NewState()))
	assert.Equal(t, "No todos currently in the list.", FormatTodos(nil))
}

func TestReadTodos_SingleInProgress(t *testing.T) {
	st := NewState()
	st.ReplaceTodos([]Todo{{Content: "draft report", Status: TodoInProgress}})

	out := ReadTodos(st)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Current TODO List:", lines[0])
	assert.Equal(t, "1. 🔄 draft report (in_progress)", lines[1])
}

func TestStatusGlyph(t *testing.T) {
	assert.Equal(t, "⏳", StatusGlyph(TodoPending))
	assert.Equal(t, "🔄", StatusGlyph(TodoInProgress))
	assert.Equal(t, "✅", StatusGlyph(TodoCompleted))
	assert.Equal(t, "❓", StatusGlyph("blocked"))
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	st := NewState()
	todos := []Todo{
		{Content: "search", Status: TodoCompleted},
		{Content: "summarize", Status: TodoInProgress},
		{Content: "write answer", Status: TodoPending},
	}

	WriteTodos(st, "call_1", todos)

	want := "Current TODO List:\n" +
		"1. ✅ search (completed)\n" +
		"2. 🔄 summarize (in_progress)\n" +
		"3. ⏳ write answer (pending)"
	assert.Equal(t, want, ReadTodos(st))
}

func TestWriteTodos_AppendsCorrelatedConfirmation(t *testing.T) {
	st := NewState()
	todos := []Todo{{Content: "a", Status: TodoPending}}

	msg := WriteTodos(st, "call_7", todos)

	assert.Equal(t, RoleTool, msg.Role)
	assert.Equal(t, "call_7", msg.CallID)
	require.True(t, strings.HasPrefix(msg.Content, "Updated todo list to "))
	var echoed []Todo
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(msg.Content, "Updated todo list to ")), &echoed))
	assert.Equal(t, todos, echoed)

	last, ok := st.LastMessage()
	require.True(t, ok)
	assert.Equal(t, msg, last)
}

func TestWriteTodos_ReplacesWholesaleAndAllowsAnyTransition(t *testing.T) {
	st := NewState()
	WriteTodos(st, "1", []Todo{{Content: "a", Status: TodoCompleted}, {Content: "b", Status: TodoPending}})
	WriteTodos(st, "2", []Todo{{Content: "a", Status: TodoPending}})

	assert.Equal(t, []Todo{{Content: "a", Status: TodoPending}}, st.Todos)
}

func TestWriteTodos_EmptyList(t *testing.T) {
	st := NewState()
	msg := WriteTodos(st, "c", nil)
	assert.Equal(t, "Updated todo list to []", msg.Content)
	assert.Equal(t, NoTodosText, ReadTodos(st))
}
