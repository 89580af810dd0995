package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NoTodosText is what ReadTodos renders for an empty task list.
const NoTodosText = "No todos currently in the list."

var statusGlyphs = map[TodoStatus]string{
	TodoPending:    "⏳",
	TodoInProgress: "🔄",
	TodoCompleted:  "✅",
}

// StatusGlyph returns the marker rendered for status. Unknown statuses get "❓".
func StatusGlyph(status TodoStatus) string {
	if g, ok := statusGlyphs[status]; ok {
		return g
	}
	return "❓"
}

// WriteTodos replaces the task list of st with todos and appends a
// confirmation message correlated with callID. No transition rules are
// enforced: the last writer wins.
func WriteTodos(st *State, callID string, todos []Todo) Message {
	st.ReplaceTodos(todos)
	msg := Message{
		Role:    RoleTool,
		Content: "Updated todo list to " + encodeTodos(todos),
		CallID:  callID,
	}
	st.AppendMessage(msg)
	return msg
}

// ReadTodos renders the task list of st, one numbered line per item.
func ReadTodos(st *State) string {
	return FormatTodos(st.Todos)
}

// FormatTodos renders todos the way ReadTodos does.
func FormatTodos(todos []Todo) string {
	if len(todos) == 0 {
		return NoTodosText
	}
	var b strings.Builder
	b.WriteString("Current TODO List:\n")
	for i, t := range todos {
		fmt.Fprintf(&b, "%d. %s %s (%s)\n", i+1, StatusGlyph(t.Status), t.Content, t.Status)
	}
	return strings.TrimSpace(b.String())
}

func encodeTodos(todos []Todo) string {
	if todos == nil {
		todos = []Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return fmt.Sprintf("%v", todos)
	}
	return string(b)
}
