package agent

import (
	"encoding/json"
	"sort"
	"time"
)

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool result. Its CallID correlates it with the
	// assistant tool call that produced it.
	RoleTool Role = "tool"
)

// ToolCall is a capability invocation requested by an assistant turn.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Message is a single turn of the conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// CallID is the correlation token linking a tool result to its request.
	CallID string `json:"call_id,omitempty"`

	// ToolCalls is set on assistant turns that invoked capabilities.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// IsError marks a tool result that reports a failure.
	IsError bool `json:"is_error,omitempty"`
}

// TodoStatus is the progress marker of a Todo.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// Todo is a single task list entry. Status transitions are driven by the
// caller; any value is accepted.
type Todo struct {
	Content string     `json:"content" jsonschema:"required,description=Short specific description of the task"`
	Status  TodoStatus `json:"status" jsonschema:"required,enum=pending,enum=in_progress,enum=completed,description=Current state of the task"`
}

// Files is the virtual file store: file name to content.
type Files map[string]string

// MergeFiles returns the right-biased union of left and right: every key of
// both, with right's value winning on conflict. Neither input is modified and
// the result never aliases them.
func MergeFiles(left, right Files) Files {
	if left == nil && right == nil {
		return nil
	}
	out := make(Files, len(left)+len(right))
	for k, v := range left {
		out[k] = v
	}
	for k, v := range right {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the file store.
func (f Files) Clone() Files {
	if f == nil {
		return nil
	}
	out := make(Files, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Names returns the file names in lexical order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// State is the shared mutable record passed between the primary loop and
// delegated workers. It carries no lock of its own: callers that share a
// State across goroutines must serialize access themselves.
type State struct {
	ID        string
	Messages  []Message
	Todos     []Todo
	Files     Files
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewState creates an empty state.
func NewState() *State {
	now := time.Now()
	return &State{
		ID:        GenerateID(PrefixState),
		Files:     make(Files),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendMessage appends a turn to the history.
func (s *State) AppendMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// MergeFiles merges files into the store with right-biased semantics.
func (s *State) MergeFiles(files Files) {
	if len(files) == 0 {
		return
	}
	s.Files = MergeFiles(s.Files, files)
	s.UpdatedAt = time.Now()
}

// WriteFile stores content under name, overwriting any previous content.
func (s *State) WriteFile(name, content string) {
	s.MergeFiles(Files{name: content})
}

// ReadFile returns the content stored under name.
func (s *State) ReadFile(name string) (string, bool) {
	content, ok := s.Files[name]
	return content, ok
}

// ReplaceTodos replaces the whole task list with a copy of todos.
func (s *State) ReplaceTodos(todos []Todo) {
	s.Todos = cloneTodos(todos)
	s.UpdatedAt = time.Now()
}

// LastMessage returns the final turn of the history.
func (s *State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy of the state under the same ID.
func (s *State) Clone() *State {
	return &State{
		ID:        s.ID,
		Messages:  cloneMessages(s.Messages),
		Todos:     cloneTodos(s.Todos),
		Files:     s.Files.Clone(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Isolate builds the private state handed to a delegated worker: files and
// todos are copied by value and the history holds exactly one user turn
// carrying description. Nothing else from s crosses over.
func (s *State) Isolate(description string) *State {
	now := time.Now()
	files := s.Files.Clone()
	if files == nil {
		files = make(Files)
	}
	return &State{
		ID:        GenerateID(PrefixState),
		Messages:  []Message{{Role: RoleUser, Content: description}},
		Todos:     cloneTodos(s.Todos),
		Files:     files,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cloneTodos(todos []Todo) []Todo {
	if todos == nil {
		return nil
	}
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.ToolCalls != nil {
			out[i].ToolCalls = make([]ToolCall, len(m.ToolCalls))
			copy(out[i].ToolCalls, m.ToolCalls)
		}
	}
	return out
}
