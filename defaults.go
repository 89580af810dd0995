package agent

// Model and loop defaults.
const (
	// DefaultModel is the model used when no model handle is supplied.
	DefaultModel = "claude-sonnet-4-5"

	// DefaultMaxOutputTokens is the default maximum output tokens per response.
	DefaultMaxOutputTokens = 16_384

	// DefaultMaxTurns is the default max turns (0 = unlimited).
	DefaultMaxTurns = 0

	// DefaultStructuredOutputTokens bounds structured output requests.
	DefaultStructuredOutputTokens = 4_096
)
