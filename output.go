package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/armatrix/deepagents-go/internal/schema"
)

// OutputFormat describes a structured reply: a hidden tool whose input schema
// is the reply shape, forced through tool_choice.
type OutputFormat struct {
	Name        string
	Description string
	Schema      anthropic.ToolInputSchemaParam
}

// NewOutputFormatType derives an OutputFormat from the struct tags of T.
func NewOutputFormatType[T any](name string) OutputFormat {
	return OutputFormat{
		Name:        name,
		Description: "Return structured output matching the schema",
		Schema:      schema.Generate[T](),
	}
}

// request builds a single-turn request that forces the format's tool.
func (f OutputFormat) request(model anthropic.Model, system, prompt string) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: DefaultStructuredOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        f.Name,
				Description: param.NewOpt(f.Description),
				InputSchema: f.Schema,
			},
		}},
		ToolChoice: anthropic.ToolChoiceParamOfTool(f.Name),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// decode unmarshals the input of the tool_use block named name.
func decode[T any](msg *anthropic.Message, name string) (*T, error) {
	for _, block := range msg.Content {
		if block.Type != "tool_use" || block.Name != name {
			continue
		}
		var out T
		if err := json.Unmarshal(block.Input, &out); err != nil {
			return nil, fmt.Errorf("structured output %q: %w", name, err)
		}
		return &out, nil
	}
	return nil, fmt.Errorf("structured output %q: no tool_use block in reply", name)
}

// Structured asks m for a single reply shaped like T. The request carries
// prompt as the only user turn and system as the directive. When the call
// fails and m names a fallback model, it is retried once on the fallback.
func Structured[T any](ctx context.Context, m *Model, format OutputFormat, system, prompt string) (*T, error) {
	if m == nil || m.Messages == nil {
		return nil, ErrNoModel
	}

	msg, err := m.Messages.New(ctx, format.request(m.ID, system, prompt))
	if err != nil && m.Fallback != "" && m.Fallback != m.ID && ctx.Err() == nil {
		msg, err = m.Messages.New(ctx, format.request(m.Fallback, system, prompt))
	}
	if err != nil {
		return nil, fmt.Errorf("structured output: %w", err)
	}
	return decode[T](msg, format.Name)
}
