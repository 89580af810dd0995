package subagent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/armatrix/deepagents-go"
)

func stubCapability(name string) agent.Capability {
	return agent.NewCapability(name, name+" capability", anthropic.ToolInputSchemaParam{},
		func(context.Context, agent.Call, json.RawMessage) (*agent.ToolResult, error) {
			return agent.TextResult(name), nil
		})
}

func allCaps() []agent.Capability {
	return []agent.Capability{stubCapability("ls"), stubCapability("read_file"), stubCapability("tavily_search")}
}

func testModel() *agent.Model {
	return &agent.Model{ID: anthropic.ModelClaudeSonnet4_5}
}

func TestNewRegistry_BindsSubset(t *testing.T) {
	defs := []Definition{
		{Name: "research-agent", Description: "researches", Directive: "dig", Capabilities: []string{"tavily_search", "ls"}},
	}

	r, err := NewRegistry(defs, allCaps(), testModel())
	require.NoError(t, err)

	spec, ok := r.Lookup("research-agent")
	require.True(t, ok)
	worker, ok := spec.Worker.(*agent.Agent)
	require.True(t, ok)
	assert.Equal(t, []string{"tavily_search", "ls"}, worker.Capabilities().Names())
	assert.Equal(t, "dig", worker.Directive())
	assert.Equal(t, "research-agent", worker.Name())
}

func TestNewRegistry_NilSubsetInheritsAll(t *testing.T) {
	r, err := NewRegistry([]Definition{{Name: "general"}}, allCaps(), testModel())
	require.NoError(t, err)

	spec, _ := r.Lookup("general")
	assert.Equal(t, []string{"ls", "read_file", "tavily_search"}, spec.Worker.(*agent.Agent).Capabilities().Names())
}

func TestNewRegistry_EmptySubsetBindsNothing(t *testing.T) {
	r, err := NewRegistry([]Definition{{Name: "thinker", Capabilities: []string{}}}, allCaps(), testModel())
	require.NoError(t, err)

	spec, _ := r.Lookup("thinker")
	assert.Equal(t, 0, spec.Worker.(*agent.Agent).Capabilities().Len())
}

func TestNewRegistry_UnknownCapabilityFailsFast(t *testing.T) {
	defs := []Definition{
		{Name: "ok"},
		{Name: "broken", Capabilities: []string{"ls", "run_shell"}},
	}

	r, err := NewRegistry(defs, allCaps(), testModel())

	require.Error(t, err)
	assert.Nil(t, r)
	var unknown *UnknownCapabilityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "broken", unknown.Specialization)
	assert.Equal(t, "run_shell", unknown.Capability)
	assert.ErrorIs(t, err, agent.ErrCapabilityNotFound)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "run_shell")
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Definition{{Name: "a"}, {Name: "a"}}, nil, testModel())
	assert.ErrorIs(t, err, ErrDuplicateSpecialization)
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry([]Definition{{Name: ""}}, nil, testModel())
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewRegistry_ModelOverrideSharesClient(t *testing.T) {
	model := testModel()
	r, err := NewRegistry([]Definition{
		{Name: "inherit"},
		{Name: "fast", Model: anthropic.ModelClaudeHaiku4_5},
	}, nil, model)
	require.NoError(t, err)

	inherit, _ := r.Lookup("inherit")
	fast, _ := r.Lookup("fast")
	assert.Same(t, model, inherit.Worker.(*agent.Agent).Model())
	assert.Equal(t, anthropic.ModelClaudeHaiku4_5, fast.Worker.(*agent.Agent).Model().ID)
	assert.Equal(t, anthropic.ModelClaudeSonnet4_5, model.ID)
}

func TestNewRegistry_BaseAndDefinitionOptions(t *testing.T) {
	r, err := NewRegistry([]Definition{{
		Name:      "w",
		MaxTurns:  3,
		MaxBudget: decimal.NewFromFloat(0.5),
		Options:   []agent.AgentOption{agent.WithDirective("from options")},
	}}, nil, testModel(), agent.WithDirective("base"))
	require.NoError(t, err)

	spec, _ := r.Lookup("w")
	assert.Equal(t, "from options", spec.Worker.(*agent.Agent).Directive())
}

func TestRegistry_NamesAndDescribe(t *testing.T) {
	r, err := NewRegistry([]Definition{
		{Name: "research-agent", Description: "Delegate research."},
		{Name: "critique-agent", Description: "Critique the report."},
	}, nil, testModel())
	require.NoError(t, err)

	assert.Equal(t, []string{"research-agent", "critique-agent"}, r.Names())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "- research-agent: Delegate research.\n- critique-agent: Critique the report.", r.Describe())
}

func TestRegistry_AddCustomWorker(t *testing.T) {
	var r Registry
	w := WorkerFunc(func(ctx context.Context, st *agent.State) (*agent.State, error) { return st, nil })

	require.NoError(t, r.Add(Definition{Name: "custom"}, w))
	spec, ok := r.Lookup("custom")
	require.True(t, ok)
	assert.NotNil(t, spec.Worker)
	assert.ErrorIs(t, r.Add(Definition{Name: "custom"}, w), ErrDuplicateSpecialization)
}
