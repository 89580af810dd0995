package main

import (
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	agent "github.com/armatrix/deepagents-go"
	"github.com/armatrix/deepagents-go/internal/config"
	"github.com/armatrix/deepagents-go/research"
	"github.com/armatrix/deepagents-go/session"
	"github.com/armatrix/deepagents-go/subagent"
	"github.com/armatrix/deepagents-go/tools"
)

// summaryModel condenses fetched pages; a small model keeps search cheap.
const summaryModel = anthropic.ModelClaudeHaiku4_5

// system is the assembled host: the primary client over a delegation engine.
type system struct {
	client *agent.Client
	engine *subagent.Engine
	store  *session.MemoryStore
}

// loadSettings reads the settings files and agent directories, falling back
// to the default locations under the working directory.
func loadSettings() (*config.Settings, []config.AgentConfig, error) {
	wd, _ := os.Getwd()

	paths := configPaths
	if len(paths) == 0 {
		paths = config.DefaultSettingsPaths(wd)
	}
	settings, err := config.LoadSettings(paths...)
	if err != nil {
		return nil, nil, err
	}

	dirs := agentDirs
	if len(dirs) == 0 {
		dirs = config.DefaultAgentDirs(wd)
	}
	files, err := config.LoadAgents(dirs...)
	if err != nil {
		return nil, nil, err
	}

	if modelFlag != "" {
		settings.Model = modelFlag
	}
	if maxTurns > 0 {
		settings.MaxTurns = maxTurns
	}
	return settings, files, nil
}

// definitions returns the built-in research specialization followed by the
// configured ones. A configured entry with the built-in name replaces it.
func definitions(settings *config.Settings, files []config.AgentConfig) []subagent.Definition {
	directive, _ := config.GetPreset(config.PresetResearcher)
	declared := []config.AgentConfig{{
		Name:        config.ResearcherName,
		Description: config.ResearcherDescription,
		Directive:   directive,
		Tools:       []string{"tavily_search", "think_tool"},
	}}

	for _, group := range [][]config.AgentConfig{settings.Agents, files} {
		for _, a := range group {
			replaced := false
			for i := range declared {
				if declared[i].Name == a.Name {
					declared[i] = a
					replaced = true
				}
			}
			if !replaced {
				declared = append(declared, a)
			}
		}
	}

	defs := make([]subagent.Definition, len(declared))
	for i, a := range declared {
		defs[i] = a.Definition()
	}
	return defs
}

// assemble wires model, capabilities, specializations, the delegation engine
// and the primary agent. handler may be nil.
func assemble(settings *config.Settings, files []config.AgentConfig, model *agent.Model, searcher tools.Searcher, handler agent.EventHandler, log *zap.Logger) (*system, error) {
	search := &tools.SearchTool{
		Searcher:   searcher,
		MaxResults: settings.Search.MaxResults,
		Topic:      research.Topic(settings.Search.Topic),
	}

	caps := tools.FileCapabilities()
	caps = append(caps, tools.TodoCapabilities()...)
	caps = append(caps, tools.ResearchCapabilities(search)...)

	common := []agent.AgentOption{agent.WithLogger(log)}
	if settings.MaxOutputTokens > 0 {
		common = append(common, agent.WithMaxOutputTokens(settings.MaxOutputTokens))
	}
	if settings.FallbackModel != "" {
		common = append(common, agent.WithFallbackModel(anthropic.Model(settings.FallbackModel)))
	}

	registry, err := subagent.NewRegistry(definitions(settings, files), caps, model, common...)
	if err != nil {
		return nil, err
	}
	engine := subagent.New(registry, subagent.WithLogger(log.Named("subagent")))

	directive := settings.Directive
	if directive == "" {
		directive, _ = config.GetPreset(config.PresetOrchestrator)
	}

	store := session.NewMemoryStore()
	opts := append([]agent.AgentOption{}, common...)
	opts = append(opts,
		agent.WithName("orchestrator"),
		agent.WithModel(model),
		agent.WithDirective(directive),
		agent.WithCapabilities(caps...),
		agent.WithCapabilities(tools.TaskCapability(engine)),
		agent.WithStateStore(store),
	)
	if settings.MaxTurns > 0 {
		opts = append(opts, agent.WithMaxTurns(settings.MaxTurns))
	}
	if settings.MaxBudgetUSD > 0 {
		opts = append(opts, agent.WithBudget(decimal.NewFromFloat(settings.MaxBudgetUSD)))
	}
	if handler != nil {
		opts = append(opts, agent.WithEventHandler(handler))
	}

	return &system{client: agent.NewClient(opts...), engine: engine, store: store}, nil
}

// newSearcher builds the Tavily-backed research pipeline.
func newSearcher(model *agent.Model, log *zap.Logger) *research.Pipeline {
	return research.NewPipeline(
		research.NewTavilyClient(os.Getenv("TAVILY_API_KEY")),
		research.NewHTTPFetcher(),
		research.NewModelSummarizer(model.WithID(summaryModel), log.Named("summarize")),
		research.WithLogger(log.Named("research")),
	)
}
