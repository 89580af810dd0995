// Package config loads settings and specialization files for the agent host.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/armatrix/deepagents-go/subagent"
)

// Settings holds merged configuration from multiple sources.
// Later sources override earlier ones (user < project < local).
type Settings struct {
	Model           string         `json:"model,omitempty" yaml:"model,omitempty"`
	FallbackModel   string         `json:"fallbackModel,omitempty" yaml:"fallbackModel,omitempty"`
	Directive       string         `json:"directive,omitempty" yaml:"directive,omitempty"`
	MaxTurns        int            `json:"maxTurns,omitempty" yaml:"maxTurns,omitempty"`
	MaxBudgetUSD    float64        `json:"maxBudgetUSD,omitempty" yaml:"maxBudgetUSD,omitempty"`
	MaxOutputTokens int            `json:"maxOutputTokens,omitempty" yaml:"maxOutputTokens,omitempty"`
	Search          SearchSettings `json:"search,omitempty" yaml:"search,omitempty"`
	Agents          []AgentConfig  `json:"agents,omitempty" yaml:"agents,omitempty"`
	CustomSettings  map[string]any `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// SearchSettings configures the tavily_search capability.
type SearchSettings struct {
	MaxResults int    `json:"maxResults,omitempty" yaml:"maxResults,omitempty"`
	Topic      string `json:"topic,omitempty" yaml:"topic,omitempty"`
}

// AgentConfig declares a specialization in a settings file or in the front
// matter of an agent file.
type AgentConfig struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Directive    string   `json:"directive,omitempty" yaml:"directive,omitempty"`
	Tools        []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Model        string   `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTurns     int      `json:"maxTurns,omitempty" yaml:"maxTurns,omitempty"`
	MaxBudgetUSD float64  `json:"maxBudgetUSD,omitempty" yaml:"maxBudgetUSD,omitempty"`
}

// Definition converts the declaration into a specialization descriptor. An
// absent tools list inherits every capability.
func (a AgentConfig) Definition() subagent.Definition {
	def := subagent.Definition{
		Name:        a.Name,
		Description: a.Description,
		Directive:   a.Directive,
		Model:       anthropic.Model(a.Model),
		MaxTurns:    a.MaxTurns,
	}
	if a.Tools != nil {
		def.Capabilities = append([]string{}, a.Tools...)
	}
	if a.MaxBudgetUSD > 0 {
		def.MaxBudget = decimal.NewFromFloat(a.MaxBudgetUSD)
	}
	return def
}

// LoadSettings merges settings from multiple JSON or YAML file paths, chosen
// by extension. Later paths override earlier ones. Missing files are skipped;
// a file that cannot be parsed is an error.
func LoadSettings(paths ...string) (*Settings, error) {
	merged := &Settings{
		CustomSettings: make(map[string]any),
	}

	for _, path := range paths {
		s, err := loadSettingsFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		mergeSettings(merged, s)
	}

	return merged, nil
}

// DefaultSettingsPaths returns the standard settings file search paths.
func DefaultSettingsPaths(projectDir string) []string {
	home, _ := os.UserHomeDir()
	var paths []string

	if home != "" {
		paths = append(paths, filepath.Join(home, ".deepagents", "settings.yaml"))
	}
	if projectDir != "" {
		paths = append(paths,
			filepath.Join(projectDir, ".deepagents", "settings.yaml"),
			filepath.Join(projectDir, ".deepagents", "settings.json"),
			filepath.Join(projectDir, ".deepagents", "settings.local.yaml"),
		)
	}

	return paths
}

// DefaultAgentDirs returns the standard specialization directories.
func DefaultAgentDirs(projectDir string) []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".deepagents", "agents"))
	}
	if projectDir != "" {
		dirs = append(dirs, filepath.Join(projectDir, ".deepagents", "agents"))
	}
	return dirs
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &s, nil
}

func mergeSettings(dst, src *Settings) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.FallbackModel != "" {
		dst.FallbackModel = src.FallbackModel
	}
	if src.Directive != "" {
		dst.Directive = src.Directive
	}
	if src.MaxTurns > 0 {
		dst.MaxTurns = src.MaxTurns
	}
	if src.MaxBudgetUSD > 0 {
		dst.MaxBudgetUSD = src.MaxBudgetUSD
	}
	if src.MaxOutputTokens > 0 {
		dst.MaxOutputTokens = src.MaxOutputTokens
	}
	if src.Search.MaxResults > 0 {
		dst.Search.MaxResults = src.Search.MaxResults
	}
	if src.Search.Topic != "" {
		dst.Search.Topic = src.Search.Topic
	}
	dst.Agents = mergeAgents(dst.Agents, src.Agents)
	for k, v := range src.CustomSettings {
		if dst.CustomSettings == nil {
			dst.CustomSettings = make(map[string]any)
		}
		dst.CustomSettings[k] = v
	}
}

// mergeAgents replaces same-named entries in place and appends new ones.
func mergeAgents(dst, src []AgentConfig) []AgentConfig {
	for _, a := range src {
		replaced := false
		for i := range dst {
			if dst[i].Name == a.Name {
				dst[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, a)
		}
	}
	return dst
}
