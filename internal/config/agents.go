package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned for an agent file that does not start with a
// "---" delimited YAML block.
var ErrNoFrontMatter = errors.New("config: missing front matter")

// LoadAgents scans directories for .md specialization files. Each file
// starts with YAML front matter (name, description, tools, model, maxTurns,
// maxBudgetUSD) and its body is the directive. The name defaults to the file
// name without extension. Later directories override earlier ones for the
// same name. Missing directories are skipped; a malformed file is an error.
// The result is sorted by name.
func LoadAgents(dirs ...string) ([]AgentConfig, error) {
	seen := make(map[string]AgentConfig)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			a, err := ParseAgent(data)
			if err != nil {
				return nil, fmt.Errorf("config: %s: %w", path, err)
			}
			if a.Name == "" {
				a.Name = strings.TrimSuffix(entry.Name(), ".md")
			}
			seen[a.Name] = a
		}
	}

	agents := make([]AgentConfig, 0, len(seen))
	for _, a := range seen {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents, nil
}

// ParseAgent parses one specialization file.
func ParseAgent(data []byte) (AgentConfig, error) {
	var a AgentConfig

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return a, ErrNoFrontMatter
	}
	rest := text[len("---\n"):]
	var front, body string
	if strings.HasPrefix(rest, "---") {
		body = rest[len("---"):]
	} else {
		end := strings.Index(rest, "\n---")
		if end < 0 {
			return a, ErrNoFrontMatter
		}
		front, body = rest[:end], rest[end+len("\n---"):]
	}

	dec := yaml.NewDecoder(strings.NewReader(front))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil && !errors.Is(err, io.EOF) {
		return a, fmt.Errorf("front matter: %w", err)
	}
	if directive := strings.TrimSpace(body); directive != "" {
		a.Directive = directive
	}
	return a, nil
}
