package research

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	agent "github.com/armatrix/deepagents-go"
)

const (
	// FallbackFilename is the file name of a degraded summary.
	FallbackFilename = "search_result.md"

	// FallbackSummaryRunes caps the text kept by a degraded summary.
	FallbackSummaryRunes = 1000

	summaryToolName = "record_summary"
)

// Summary is a condensed page and the file name to store it under.
type Summary struct {
	Filename string `json:"filename" jsonschema:"required,description=Name of the file to store."`
	Summary  string `json:"summary" jsonschema:"required,description=Key learnings from the webpage."`
}

// Summarizer condenses page text. It never fails: implementations return a
// degraded Summary instead.
type Summarizer interface {
	Summarize(ctx context.Context, content string) Summary
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, content string) Summary

// Summarize calls f.
func (f SummarizerFunc) Summarize(ctx context.Context, content string) Summary {
	return f(ctx, content)
}

// FallbackSummary keeps at most the first FallbackSummaryRunes runes of
// content under FallbackFilename.
// The summary is always a byte prefix of content, even for invalid UTF-8.
func FallbackSummary(content string) Summary {
	return Summary{Filename: FallbackFilename, Summary: prefixRunes(content, FallbackSummaryRunes)}
}

// prefixRunes returns the leading n runes of s as a slice of s. Invalid
// bytes count as one rune each and are kept as is.
func prefixRunes(s string, n int) string {
	off := 0
	for range n {
		if off >= len(s) {
			return s
		}
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return s[:off]
}

// ModelSummarizer asks a model for a structured summary.
type ModelSummarizer struct {
	model  *agent.Model
	format agent.OutputFormat
	now    func() time.Time
	logger *zap.Logger
}

// NewModelSummarizer creates a summarizer over m.
func NewModelSummarizer(m *agent.Model, logger *zap.Logger) *ModelSummarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelSummarizer{
		model:  m,
		format: agent.NewOutputFormatType[Summary](summaryToolName),
		now:    time.Now,
		logger: logger,
	}
}

// Summarize implements Summarizer. Any model failure, or a reply with an
// empty summary, yields FallbackSummary(content).
func (s *ModelSummarizer) Summarize(ctx context.Context, content string) Summary {
	prompt := fmt.Sprintf(summarizePrompt, content, Today(s.now()))
	out, err := agent.Structured[Summary](ctx, s.model, s.format, "", prompt)
	if err != nil {
		s.logger.Warn("summarize failed, using fallback", zap.Error(err))
		return FallbackSummary(content)
	}
	if out.Summary == "" {
		s.logger.Warn("summarize returned empty summary, using fallback")
		return FallbackSummary(content)
	}
	if out.Filename == "" {
		out.Filename = FallbackFilename
	}
	return *out
}

var _ Summarizer = (*ModelSummarizer)(nil)

// Today renders t the way stored search results are dated.
func Today(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}

const summarizePrompt = `You are creating a concise summary of a webpage so that it can be filed away and consulted later during research.

<webpage_content>
%s
</webpage_content>

Write a summary that:
1. Captures the main topic and purpose of the page.
2. Keeps the key facts, figures, names and dates.
3. Preserves important quotes from credible sources.
4. Stays in chronological order for news or time-sensitive content.
5. Is about 25 to 30 percent of the original length.

Also propose a short, descriptive file name ending in .md (for example "ai_chip_export_rules.md").

Today's date is %s.`
