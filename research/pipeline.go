package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// URLErrorFilename is the file name of a result whose page could not be read.
	URLErrorFilename = "URL_error.md"

	// URLErrorSummary is stored when the page is unreadable and the provider
	// has no content of its own.
	URLErrorSummary = "Error reading URL; try another search."
)

// Document is a processed search result, ready to be stored.
type Document struct {
	URL        string
	Title      string
	Summary    string
	Filename   string
	RawContent string
}

// Pipeline searches, fetches and summarizes.
type Pipeline struct {
	provider    Provider
	fetcher     Fetcher
	summarizer  Summarizer
	uniquify    func(string) string
	concurrency int
	logger      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithUniquifier replaces Uniquify.
func WithUniquifier(fn func(string) string) Option {
	return func(p *Pipeline) { p.uniquify = fn }
}

// WithConcurrency limits how many results are processed at once. 0 means no
// limit.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) { p.concurrency = n }
}

// NewPipeline wires the three collaborators.
func NewPipeline(provider Provider, fetcher Fetcher, summarizer Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:   provider,
		fetcher:    fetcher,
		summarizer: summarizer,
		uniquify:   Uniquify,
		logger:     zap.NewNop(),
	}
	for _, fn := range opts {
		fn(p)
	}
	return p
}

// Search runs query against the provider and processes every hit. Documents
// come back in provider order. Only a provider failure is an error; fetch
// and summarize failures degrade the affected document.
func (p *Pipeline) Search(ctx context.Context, query string, maxResults int, topic Topic) ([]Document, error) {
	hits, err := p.provider.Search(ctx, query, maxResults, topic)
	if err != nil {
		return nil, fmt.Errorf("research: search %q: %w", query, err)
	}
	p.logger.Debug("search returned",
		zap.String("query", query),
		zap.Int("hits", len(hits)),
	)

	docs := make([]Document, len(hits))
	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	for i, hit := range hits {
		g.Go(func() error {
			docs[i] = p.process(ctx, hit)
			return nil
		})
	}
	_ = g.Wait()
	return docs, nil
}

func (p *Pipeline) process(ctx context.Context, hit Hit) Document {
	var (
		raw     string
		summary Summary
	)

	status, text, err := p.fetcher.Fetch(ctx, hit.URL)
	switch {
	case err == nil && status == 200:
		raw = text
		summary = p.summarizer.Summarize(ctx, text)
	default:
		fields := []zap.Field{zap.String("url", hit.URL), zap.Int("status", status)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		p.logger.Info("page unavailable, using provider content", fields...)

		raw = hit.RawContent
		content := hit.Content
		if content == "" {
			content = URLErrorSummary
		}
		summary = Summary{Filename: URLErrorFilename, Summary: content}
	}

	if summary.Filename == "" {
		summary.Filename = FallbackFilename
	}
	return Document{
		URL:        hit.URL,
		Title:      hit.Title,
		Summary:    summary.Summary,
		Filename:   p.uniquify(summary.Filename),
		RawContent: raw,
	}
}
