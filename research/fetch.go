package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxFetchBytes = 512_000

// Fetcher reads a page. A non-200 status is reported, not returned as an
// error; callers treat it as unavailable.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, text string, err error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (int, string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (int, string, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches pages over HTTP and renders HTML as markdown-like text.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher with a 30 second timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: fetchTimeout},
		UserAgent: "deepagents-go/1.0",
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("research: build request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("research: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("research: read %s: %w", url, err)
	}

	if len(body) == maxFetchBytes {
		body = trimPartialRune(body)
	}
	text := string(body)
	if isHTML(resp.Header.Get("Content-Type"), text) {
		text = HTMLToText(text)
	}
	return resp.StatusCode, text, nil
}

// trimPartialRune drops a multi-byte sequence cut short at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}
		break
	}
	return b
}

var _ Fetcher = (*HTTPFetcher)(nil)

func isHTML(contentType, body string) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	if contentType != "" {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// HTMLToText converts an HTML document to markdown-like plain text. Headings
// become "#" lines, list items become "- " lines, links keep their target,
// and script and style content is dropped.
func HTMLToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}
	var b strings.Builder
	renderNode(&b, doc)

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(n.Data))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Head, atom.Svg, atom.Iframe:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			b.WriteString("\n\n" + strings.Repeat("#", level) + " ")
			renderChildren(b, n)
			b.WriteString("\n\n")
			return
		case atom.Li:
			b.WriteString("\n- ")
			renderChildren(b, n)
			b.WriteByte('\n')
			return
		case atom.A:
			var inner strings.Builder
			renderChildren(&inner, n)
			text := strings.TrimSpace(inner.String())
			href := attr(n, "href")
			if href == "" || text == "" || strings.HasPrefix(href, "#") {
				b.WriteString(text)
			} else {
				fmt.Fprintf(b, "[%s](%s)", text, href)
			}
			return
		case atom.P, atom.Div, atom.Section, atom.Article, atom.Table, atom.Tr, atom.Ul, atom.Ol, atom.Pre, atom.Blockquote:
			b.WriteString("\n\n")
			renderChildren(b, n)
			b.WriteString("\n\n")
			return
		}
	}
	renderChildren(b, n)
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if first := s[0]; first == ' ' || first == '\n' || first == '\t' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}
