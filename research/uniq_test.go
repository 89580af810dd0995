package research

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniquify(t *testing.T) {
	cases := map[string]*regexp.Regexp{
		"notes.md":       regexp.MustCompile(`^notes_[A-Za-z0-9_-]{8}\.md$`),
		"archive.tar.gz": regexp.MustCompile(`^archive\.tar_[A-Za-z0-9_-]{8}\.gz$`),
		"README":         regexp.MustCompile(`^README_[A-Za-z0-9_-]{8}$`),
	}
	for in, want := range cases {
		assert.Regexp(t, want, Uniquify(in), in)
	}
}

func TestUniquify_SameNameNeverCollides(t *testing.T) {
	seen := make(map[string]bool)
	for range 500 {
		name := Uniquify("search_result.md")
		assert.False(t, seen[name], name)
		seen[name] = true
	}
}
