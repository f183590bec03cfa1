package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation", "My Page!!", "my-page"},
		{"leading and trailing hyphens", "--Leading--", "leading"},
		{"simple", "Hello World", "hello-world"},
		{"mixed separators", "a  _-_  b", "a-b"},
		{"digits kept", "Chapter 12: Part 3", "chapter-12-part-3"},
		{"non-ascii collapsed", "Café Olé", "caf-ol"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Shape(t *testing.T) {
	inputs := []string{
		"  spaced  out  ", "--", "a--b", "-x-", "UPPER case", "tabs\tand\nnewlines",
		"ümlaut über", "100% legit!", "___", "a-", "-a",
	}

	for _, in := range inputs {
		got := Slugify(in)
		assert.False(t, strings.HasPrefix(got, "-"), "leading hyphen in %q -> %q", in, got)
		assert.False(t, strings.HasSuffix(got, "-"), "trailing hyphen in %q -> %q", in, got)
		assert.NotContains(t, got, "--", "double hyphen in %q -> %q", in, got)
		assert.Equal(t, got, Slugify(in), "not deterministic for %q", in)
		assert.Equal(t, got, Slugify(got), "not idempotent for %q", in)
	}
}
