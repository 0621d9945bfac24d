package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		match   bool
	}{
		{"restaurant:*", "restaurant:1", true},
		{"restaurant:*", "restaurant:", true},
		{"restaurant:*", "hybrid:restaurant:1", false},
		{"restaurant:*", "menu-category:1", false},
		{"ns:*:1", "ns:promotion:1", true},
		{"menu-item:?", "menu-item:7", true},
		{"menu-item:?", "menu-item:17", false},
		{"blog-post:[ab]*", "blog-post:alpha", true},
		{"blog-post:[ab]*", "blog-post:gamma", false},
		{"blog-post:[^a]*", "blog-post:gamma", true},
		{"search:a.b", "search:aXb", false},
		{`search:\*`, "search:*", true},
		{`search:\*`, "search:x", false},
		{"search:[", "search:[", true},
		{"search:(x)+", "search:(x)+", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.key, func(t *testing.T) {
			re, err := compileGlob(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.key))
		})
	}
}
