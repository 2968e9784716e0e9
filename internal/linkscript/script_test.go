package linkscript

import (
	"errors"
	"testing"
	"time"

	"github.com/flarebyte/clustermap/internal/classification"
	"github.com/flarebyte/clustermap/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var article = classification.Object{ID: "7", Name: "Click to View Article", Location: "7"}

func link(t *testing.T, code string, classes ...string) (render.Link, error) {
	t.Helper()
	s, err := Compile(code, Options{})
	require.NoError(t, err)
	defer s.Close()
	return s.Link(article, classes)
}

func TestLink_Results(t *testing.T) {
	tests := []struct {
		name string
		code string
		want render.Link
	}{
		{
			name: "expression string",
			code: "'/article/' .. id",
			want: render.Link{Href: "/article/7", Title: "Click to View Article"},
		},
		{
			name: "expression mentioning return",
			code: "'/returns/' .. id",
			want: render.Link{Href: "/returns/7", Title: "Click to View Article"},
		},
		{
			name: "statements",
			code: "local base = '/r/'\nreturn base .. id",
			want: render.Link{Href: "/r/7", Title: "Click to View Article"},
		},
		{
			name: "table",
			code: "return { href = '/a/' .. location, title = 'Article ' .. id }",
			want: render.Link{Href: "/a/7", Title: "Article 7"},
		},
		{
			name: "partial table keeps defaults",
			code: "return { title = string.upper(name) }",
			want: render.Link{Href: "7", Title: "CLICK TO VIEW ARTICLE"},
		},
		{
			name: "number href is converted",
			code: "return { href = 40 + 2 }",
			want: render.Link{Href: "42", Title: "Click to View Article"},
		},
		{
			name: "nil keeps defaults",
			code: "return nil",
			want: render.Link{Href: "7", Title: "Click to View Article"},
		},
		{
			name: "classes are visible",
			code: "return { title = table.concat(classes, '+') }",
			want: render.Link{Href: "7", Title: "aap+noot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := link(t, tt.code, "aap", "noot")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLink_ReusedAcrossObjects(t *testing.T) {
	s, err := Compile("return '/o/' .. id .. '/' .. #classes", Options{})
	require.NoError(t, err)
	defer s.Close()

	a, err := s.Link(classification.Object{ID: "1"}, []string{"x"})
	require.NoError(t, err)
	b, err := s.Link(classification.Object{ID: "2"}, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "/o/1/1", a.Href)
	assert.Equal(t, "/o/2/2", b.Href)
}

func TestLink_Errors(t *testing.T) {
	_, err := link(t, "return true")
	assert.ErrorContains(t, err, "want string or table")

	_, err = link(t, "return { 1, 2 }")
	assert.Error(t, err)

	_, err = link(t, "error('nope')")
	assert.ErrorContains(t, err, "nope")

	_, err = link(t, "return dofile('/etc/passwd')")
	assert.Error(t, err, "file access is not available")
}

func TestLink_Timeout(t *testing.T) {
	s, err := Compile("while true do end return 'x'", Options{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Link(article, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestLink_RegistryIsBounded(t *testing.T) {
	s, err := Compile("local t = {} for i = 1, 100000 do t[i] = i end return unpack(t)", Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Link(article, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestLink_DeterministicRandom(t *testing.T) {
	a, err := link(t, "return tostring(math.random(1000))")
	require.NoError(t, err)
	b, err := link(t, "return tostring(math.random(1000))")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("   ", Options{})
	assert.Error(t, err)

	_, err = Compile("return {", Options{})
	assert.ErrorContains(t, err, "compile link script")
}
