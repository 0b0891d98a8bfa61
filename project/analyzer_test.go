package project

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReadme = `# fastjson

A fast JSON parser for Rust.

## Features

- SIMD-accelerated parsing on x86_64
- **Zero-copy** string handling
- tiny
- No unsafe code in the public API
`

func newGithubStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/fastjson", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{
			"name": "fastjson",
			"full_name": "acme/fastjson",
			"html_url": "https://github.com/acme/fastjson",
			"description": "A fast JSON parsing library",
			"stargazers_count": 1200,
			"forks_count": 80,
			"language": "Rust",
			"topics": ["json", "parser"],
			"owner": {"login": "acme", "avatar_url": "https://avatars.example/acme"}
		}`)
	})
	mux.HandleFunc("/repos/acme/fastjson/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Rust": 90000, "C": 5000, "Shell": 100}`)
	})
	mux.HandleFunc("/repos/acme/fastjson/readme", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, base64.StdEncoding.EncodeToString([]byte(testReadme)))
	})
	mux.HandleFunc("/repos/acme/private", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAnalyze(t *testing.T) {
	server := newGithubStub(t)
	a := NewAnalyzerWithBase(server.URL, server.Client())

	d, err := a.Analyze(context.Background(), "https://github.com/acme/fastjson")
	require.NoError(t, err)

	assert.Equal(t, "fastjson", d.Name)
	assert.Equal(t, "acme", d.Owner)
	assert.Equal(t, "https://github.com/acme/fastjson", d.URL)
	assert.Equal(t, "A fast JSON parsing library", d.Description)
	assert.Equal(t, 1200, d.Stars)
	assert.Equal(t, 80, d.Forks)
	assert.Equal(t, "Rust", d.Language)
	assert.Equal(t, []string{"json", "parser"}, d.Topics)
	assert.Equal(t, []string{"Rust", "C", "Shell"}, d.TechStack)
	assert.Equal(t, "library", d.ProjectType)
	assert.Contains(t, d.Readme, "SIMD-accelerated")

	// Feature bullets, markdown stripped, too-short ones dropped.
	assert.Equal(t, []string{
		"SIMD-accelerated parsing on x86_64",
		"Zero-copy string handling",
		"No unsafe code in the public API",
	}, d.KeyFeatures)
}

func TestAnalyzeMissingReadmeAndLanguagesIsFine(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/bare", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "bare", "html_url": "https://github.com/acme/bare", "owner": {"login": "acme"}}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	a := NewAnalyzerWithBase(server.URL, server.Client())
	d, err := a.Analyze(context.Background(), "acme/bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", d.Name)
	assert.Empty(t, d.TechStack)
	assert.Empty(t, d.Readme)
	assert.Equal(t, "software project", d.ProjectType)
}

func TestAnalyzeNotFound(t *testing.T) {
	server := newGithubStub(t)
	a := NewAnalyzerWithBase(server.URL, server.Client())

	_, err := a.Analyze(context.Background(), "https://github.com/acme/ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyzeAccessDenied(t *testing.T) {
	server := newGithubStub(t)
	a := NewAnalyzerWithBase(server.URL, server.Client())

	_, err := a.Analyze(context.Background(), "https://github.com/acme/private")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAnalyzeInvalidURL(t *testing.T) {
	a := NewAnalyzerWithBase("http://127.0.0.1:0", nil)
	for _, raw := range []string{
		"",
		"https://gitlab.com/acme/fastjson",
		"https://github.com/acme",
		"not a url at all",
	} {
		_, err := a.Analyze(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		raw   string
		owner string
		repo  string
	}{
		{"https://github.com/acme/fastjson", "acme", "fastjson"},
		{"https://github.com/acme/fastjson.git", "acme", "fastjson"},
		{"https://github.com/acme/fastjson/tree/main/src", "acme", "fastjson"},
		{"https://www.github.com/acme/fastjson", "acme", "fastjson"},
		{"github.com/acme/fastjson", "acme", "fastjson"},
		{"acme/fastjson", "acme", "fastjson"},
	}
	for _, tc := range tests {
		owner, repo, err := parseRepoURL(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.owner, owner, tc.raw)
		assert.Equal(t, tc.repo, repo, tc.raw)
	}
}

func TestInferProjectType(t *testing.T) {
	assert.Equal(t, "CLI tool", inferProjectType(&Descriptor{Description: "A command-line helper"}))
	assert.Equal(t, "library", inferProjectType(&Descriptor{Topics: []string{"sdk"}}))
	assert.Equal(t, "AI/ML project", inferProjectType(&Descriptor{Description: "deep learning toolkit"}))
	assert.Equal(t, "software project", inferProjectType(&Descriptor{Description: "something else"}))
}
