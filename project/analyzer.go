package project

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	defaultAPIBase   = "https://api.github.com"
	readmeMaxRunes   = 2000
	maxKeyFeatures   = 5
	requestUserAgent = "postforge"
)

var (
	ErrInvalidURL   = errors.New("invalid repository URL")
	ErrNotFound     = errors.New("repository not found")
	ErrAccessDenied = errors.New("repository access denied")
)

// Analyzer is a read-only GitHub API client.
type Analyzer struct {
	httpClient *http.Client
	apiBase    string
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    defaultAPIBase,
	}
}

// NewAnalyzerWithBase is used by tests to point the client at a fake server.
func NewAnalyzerWithBase(apiBase string, client *http.Client) *Analyzer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Analyzer{httpClient: client, apiBase: apiBase}
}

type repoResponse struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	HTMLURL     string   `json:"html_url"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Owner       struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"owner"`
}

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Analyze fetches repository metadata, languages and README for a public
// GitHub URL and returns the normalized descriptor.
func (a *Analyzer) Analyze(ctx context.Context, repoURL string) (*Descriptor, error) {
	owner, repo, err := parseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	var repoData repoResponse
	if err := a.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", a.apiBase, owner, repo), &repoData); err != nil {
		return nil, err
	}

	// Languages and README are best-effort; the repo metadata alone is
	// enough to generate posts.
	languages := a.fetchLanguages(ctx, owner, repo)
	readme := a.fetchReadme(ctx, owner, repo)

	d := &Descriptor{
		Name:        repoData.Name,
		URL:         repoData.HTMLURL,
		Owner:       repoData.Owner.Login,
		AvatarURL:   repoData.Owner.AvatarURL,
		Description: repoData.Description,
		Readme:      truncateRunes(readme, readmeMaxRunes),
		Topics:      repoData.Topics,
		Stars:       repoData.Stars,
		Forks:       repoData.Forks,
		Language:    repoData.Language,
		TechStack:   languages,
	}
	d.ProjectType = inferProjectType(d)
	d.KeyFeatures = inferKeyFeatures(readme)
	return d, nil
}

func (a *Analyzer) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", requestUserAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error reaching GitHub: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAccessDenied
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub API request failed with status %s: %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding GitHub response: %w", err)
	}
	return nil
}

func (a *Analyzer) fetchLanguages(ctx context.Context, owner, repo string) []string {
	var byBytes map[string]int
	if err := a.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/languages", a.apiBase, owner, repo), &byBytes); err != nil {
		return nil
	}
	langs := make([]string, 0, len(byBytes))
	for l := range byBytes {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return byBytes[langs[i]] > byBytes[langs[j]] })
	return langs
}

func (a *Analyzer) fetchReadme(ctx context.Context, owner, repo string) string {
	var rr readmeResponse
	if err := a.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/readme", a.apiBase, owner, repo), &rr); err != nil {
		return ""
	}
	if rr.Encoding != "base64" {
		return rr.Content
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(rr.Content, "\n", ""))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// parseRepoURL accepts https://github.com/{owner}/{repo} (with optional extra
// path segments, .git suffix, or a bare owner/repo pair).
func parseRepoURL(raw string) (owner, repo string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", ErrInvalidURL
	}

	path := raw
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "github.com/") {
		u, parseErr := url.Parse(raw)
		if parseErr != nil {
			return "", "", ErrInvalidURL
		}
		if u.Host != "" && u.Host != "github.com" && u.Host != "www.github.com" {
			return "", "", ErrInvalidURL
		}
		path = u.Path
		path = strings.TrimPrefix(path, "github.com/")
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidURL
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

var projectTypeKeywords = []struct {
	label    string
	keywords []string
}{
	{"CLI tool", []string{"cli", "command-line", "command line", "terminal"}},
	{"library", []string{"library", "sdk", "framework", "package"}},
	{"web application", []string{"web app", "webapp", "website", "frontend", "dashboard"}},
	{"API service", []string{"api", "server", "backend", "microservice"}},
	{"mobile app", []string{"android", "ios", "mobile", "flutter", "react native"}},
	{"AI/ML project", []string{"machine learning", "deep learning", "llm", " ai ", "neural"}},
	{"game", []string{"game", "engine"}},
	{"developer tool", []string{"tool", "plugin", "extension", "linter", "formatter"}},
}

func inferProjectType(d *Descriptor) string {
	haystack := strings.ToLower(" " + d.Description + " " + strings.Join(d.Topics, " ") + " ")
	for _, pt := range projectTypeKeywords {
		for _, kw := range pt.keywords {
			if strings.Contains(haystack, kw) {
				return pt.label
			}
		}
	}
	return "software project"
}

// inferKeyFeatures pulls the first few top-level bullet points out of the
// README, which is where most projects list their feature set.
func inferKeyFeatures(readme string) []string {
	var features []string
	for _, line := range strings.Split(readme, "\n") {
		trimmed := strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(trimmed, "- "):
			item = strings.TrimPrefix(trimmed, "- ")
		case strings.HasPrefix(trimmed, "* "):
			item = strings.TrimPrefix(trimmed, "* ")
		default:
			continue
		}
		item = strings.TrimSpace(stripMarkdown(item))
		if len(item) < 8 || len(item) > 120 {
			continue
		}
		features = append(features, item)
		if len(features) == maxKeyFeatures {
			break
		}
	}
	return features
}

func stripMarkdown(s string) string {
	replacer := strings.NewReplacer("**", "", "__", "", "`", "", "*", "", "_", "")
	return replacer.Replace(s)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
