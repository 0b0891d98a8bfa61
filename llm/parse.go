package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Model responses are untrusted text: the JSON object we asked for is
// usually wrapped in prose, markdown fences or both. extractJSONObject finds
// the first balanced brace-delimited substring; the decode helpers then
// validate the payload shape strictly so recovery can branch on a plain
// error instead of a panic.

type postPayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
	CopyText string   `json:"copyText"`
}

type groupPostPayload struct {
	Platform string   `json:"platform"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
	CopyText string   `json:"copyText"`
}

type groupPayload struct {
	Posts []groupPostPayload `json:"posts"`
}

type communitiesPayload struct {
	X         []string `json:"x"`
	Reddit    []string `json:"reddit"`
	Reasoning string   `json:"reasoning"`
}

// extractJSONObject returns the first brace-balanced JSON object embedded in
// s. String literals and escape sequences are respected so braces inside
// generated post content do not break the scan.
func extractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in response")
}

func decodeSinglePost(raw string) (postPayload, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return postPayload{}, err
	}
	var p postPayload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return postPayload{}, fmt.Errorf("error parsing post JSON: %w", err)
	}
	if p.Content == "" && p.CopyText == "" {
		return postPayload{}, fmt.Errorf("post JSON missing content")
	}
	return p, nil
}

// decodeGroupPosts returns whatever post entries the grouped response
// carries, in response order. The entries map positionally onto the
// requested platforms; the caller decides per entry whether it is usable and
// retries the platforms that are not.
func decodeGroupPosts(raw string) ([]groupPostPayload, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var g groupPayload
	if err := json.Unmarshal([]byte(obj), &g); err != nil {
		return nil, fmt.Errorf("error parsing grouped posts JSON: %w", err)
	}
	if len(g.Posts) == 0 {
		return nil, fmt.Errorf("grouped response contained no posts")
	}
	return g.Posts, nil
}

func decodeCommunities(raw string) (communitiesPayload, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return communitiesPayload{}, err
	}
	var c communitiesPayload
	if err := json.Unmarshal([]byte(obj), &c); err != nil {
		return communitiesPayload{}, fmt.Errorf("error parsing communities JSON: %w", err)
	}
	if len(c.X) == 0 && len(c.Reddit) == 0 {
		return communitiesPayload{}, fmt.Errorf("communities JSON contained no candidates")
	}
	return c, nil
}
