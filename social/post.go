// Package social defines the post and recommendation types produced by the
// generation layer and stored in the local session.
package social

import (
	"crypto/rand"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// Post is one ready-to-publish social media post for a single platform.
//
// CopyText is the complete paste-ready string (content plus hashtags).
// CharacterCount always equals the rune length of CopyText; every code path
// that constructs or rewrites a post goes through NewPost or Retext so the
// two can never drift apart.
type Post struct {
	ID             string   `json:"id"`
	Platform       string   `json:"platform"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Hashtags       []string `json:"hashtags"`
	CharacterCount int      `json:"characterCount"`
	MaxCharacters  int      `json:"maxCharacters"`
	URL            string   `json:"url"`
	CopyText       string   `json:"copyText"`
}

// NewPost builds a post with a fresh ULID id and a consistent CharacterCount.
func NewPost(platform, title, content string, hashtags []string, copyText string, maxCharacters int, url string) Post {
	return Post{
		ID:             ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Platform:       platform,
		Title:          title,
		Content:        content,
		Hashtags:       hashtags,
		CharacterCount: utf8.RuneCountInString(copyText),
		MaxCharacters:  maxCharacters,
		URL:            url,
		CopyText:       copyText,
	}
}

// Retext returns a copy of p with new content-bearing fields. ID, Platform,
// MaxCharacters and URL are preserved; CharacterCount is recomputed.
func (p Post) Retext(title, content string, hashtags []string, copyText string) Post {
	p.Title = title
	p.Content = content
	p.Hashtags = hashtags
	p.CopyText = copyText
	p.CharacterCount = utf8.RuneCountInString(copyText)
	return p
}

// Recommendation holds community suggestions for a project, one list per
// side. Both lists are bounded to five entries and only ever contain names
// from the shared catalog allow-lists.
type Recommendation struct {
	XCommunities      []string `json:"xCommunities"`
	RedditCommunities []string `json:"redditCommunities"`
}
