package social

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostAssignsUniqueIDs(t *testing.T) {
	a := NewPost("Twitter/X", "t", "c", nil, "c", 280, "")
	b := NewPost("Twitter/X", "t", "c", nil, "c", 280, "")
	require.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewPostCountsRunes(t *testing.T) {
	copyText := "🚀 fastjson — schnëll"
	p := NewPost("Mastodon", "t", "c", nil, copyText, 500, "")
	assert.Equal(t, utf8.RuneCountInString(copyText), p.CharacterCount)
	assert.NotEqual(t, len(copyText), p.CharacterCount)
}

func TestRetextPreservesIdentity(t *testing.T) {
	orig := NewPost("LinkedIn", "old", "old content", []string{"#a"}, "old copy", 3000, "https://www.linkedin.com/feed/")
	got := orig.Retext("new", "new content", []string{"#b", "#c"}, "new copy")

	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.Platform, got.Platform)
	assert.Equal(t, orig.MaxCharacters, got.MaxCharacters)
	assert.Equal(t, orig.URL, got.URL)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "new content", got.Content)
	assert.Equal(t, []string{"#b", "#c"}, got.Hashtags)
	assert.Equal(t, "new copy", got.CopyText)
	assert.Equal(t, utf8.RuneCountInString("new copy"), got.CharacterCount)

	// Value receiver: the original is untouched.
	assert.Equal(t, "old", orig.Title)
}
