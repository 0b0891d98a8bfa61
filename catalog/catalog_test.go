package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformsCatalogIsWellFormed(t *testing.T) {
	all := Platforms()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, p := range all {
		assert.NotEmpty(t, p.Name)
		assert.False(t, seen[p.Name], "duplicate platform %s", p.Name)
		seen[p.Name] = true

		assert.Greater(t, p.MaxCharacters, 0, p.Name)
		assert.GreaterOrEqual(t, p.HashtagLimit, 0, p.Name)
		assert.NotEmpty(t, p.Categories, p.Name)
		assert.NotEmpty(t, p.URL, p.Name)

		if p.Community {
			parent, ok := Lookup(p.ParentPlatform)
			require.True(t, ok, "%s parent %q not in catalog", p.Name, p.ParentPlatform)
			assert.False(t, parent.Community, "%s parent is itself a community space", p.Name)
		}
	}
}

func TestPlatformsReturnsACopy(t *testing.T) {
	first := Platforms()
	first[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Platforms()[0].Name)
}

func TestLookup(t *testing.T) {
	spec, ok := Lookup("Twitter/X")
	require.True(t, ok)
	assert.Equal(t, 280, spec.MaxCharacters)
	assert.Equal(t, 3, spec.HashtagLimit)

	_, ok = Lookup("MySpace")
	assert.False(t, ok)

	// Lookup is exact, not case-folded.
	_, ok = Lookup("twitter/x")
	assert.False(t, ok)
}

func TestCommunityAllowLists(t *testing.T) {
	assert.True(t, AllowedXCommunity("GoLang"))
	assert.False(t, AllowedXCommunity("golang"))
	assert.False(t, AllowedXCommunity("MadeUp"))

	assert.True(t, AllowedRedditCommunity("r/golang"))
	assert.False(t, AllowedRedditCommunity("golang"))
	assert.False(t, AllowedRedditCommunity("r/madeup"))

	seenX := map[string]bool{}
	for _, name := range XCommunities {
		assert.False(t, seenX[name], "duplicate %s", name)
		seenX[name] = true
	}
	seenR := map[string]bool{}
	for _, name := range RedditCommunities {
		assert.True(t, len(name) > 2 && name[:2] == "r/", "subreddit %q missing r/ prefix", name)
		assert.False(t, seenR[name], "duplicate %s", name)
		seenR[name] = true
	}
}
