package session

import (
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

func newTestStore() *FileStore {
	return NewFileStore(afero.NewMemMapFs(), "/home/test/.postforge/session.json")
}

func TestLoadWithoutSession(t *testing.T) {
	store := newTestStore()
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore()

	proj := &project.Descriptor{Name: "fastjson", URL: "https://github.com/acme/fastjson", Language: "Rust"}
	require.NoError(t, store.SaveProject(proj))
	require.NoError(t, store.SaveSelectedPlatforms([]string{"Twitter/X", "Hacker News"}))

	posts := []social.Post{
		social.NewPost("Twitter/X", "t", "c", []string{"#rust"}, "c #rust", 280, ""),
	}
	require.NoError(t, store.SavePosts(posts))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fastjson", data.Project.Name)
	assert.Equal(t, []string{"Twitter/X", "Hacker News"}, data.SelectedPlatforms)
	require.Len(t, data.Posts, 1)
	assert.Equal(t, posts[0].ID, data.Posts[0].ID)
	assert.False(t, data.SavedAt.IsZero())
}

func TestSavePartsAccumulate(t *testing.T) {
	store := newTestStore()

	require.NoError(t, store.SaveProject(&project.Descriptor{Name: "fastjson"}))
	require.NoError(t, store.SavePosts([]social.Post{social.NewPost("Mastodon", "t", "c", nil, "c", 500, "")}))

	// Saving posts must not clobber the previously saved project.
	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fastjson", data.Project.Name)
	assert.Len(t, data.Posts, 1)
}

func TestUpdatePostAppliesPatch(t *testing.T) {
	store := newTestStore()
	post := social.NewPost("Twitter/X", "old title", "old content", []string{"#a"}, "old copy", 280, "")
	require.NoError(t, store.SavePosts([]social.Post{post}))

	newCopy := "a fresh 🚀 copy"
	newTitle := "new title"
	require.NoError(t, store.UpdatePost(post.ID, PostPatch{Title: &newTitle, CopyText: &newCopy}))

	data, err := store.Load()
	require.NoError(t, err)
	got := data.Posts[0]
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, newCopy, got.CopyText)
	assert.Equal(t, utf8.RuneCountInString(newCopy), got.CharacterCount)
	// Unpatched fields survive.
	assert.Equal(t, "old content", got.Content)
	assert.Equal(t, []string{"#a"}, got.Hashtags)
	assert.Equal(t, 280, got.MaxCharacters)
}

func TestUpdatePostUnknownID(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.SavePosts([]social.Post{social.NewPost("Twitter/X", "t", "c", nil, "c", 280, "")}))

	title := "x"
	err := store.UpdatePost("01ZZZZZZZZZZZZZZZZZZZZZZZZ", PostPatch{Title: &title})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.SaveProject(&project.Descriptor{Name: "fastjson"}))
	require.NoError(t, store.Delete())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Deleting a missing session is not an error.
	assert.NoError(t, store.Delete())
}
