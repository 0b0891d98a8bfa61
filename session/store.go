// Package session persists the current working session: the analyzed
// project, the selected platforms and the generated posts, as one local
// record. The generation core never touches this package; callers pass its
// results in.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

// ErrNoSession is returned by Load when no session has been saved yet.
var ErrNoSession = errors.New("no saved session")

// ErrPostNotFound is returned by UpdatePost for an unknown post id.
var ErrPostNotFound = errors.New("post not found in session")

// Data is the single session record.
type Data struct {
	Project           *project.Descriptor `json:"project,omitempty"`
	SelectedPlatforms []string            `json:"selectedPlatforms,omitempty"`
	Posts             []social.Post       `json:"posts,omitempty"`
	SavedAt           time.Time           `json:"savedAt"`
}

// PostPatch carries a partial update for one post. Nil fields are left
// unchanged. CharacterCount is recomputed whenever CopyText changes.
type PostPatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Hashtags *[]string `json:"hashtags,omitempty"`
	CopyText *string   `json:"copyText,omitempty"`
}

// Store is the persistence surface the CLI works against.
type Store interface {
	SaveProject(proj *project.Descriptor) error
	SaveSelectedPlatforms(names []string) error
	SavePosts(posts []social.Post) error
	UpdatePost(id string, patch PostPatch) error
	Load() (*Data, error)
	Delete() error
}

// FileStore keeps the session record as one JSON file. Every mutation is a
// full read-modify-write; nothing is held open between calls.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Load() (*Data, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("error checking session file: %w", err)
	}
	if !exists {
		return nil, ErrNoSession
	}
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("error reading session file: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing session file: %w", err)
	}
	return &data, nil
}

func (s *FileStore) Delete() error {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("error checking session file: %w", err)
	}
	if !exists {
		return nil
	}
	return s.fs.Remove(s.path)
}

func (s *FileStore) SaveProject(proj *project.Descriptor) error {
	return s.update(func(data *Data) error {
		data.Project = proj
		return nil
	})
}

func (s *FileStore) SaveSelectedPlatforms(names []string) error {
	return s.update(func(data *Data) error {
		data.SelectedPlatforms = names
		return nil
	})
}

func (s *FileStore) SavePosts(posts []social.Post) error {
	return s.update(func(data *Data) error {
		data.Posts = posts
		return nil
	})
}

func (s *FileStore) UpdatePost(id string, patch PostPatch) error {
	return s.update(func(data *Data) error {
		for i := range data.Posts {
			if data.Posts[i].ID != id {
				continue
			}
			p := &data.Posts[i]
			title, content, hashtags, copyText := p.Title, p.Content, p.Hashtags, p.CopyText
			if patch.Title != nil {
				title = *patch.Title
			}
			if patch.Content != nil {
				content = *patch.Content
			}
			if patch.Hashtags != nil {
				hashtags = *patch.Hashtags
			}
			if patch.CopyText != nil {
				copyText = *patch.CopyText
			}
			data.Posts[i] = p.Retext(title, content, hashtags, copyText)
			return nil
		}
		return fmt.Errorf("%w: %s", ErrPostNotFound, id)
	})
}

func (s *FileStore) update(mutate func(*Data) error) error {
	data, err := s.Load()
	if errors.Is(err, ErrNoSession) {
		data = &Data{}
	} else if err != nil {
		return err
	}

	if err := mutate(data); err != nil {
		return err
	}
	data.SavedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating session directory: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, raw, 0644); err != nil {
		return fmt.Errorf("error writing session file: %w", err)
	}
	return nil
}
