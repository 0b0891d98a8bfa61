package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/logger"
)

func TestResolvePlatformsDefaultsToNonCommunity(t *testing.T) {
	specs, err := resolvePlatforms(nil)
	require.NoError(t, err)
	require.NotEmpty(t, specs)
	for _, s := range specs {
		assert.False(t, s.Community, s.Name)
	}
}

func TestResolvePlatformsMatchesCaseInsensitively(t *testing.T) {
	specs, err := resolvePlatforms([]string{"twitter/x", " Hacker News "})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "Twitter/X", specs[0].Name)
	assert.Equal(t, "Hacker News", specs[1].Name)
}

func TestResolvePlatformsPreservesRequestOrder(t *testing.T) {
	specs, err := resolvePlatforms([]string{"Mastodon", "LinkedIn", "Twitter/X"})
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, "Mastodon", specs[0].Name)
	assert.Equal(t, "LinkedIn", specs[1].Name)
	assert.Equal(t, "Twitter/X", specs[2].Name)
}

func TestResolvePlatformsUnknownName(t *testing.T) {
	_, err := resolvePlatforms([]string{"Twitter/X", "MySpace"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MySpace")
	assert.Contains(t, err.Error(), "postforge platforms")
}

func TestPublisherDeliversStepsAndErrors(t *testing.T) {
	pub := NewCliStepPublisher(logger.NewNullLogger())

	pub.PublishStep(AnalyzeProject)
	pub.PublishStep(GeneratePosts)
	assert.Equal(t, AnalyzeProject, <-pub.stepChan)
	assert.Equal(t, GeneratePosts, <-pub.stepChan)

	wantErr := errors.New("boom")
	pub.Error(SaveSession, wantErr)
	assert.Equal(t, wantErr, <-pub.errorChan)
}
