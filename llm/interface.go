// Package llm contains the content-generation core: a shared orchestration
// engine that groups platforms, fans out model calls, parses semi-structured
// responses and degrades to deterministic fallbacks, plus thin adapters for
// the supported model providers.
package llm

import (
	"context"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

// Generator is the capability set every provider adapter supports.
//
// GenerateSocialPosts, ModifySocialPosts and FindRelevantCommunities always
// return a structurally complete result under normal network conditions;
// model failures are absorbed into deterministic fallbacks instead of being
// surfaced. GeneratePlatformPost is the direct single-platform path and may
// return transport errors for the caller to handle.
type Generator interface {
	// GenerateSocialPosts returns exactly one post per requested platform,
	// in input order. customInstructions is optional free text appended to
	// every generation prompt.
	GenerateSocialPosts(ctx context.Context, proj *project.Descriptor, platforms []catalog.PlatformSpec, customInstructions string) ([]social.Post, error)

	// GeneratePlatformPost generates a post for a single platform. Unlike
	// the grouped entry point it propagates transport errors; parse
	// failures and quota exhaustion still degrade to a fallback post.
	GeneratePlatformPost(ctx context.Context, proj *project.Descriptor, platform catalog.PlatformSpec, customInstructions string) (social.Post, error)

	// ModifySocialPosts rewrites the given posts per the instruction. The
	// output has the same length, ids, platforms and character ceilings as
	// the input; a post whose rewrite fails is returned unchanged. Callers
	// must not pass a blank instruction.
	ModifySocialPosts(ctx context.Context, proj *project.Descriptor, posts []social.Post, instruction string) ([]social.Post, error)

	// FindRelevantCommunities suggests up to five X communities and five
	// subreddits for the project, always drawn from the catalog
	// allow-lists. It never fails; on any model or parse error the
	// rule-based recommender supplies the result.
	FindRelevantCommunities(ctx context.Context, proj *project.Descriptor) (social.Recommendation, error)

	// QuotaExhausted reports whether this adapter instance has hit a quota
	// or rate-limit condition and is now serving fallback content.
	QuotaExhausted() bool
}

// completer is the provider-specific model-call primitive: send one prompt,
// get raw response text back.
type completer func(ctx context.Context, prompt string) (string, error)
