package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

const (
	defaultRequestTimeout = 60 * time.Second
	maxCommunities        = 5
)

// engine is the shared orchestration core behind every provider adapter.
// Adapters differ only in the completer they plug in and whether a call
// limiter is attached; grouping, fan-out, parsing and fallback behavior are
// identical across providers.
type engine struct {
	provider string
	complete completer
	limiter  *callLimiter
	timeout  time.Duration
	logger   logger.Logger
	closer   func() error

	mu       sync.Mutex
	quotaHit bool
}

// Close releases any provider resources. Safe to call on every adapter.
func (e *engine) Close() error {
	if e.closer != nil {
		return e.closer()
	}
	return nil
}

func newEngine(provider string, complete completer, limiter *callLimiter, timeout time.Duration, log logger.Logger) *engine {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &engine{
		provider: provider,
		complete: complete,
		limiter:  limiter,
		timeout:  timeout,
		logger:   log,
	}
}

// call is the single funnel for model traffic: budget gate, per-call
// timeout, then the provider primitive.
func (e *engine) call(ctx context.Context, prompt string) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.acquire(ctx); err != nil {
			return "", err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.complete(ctx, prompt)
}

// skipModel reports whether the session should go straight to fallback
// without attempting a call.
func (e *engine) skipModel() bool {
	if e.limiter != nil && e.limiter.exhausted() {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quotaHit
}

func (e *engine) markQuotaHit() {
	e.mu.Lock()
	e.quotaHit = true
	e.mu.Unlock()
	if e.limiter != nil {
		e.limiter.drain()
	}
	e.logger.WithField("provider", e.provider).Warn("Model quota exhausted, serving fallback content for the rest of the session")
}

func (e *engine) QuotaExhausted() bool {
	return e.skipModel()
}

var quotaMarkers = []string{
	"quota",
	"rate limit",
	"rate_limit",
	"rate limited",
	"resource_exhausted",
	"resource exhausted",
	"too many requests",
	"429",
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errBudgetExhausted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isRecoverableCallError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// platformGroup is one fan-out unit: the platforms sharing a category key,
// with their positions in the caller's input slice.
type platformGroup struct {
	key     string
	specs   []catalog.PlatformSpec
	indices []int
}

var knownGroupKeys = map[string]bool{
	catalog.CategorySocial:       true,
	catalog.CategoryProfessional: true,
	catalog.CategoryDeveloper:    true,
	catalog.CategoryLaunch:       true,
}

// platformGroupKey maps a platform spec to its group. Total by construction:
// anything without a recognized primary category lands in "other".
func platformGroupKey(spec catalog.PlatformSpec) string {
	if len(spec.Categories) > 0 && knownGroupKeys[spec.Categories[0]] {
		return spec.Categories[0]
	}
	return catalog.CategoryOther
}

// postGroupKey derives a group for an existing post from its platform name.
// Platform names on posts are plain strings, so this matches on fragments.
func postGroupKey(platform string) string {
	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, "linkedin"):
		return catalog.CategoryProfessional
	case strings.Contains(p, "reddit") || strings.Contains(p, "subreddit") ||
		strings.Contains(p, "hacker") || strings.Contains(p, "dev.to"):
		return catalog.CategoryDeveloper
	case strings.Contains(p, "product hunt") || strings.Contains(p, "launch"):
		return catalog.CategoryLaunch
	case strings.Contains(p, "twitter") || strings.HasPrefix(p, "x") ||
		strings.Contains(p, "mastodon") || strings.Contains(p, "telegram"):
		return catalog.CategorySocial
	default:
		return catalog.CategoryOther
	}
}

func groupPlatforms(platforms []catalog.PlatformSpec) []platformGroup {
	var groups []platformGroup
	byKey := map[string]int{}
	for i, spec := range platforms {
		key := platformGroupKey(spec)
		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, platformGroup{key: key})
		}
		groups[gi].specs = append(groups[gi].specs, spec)
		groups[gi].indices = append(groups[gi].indices, i)
	}
	return groups
}

// postGroup mirrors platformGroup for modification requests.
type postGroup struct {
	key     string
	posts   []social.Post
	indices []int
}

func groupPosts(posts []social.Post) []postGroup {
	var groups []postGroup
	byKey := map[string]int{}
	for i, p := range posts {
		key := postGroupKey(p.Platform)
		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, postGroup{key: key})
		}
		groups[gi].posts = append(groups[gi].posts, p)
		groups[gi].indices = append(groups[gi].indices, i)
	}
	return groups
}

// GenerateSocialPosts produces exactly one post per requested platform.
// Groups are dispatched concurrently; a failed batch is retried platform by
// platform, and a failed individual call yields a synthesized fallback post,
// so the result always covers the full input.
func (e *engine) GenerateSocialPosts(ctx context.Context, proj *project.Descriptor, platforms []catalog.PlatformSpec, customInstructions string) ([]social.Post, error) {
	if proj == nil {
		return nil, fmt.Errorf("project descriptor is required")
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("at least one platform is required")
	}

	results := make([]social.Post, len(platforms))
	groups := groupPlatforms(platforms)

	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		go func(g platformGroup) {
			defer wg.Done()
			e.generateGroup(ctx, proj, g, customInstructions, results)
		}(g)
	}
	wg.Wait()

	return results, nil
}

// generateGroup fills the result slots for one group. A multi-member group
// is attempted as a single batched call first; entries the batch failed to
// deliver (call error, missing, wrong platform, empty content) are retried
// platform by platform, and an individual failure yields a fallback post, so
// every slot is always filled.
func (e *engine) generateGroup(ctx context.Context, proj *project.Descriptor, g platformGroup, customInstructions string, results []social.Post) {
	settled := make([]bool, len(g.specs))

	if len(g.specs) > 1 {
		payloads, err := e.generateBatch(ctx, proj, g.specs, customInstructions)
		if err != nil {
			e.logger.WithField("group", g.key).WithField("error", err.Error()).Warn("Batched generation failed, retrying platforms individually")
		}
		for i, spec := range g.specs {
			if i >= len(payloads) {
				break
			}
			p := payloads[i]
			if p.Platform != "" && !strings.EqualFold(p.Platform, spec.Name) {
				continue
			}
			if p.Content == "" && p.CopyText == "" {
				continue
			}
			results[g.indices[i]] = buildPost(spec, postPayload{
				Title:    p.Title,
				Content:  p.Content,
				Hashtags: p.Hashtags,
				CopyText: p.CopyText,
			})
			settled[i] = true
		}
	}

	for i, spec := range g.specs {
		if settled[i] {
			continue
		}
		post, err := e.GeneratePlatformPost(ctx, proj, spec, customInstructions)
		if err != nil {
			e.logger.WithField("platform", spec.Name).WithField("error", err.Error()).Warn("Individual generation failed, using fallback post")
			post = FallbackPost(proj, spec)
		}
		results[g.indices[i]] = post
	}
}

func (e *engine) generateBatch(ctx context.Context, proj *project.Descriptor, specs []catalog.PlatformSpec, customInstructions string) ([]groupPostPayload, error) {
	if e.skipModel() {
		return nil, errBudgetExhausted
	}
	raw, err := e.call(ctx, getGroupPostPrompt(proj, specs, customInstructions))
	if err != nil {
		if isQuotaError(err) {
			e.markQuotaHit()
		}
		return nil, err
	}
	return decodeGroupPosts(raw)
}

// GeneratePlatformPost is the direct single-platform path. Parse failures,
// timeouts and quota conditions degrade to the fallback post; other
// transport errors propagate to the caller.
func (e *engine) GeneratePlatformPost(ctx context.Context, proj *project.Descriptor, spec catalog.PlatformSpec, customInstructions string) (social.Post, error) {
	if proj == nil {
		return social.Post{}, fmt.Errorf("project descriptor is required")
	}
	if e.skipModel() {
		return FallbackPost(proj, spec), nil
	}

	raw, err := e.call(ctx, getPlatformPostPrompt(proj, spec, customInstructions))
	if err != nil {
		if isQuotaError(err) {
			e.markQuotaHit()
			return FallbackPost(proj, spec), nil
		}
		if isRecoverableCallError(err) {
			e.logger.WithField("platform", spec.Name).Warn("Model call timed out, using fallback post")
			return FallbackPost(proj, spec), nil
		}
		return social.Post{}, err
	}

	payload, err := decodeSinglePost(raw)
	if err != nil {
		e.logger.WithField("platform", spec.Name).WithField("error", err.Error()).Warn("Unparseable model response, using fallback post")
		return FallbackPost(proj, spec), nil
	}
	return buildPost(spec, payload), nil
}

// buildPost maps a parsed payload onto a Post, clamping hashtags and the
// ready-to-paste text to the platform limits.
func buildPost(spec catalog.PlatformSpec, p postPayload) social.Post {
	hashtags := p.Hashtags
	if spec.HashtagLimit >= 0 && len(hashtags) > spec.HashtagLimit {
		hashtags = hashtags[:spec.HashtagLimit]
	}

	copyText := p.CopyText
	if copyText == "" {
		copyText = p.Content
		if len(hashtags) > 0 {
			copyText += "\n\n" + strings.Join(hashtags, " ")
		}
	}
	copyText = truncateCopy(copyText, spec.MaxCharacters)

	return social.NewPost(spec.Name, p.Title, p.Content, hashtags, copyText, spec.MaxCharacters, spec.URL)
}

// ModifySocialPosts rewrites posts per the instruction. Output preserves
// length, ids, platforms and ceilings; a post whose rewrite fails at every
// tier comes back unchanged rather than synthesized, since a valid post
// already exists. Instruction validation is the caller's responsibility.
func (e *engine) ModifySocialPosts(ctx context.Context, proj *project.Descriptor, posts []social.Post, instruction string) ([]social.Post, error) {
	if proj == nil {
		return nil, fmt.Errorf("project descriptor is required")
	}

	results := make([]social.Post, len(posts))
	groups := groupPosts(posts)

	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		go func(g postGroup) {
			defer wg.Done()
			e.modifyGroup(ctx, proj, g, instruction, results)
		}(g)
	}
	wg.Wait()

	return results, nil
}

// modifyGroup mirrors generateGroup's tiers, with the asymmetric final
// fallback: a post that cannot be rewritten is returned unchanged instead of
// synthesized.
func (e *engine) modifyGroup(ctx context.Context, proj *project.Descriptor, g postGroup, instruction string, results []social.Post) {
	settled := make([]bool, len(g.posts))

	if len(g.posts) > 1 {
		payloads, err := e.modifyBatch(ctx, proj, g.posts, instruction)
		if err != nil {
			e.logger.WithField("group", g.key).WithField("error", err.Error()).Warn("Batched modification failed, retrying posts individually")
		}
		for i, post := range g.posts {
			if i >= len(payloads) {
				break
			}
			p := payloads[i]
			if p.Platform != "" && !strings.EqualFold(p.Platform, post.Platform) {
				continue
			}
			if p.Content == "" && p.CopyText == "" {
				continue
			}
			results[g.indices[i]] = applyModification(post, postPayload{
				Title:    p.Title,
				Content:  p.Content,
				Hashtags: p.Hashtags,
				CopyText: p.CopyText,
			})
			settled[i] = true
		}
	}

	for i, post := range g.posts {
		if settled[i] {
			continue
		}
		modified, err := e.modifyOne(ctx, proj, post, instruction)
		if err != nil {
			e.logger.WithField("platform", post.Platform).WithField("error", err.Error()).Warn("Individual modification failed, keeping original post")
			modified = post
		}
		results[g.indices[i]] = modified
	}
}

func (e *engine) modifyBatch(ctx context.Context, proj *project.Descriptor, posts []social.Post, instruction string) ([]groupPostPayload, error) {
	if e.skipModel() {
		return nil, errBudgetExhausted
	}
	raw, err := e.call(ctx, getModifyGroupPrompt(proj, posts, instruction))
	if err != nil {
		if isQuotaError(err) {
			e.markQuotaHit()
		}
		return nil, err
	}
	return decodeGroupPosts(raw)
}

func (e *engine) modifyOne(ctx context.Context, proj *project.Descriptor, post social.Post, instruction string) (social.Post, error) {
	if e.skipModel() {
		return social.Post{}, errBudgetExhausted
	}
	raw, err := e.call(ctx, getModifyPostPrompt(proj, post, instruction))
	if err != nil {
		if isQuotaError(err) {
			e.markQuotaHit()
		}
		return social.Post{}, err
	}
	payload, err := decodeSinglePost(raw)
	if err != nil {
		return social.Post{}, err
	}
	return applyModification(post, payload), nil
}

// applyModification rewrites content-bearing fields only. ID, Platform, URL
// and MaxCharacters survive the rewrite untouched.
func applyModification(post social.Post, p postPayload) social.Post {
	copyText := p.CopyText
	if copyText == "" {
		copyText = p.Content
		if len(p.Hashtags) > 0 {
			copyText += "\n\n" + strings.Join(p.Hashtags, " ")
		}
	}
	copyText = truncateCopy(copyText, post.MaxCharacters)
	return post.Retext(p.Title, p.Content, p.Hashtags, copyText)
}

// FindRelevantCommunities asks the model to pick communities from the
// catalog allow-lists, filters whatever comes back against those same
// lists, and falls back to the rule-based recommender on any failure.
func (e *engine) FindRelevantCommunities(ctx context.Context, proj *project.Descriptor) (social.Recommendation, error) {
	if proj == nil {
		return social.Recommendation{}, fmt.Errorf("project descriptor is required")
	}
	if e.skipModel() {
		return FallbackCommunities(proj), nil
	}

	raw, err := e.call(ctx, getCommunitiesPrompt(proj))
	if err != nil {
		if isQuotaError(err) {
			e.markQuotaHit()
		} else {
			e.logger.WithField("error", err.Error()).Warn("Community search call failed, using rule-based recommendations")
		}
		return FallbackCommunities(proj), nil
	}

	payload, err := decodeCommunities(raw)
	if err != nil {
		e.logger.WithField("error", err.Error()).Warn("Unparseable community response, using rule-based recommendations")
		return FallbackCommunities(proj), nil
	}

	rec := social.Recommendation{
		XCommunities:      filterAllowed(payload.X, catalog.AllowedXCommunity),
		RedditCommunities: filterAllowed(payload.Reddit, catalog.AllowedRedditCommunity),
	}
	if len(rec.XCommunities) == 0 && len(rec.RedditCommunities) == 0 {
		e.logger.Warn("Model suggested no allow-listed communities, using rule-based recommendations")
		return FallbackCommunities(proj), nil
	}
	return rec, nil
}

// filterAllowed drops out-of-catalog names the model may have invented and
// caps the list at five.
func filterAllowed(candidates []string, allowed func(string) bool) []string {
	var out []string
	for _, name := range candidates {
		if !allowed(name) {
			continue
		}
		out = append(out, name)
		if len(out) == maxCommunities {
			break
		}
	}
	return out
}
