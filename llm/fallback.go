package llm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

// Deterministic fallback paths, used whenever the model is unavailable,
// over quota, or returns something unparseable. These never fail.

// FallbackPost synthesizes a post for one platform from fixed templates.
// The assembled copyText never exceeds the platform ceiling: when truncation
// is needed the result is exactly MaxCharacters runes, ellipsis included.
func FallbackPost(proj *project.Descriptor, spec catalog.PlatformSpec) social.Post {
	title, content := fallbackTemplate(proj, spec)
	hashtags := fallbackHashtags(proj, spec.HashtagLimit)

	copyText := content
	if len(hashtags) > 0 {
		copyText = content + "\n\n" + strings.Join(hashtags, " ")
	}
	copyText = truncateCopy(copyText, spec.MaxCharacters)

	return social.NewPost(spec.Name, title, content, hashtags, copyText, spec.MaxCharacters, spec.URL)
}

func fallbackTemplate(proj *project.Descriptor, spec catalog.PlatformSpec) (title, content string) {
	desc := proj.Description
	if desc == "" {
		desc = fmt.Sprintf("an open source %s", nonEmpty(proj.ProjectType, "project"))
	}

	name := strings.ToLower(spec.Name)
	switch {
	case strings.Contains(name, "twitter") || strings.Contains(name, "x communities") || name == "x":
		title = fmt.Sprintf("Introducing %s", proj.Name)
		content = fmt.Sprintf("🚀 %s — %s\n\nCheck it out on GitHub: %s", proj.Name, desc, proj.URL)
	case strings.Contains(name, "linkedin"):
		title = fmt.Sprintf("Introducing %s", proj.Name)
		content = fmt.Sprintf("I want to share %s, an open source project I came across.\n\n%s\n\nIt's built with %s and available on GitHub: %s\n\nWould love to hear what you think.",
			proj.Name, desc, nonEmpty(proj.Language, "open tooling"), proj.URL)
	case strings.Contains(name, "hacker"):
		title = fmt.Sprintf("Show HN: %s – %s", proj.Name, desc)
		content = fmt.Sprintf("%s is %s. Source and docs: %s", proj.Name, lowerFirst(desc), proj.URL)
	case strings.Contains(name, "reddit") || strings.Contains(name, "subreddit"):
		title = fmt.Sprintf("%s: %s", proj.Name, desc)
		content = fmt.Sprintf("Sharing %s, %s.\n\nRepo: %s\n\nFeedback welcome.", proj.Name, lowerFirst(desc), proj.URL)
	case strings.Contains(name, "product hunt") || strings.Contains(name, "launch"):
		title = proj.Name
		content = fmt.Sprintf("%s — %s. Free and open source: %s", proj.Name, desc, proj.URL)
	case strings.Contains(name, "mastodon"):
		title = fmt.Sprintf("Introducing %s", proj.Name)
		content = fmt.Sprintf("%s — %s\n\nFree and open source: %s", proj.Name, desc, proj.URL)
	default:
		title = fmt.Sprintf("Check out %s", proj.Name)
		content = fmt.Sprintf("%s — %s\n\n%s", proj.Name, desc, proj.URL)
	}
	return title, content
}

// fallbackHashtags derives tags from the project's topics and language.
func fallbackHashtags(proj *project.Descriptor, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var tags []string
	seen := map[string]bool{}
	add := func(raw string) {
		tag := hashtagify(raw)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	add(proj.Language)
	for _, topic := range proj.Topics {
		add(topic)
	}
	add("opensource")
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

func hashtagify(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// truncateCopy caps s at max runes. A truncated result carries a 3-character
// ellipsis and is exactly max runes long.
func truncateCopy(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	return string(runes[:max-3]) + "..."
}

// community keyword clusters for the rule-based recommender.
var communityClusters = []struct {
	keywords []string
	x        []string
	reddit   []string
}{
	{
		keywords: []string{"javascript", "typescript", "web", "frontend", "react", "vue", "css", "html"},
		x:        []string{"WebDev", "JavaScript", "TypeScript"},
		reddit:   []string{"r/webdev", "r/javascript", "r/typescript"},
	},
	{
		keywords: []string{"python", "data", "machine learning", "ml", "ai", "llm"},
		x:        []string{"Python", "DataScience", "AI"},
		reddit:   []string{"r/Python", "r/datascience", "r/MachineLearning"},
	},
	{
		keywords: []string{"android", "ios", "mobile", "flutter", "swift", "kotlin"},
		x:        []string{"MobileDev"},
		reddit:   []string{"r/androiddev", "r/iOSProgramming"},
	},
	{
		keywords: []string{"go", "golang"},
		x:        []string{"GoLang", "DevTools"},
		reddit:   []string{"r/golang", "r/commandline"},
	},
	{
		keywords: []string{"rust"},
		x:        []string{"Rustlang", "DevTools"},
		reddit:   []string{"r/rust", "r/commandline"},
	},
}

// FallbackCommunities is the rule-based community recommender: two fixed
// seeds per side plus up to three cluster picks keyed on the project's
// language and type, capped at five per side.
func FallbackCommunities(proj *project.Descriptor) social.Recommendation {
	rec := social.Recommendation{
		XCommunities:      []string{"OpenSource", "Programming"},
		RedditCommunities: []string{"r/programming", "r/opensource"},
	}

	haystack := strings.ToLower(proj.Language + " " + proj.ProjectType + " " + strings.Join(proj.Topics, " "))
	matched := false
	for _, cluster := range communityClusters {
		for _, kw := range cluster.keywords {
			if containsWord(haystack, kw) {
				rec.XCommunities = appendCapped(rec.XCommunities, cluster.x, 3)
				rec.RedditCommunities = appendCapped(rec.RedditCommunities, cluster.reddit, 3)
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}
	if !matched {
		rec.XCommunities = appendCapped(rec.XCommunities, []string{"DevTools", "BuildInPublic"}, 3)
		rec.RedditCommunities = appendCapped(rec.RedditCommunities, []string{"r/coolgithubprojects", "r/SideProject"}, 3)
	}

	rec.XCommunities = capAt(rec.XCommunities, maxCommunities)
	rec.RedditCommunities = capAt(rec.RedditCommunities, maxCommunities)
	return rec
}

func containsWord(haystack, word string) bool {
	for _, field := range strings.Fields(haystack) {
		if field == word {
			return true
		}
	}
	return strings.Contains(haystack, word) && len(word) > 3
}

func appendCapped(dst, extra []string, maxExtra int) []string {
	for i, s := range extra {
		if i == maxExtra {
			break
		}
		dst = append(dst, s)
	}
	return dst
}

func capAt(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func lowerFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
