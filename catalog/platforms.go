// Package catalog holds the static platform catalog and the community
// allow-lists shared by prompt construction, response validation and the
// deterministic fallback recommender.
package catalog

// PlatformSpec describes one posting destination and its constraints. Style
// rules are passed through to the model verbatim; only MaxCharacters is
// enforced programmatically.
type PlatformSpec struct {
	Name           string
	MaxCharacters  int
	HashtagLimit   int
	Categories     []string
	StyleRules     []string
	URL            string
	Community      bool
	ParentPlatform string
}

// Platform category keys used for request grouping.
const (
	CategorySocial       = "social"
	CategoryProfessional = "professional"
	CategoryDeveloper    = "developer"
	CategoryLaunch       = "launch"
	CategoryOther        = "other"
)

var platforms = []PlatformSpec{
	{
		Name:          "Twitter/X",
		MaxCharacters: 280,
		HashtagLimit:  3,
		Categories:    []string{CategorySocial},
		StyleRules: []string{
			"Punchy and conversational, hook in the first line",
			"No corporate tone, write like a builder sharing their work",
			"Emojis are fine but at most two",
		},
		URL: "https://twitter.com/intent/tweet",
	},
	{
		Name:          "LinkedIn",
		MaxCharacters: 3000,
		HashtagLimit:  5,
		Categories:    []string{CategoryProfessional, CategorySocial},
		StyleRules: []string{
			"Professional but personal, open with the problem the project solves",
			"Short paragraphs separated by blank lines",
			"End with a question or call to action",
		},
		URL: "https://www.linkedin.com/feed/",
	},
	{
		Name:          "Mastodon",
		MaxCharacters: 500,
		HashtagLimit:  4,
		Categories:    []string{CategorySocial},
		StyleRules: []string{
			"FOSS-friendly audience, mention the license and self-hosting if relevant",
			"Hashtags matter for discovery on the fediverse",
		},
		URL: "https://mastodon.social/publish",
	},
	{
		Name:          "Reddit",
		MaxCharacters: 10000,
		HashtagLimit:  0,
		Categories:    []string{CategoryDeveloper},
		StyleRules: []string{
			"No marketing speak, redditors downvote hype",
			"Explain what it does, why you built it, and what feedback you want",
			"No hashtags",
		},
		URL: "https://www.reddit.com/submit",
	},
	{
		Name:          "Hacker News",
		MaxCharacters: 2000,
		HashtagLimit:  0,
		Categories:    []string{CategoryDeveloper, CategoryLaunch},
		StyleRules: []string{
			"Title should follow the Show HN convention",
			"Plain technical description, no emojis, no hashtags",
			"Mention the stack and interesting implementation details",
		},
		URL: "https://news.ycombinator.com/submit",
	},
	{
		Name:          "Dev.to",
		MaxCharacters: 5000,
		HashtagLimit:  4,
		Categories:    []string{CategoryDeveloper},
		StyleRules: []string{
			"Write like a short blog post with a narrative",
			"Code-adjacent audience, technical depth is welcome",
		},
		URL: "https://dev.to/new",
	},
	{
		Name:          "Product Hunt",
		MaxCharacters: 500,
		HashtagLimit:  0,
		Categories:    []string{CategoryLaunch},
		StyleRules: []string{
			"Tagline first: what it is in one sentence",
			"Focus on the user benefit, not the implementation",
		},
		URL: "https://www.producthunt.com/posts/new",
	},
	{
		Name:          "Telegram",
		MaxCharacters: 4096,
		HashtagLimit:  3,
		Categories:    []string{CategorySocial},
		StyleRules: []string{
			"Channel announcement style, short and link-forward",
		},
		URL: "https://t.me/share/url",
	},
	{
		Name:          "X Communities",
		MaxCharacters: 280,
		HashtagLimit:  2,
		Categories:    []string{CategorySocial},
		StyleRules: []string{
			"Address the community topic directly",
			"Less self-promotion, more discussion starter",
		},
		URL:            "https://twitter.com/intent/tweet",
		Community:      true,
		ParentPlatform: "Twitter/X",
	},
	{
		Name:          "Subreddits",
		MaxCharacters: 10000,
		HashtagLimit:  0,
		Categories:    []string{CategoryDeveloper},
		StyleRules: []string{
			"Follow each subreddit's self-promotion rules",
			"Lead with the technical story",
		},
		URL:            "https://www.reddit.com/submit",
		Community:      true,
		ParentPlatform: "Reddit",
	},
}

// Platforms returns the ordered platform catalog. The returned slice is a
// copy, callers may reorder or filter it freely.
func Platforms() []PlatformSpec {
	out := make([]PlatformSpec, len(platforms))
	copy(out, platforms)
	return out
}

// Lookup returns the spec for the named platform.
func Lookup(name string) (PlatformSpec, bool) {
	for _, p := range platforms {
		if p.Name == name {
			return p, true
		}
	}
	return PlatformSpec{}, false
}
