package llm

import (
	"fmt"
	"strings"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/project"
	"github.com/postforge/postforge/social"
)

func getSystemPrompt() string {
	return `You are an expert developer-relations copywriter. Your task is to write promotional social media posts for open source projects, tailored to each target platform's audience, tone and constraints.

Respect every character limit and hashtag limit you are given. Write in the platform's native voice: what works on Hacker News does not work on LinkedIn.

Always respond with a single JSON object exactly matching the schema requested in the prompt. Do NOT wrap the JSON in markdown code fences and do NOT add commentary before or after it.`
}

// projectContext renders the descriptor into the shared prompt preamble.
func projectContext(proj *project.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\nURL: %s\nDescription: %s\n", proj.Name, proj.URL, proj.Description)
	if proj.Language != "" {
		fmt.Fprintf(&b, "Primary language: %s\n", proj.Language)
	}
	if len(proj.TechStack) > 0 {
		fmt.Fprintf(&b, "Tech stack: %s\n", strings.Join(proj.TechStack, ", "))
	}
	if proj.ProjectType != "" {
		fmt.Fprintf(&b, "Project type: %s\n", proj.ProjectType)
	}
	if proj.Stars > 0 || proj.Forks > 0 {
		fmt.Fprintf(&b, "GitHub stats: %d stars, %d forks\n", proj.Stars, proj.Forks)
	}
	if len(proj.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(proj.Topics, ", "))
	}
	if len(proj.KeyFeatures) > 0 {
		fmt.Fprintf(&b, "Key features:\n- %s\n", strings.Join(proj.KeyFeatures, "\n- "))
	}
	if proj.Readme != "" {
		fmt.Fprintf(&b, "\nREADME excerpt:\n%s\n", proj.Readme)
	}
	return b.String()
}

func platformConstraints(spec catalog.PlatformSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Platform: %s\nCharacter limit: %d (hard limit, count every character of copyText)\nHashtag limit: %d\n", spec.Name, spec.MaxCharacters, spec.HashtagLimit)
	if spec.Community {
		fmt.Fprintf(&b, "This is a community space under %s, so write for that sub-audience.\n", spec.ParentPlatform)
	}
	if len(spec.StyleRules) > 0 {
		fmt.Fprintf(&b, "Style rules:\n- %s\n", strings.Join(spec.StyleRules, "\n- "))
	}
	return b.String()
}

func getPlatformPostPrompt(proj *project.Descriptor, spec catalog.PlatformSpec, customInstructions string) string {
	prompt := fmt.Sprintf(`Write one promotional post for the project below.

%s
%s
Respond with a single JSON object in exactly this shape:
{"title": "...", "content": "...", "hashtags": ["#tag1"], "copyText": "..."}

copyText must be the complete ready-to-paste post: the content plus the hashtags, within the character limit.`,
		projectContext(proj), platformConstraints(spec))
	if customInstructions != "" {
		prompt += fmt.Sprintf("\n\nAdditional instructions from the user:\n%s", customInstructions)
	}
	return prompt
}

func getGroupPostPrompt(proj *project.Descriptor, specs []catalog.PlatformSpec, customInstructions string) string {
	var constraints strings.Builder
	for i, spec := range specs {
		fmt.Fprintf(&constraints, "%d. %s", i+1, platformConstraints(spec))
	}
	prompt := fmt.Sprintf(`Write one promotional post for EACH of the %d platforms below, for the same project. The platforms share an audience type but each post must respect its own limits and style rules.

%s
Platforms:
%s
Respond with a single JSON object in exactly this shape, with the posts in the same order as the platforms above:
{"posts": [{"platform": "...", "title": "...", "content": "...", "hashtags": ["#tag1"], "copyText": "..."}]}

The posts array must contain exactly %d entries. copyText must be the complete ready-to-paste post for that platform.`,
		len(specs), projectContext(proj), constraints.String(), len(specs))
	if customInstructions != "" {
		prompt += fmt.Sprintf("\n\nAdditional instructions from the user:\n%s", customInstructions)
	}
	return prompt
}

func postJSON(p social.Post) string {
	return fmt.Sprintf(`{"platform": %q, "title": %q, "content": %q, "hashtags": [%s], "copyText": %q}`,
		p.Platform, p.Title, p.Content, quoteJoin(p.Hashtags), p.CopyText)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func getModifyPostPrompt(proj *project.Descriptor, post social.Post, instruction string) string {
	spec, _ := catalog.Lookup(post.Platform)
	constraints := ""
	if spec.Name != "" {
		constraints = platformConstraints(spec)
	} else {
		constraints = fmt.Sprintf("Platform: %s\nCharacter limit: %d\n", post.Platform, post.MaxCharacters)
	}
	return fmt.Sprintf(`Rewrite the social media post below according to the user's instruction. Keep it for the same platform and project, and keep respecting the platform constraints.

%s
%s
Current post:
%s

Instruction: %s

Respond with a single JSON object in exactly this shape:
{"title": "...", "content": "...", "hashtags": ["#tag1"], "copyText": "..."}`,
		projectContext(proj), constraints, postJSON(post), instruction)
}

func getModifyGroupPrompt(proj *project.Descriptor, posts []social.Post, instruction string) string {
	var current strings.Builder
	for i, p := range posts {
		fmt.Fprintf(&current, "%d. %s\n", i+1, postJSON(p))
	}
	return fmt.Sprintf(`Rewrite EACH of the %d social media posts below according to the user's instruction. Keep every post on its current platform and within that platform's character limit.

%s
Current posts:
%s
Instruction: %s

Respond with a single JSON object in exactly this shape, with the rewritten posts in the same order as above:
{"posts": [{"platform": "...", "title": "...", "content": "...", "hashtags": ["#tag1"], "copyText": "..."}]}

The posts array must contain exactly %d entries.`,
		len(posts), projectContext(proj), current.String(), instruction, len(posts))
}

func getCommunitiesPrompt(proj *project.Descriptor) string {
	return fmt.Sprintf(`Pick the discussion communities where the project below would be most welcome.

%s
You may ONLY choose from these X communities:
%s

And ONLY from these subreddits:
%s

Pick exactly 5 from each list, ordered by relevance, and explain your picks briefly.

Respond with a single JSON object in exactly this shape:
{"x": ["..."], "reddit": ["..."], "reasoning": "..."}`,
		projectContext(proj), strings.Join(catalog.XCommunities, ", "), strings.Join(catalog.RedditCommunities, ", "))
}
