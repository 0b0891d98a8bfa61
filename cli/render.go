package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/postforge/postforge/social"
)

var (
	platformStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("202"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func renderPost(p social.Post) string {
	var b strings.Builder
	b.WriteString(platformStyle.Render(p.Platform))
	b.WriteString("\n")
	if p.Title != "" {
		b.WriteString(titleStyle.Render(p.Title))
		b.WriteString("\n")
	}
	b.WriteString(p.CopyText)
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("%d/%d characters · id %s", p.CharacterCount, p.MaxCharacters, p.ID)))
	b.WriteString("\n")
	return b.String()
}

func renderPosts(posts []social.Post) string {
	parts := make([]string, len(posts))
	for i, p := range posts {
		parts[i] = renderPost(p)
	}
	return strings.Join(parts, "\n")
}

func renderRecommendation(rec social.Recommendation) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("X communities"))
	b.WriteString("\n")
	for _, name := range rec.XCommunities {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	b.WriteString(headerStyle.Render("Subreddits"))
	b.WriteString("\n")
	for _, name := range rec.RedditCommunities {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	return b.String()
}
