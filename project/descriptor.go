// Package project fetches public repository metadata and normalizes it into
// the descriptor consumed by the generation layer.
package project

// Descriptor is the normalized view of an analyzed repository. It is built
// once by Analyze and treated as read-only afterwards.
type Descriptor struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Owner       string   `json:"owner"`
	AvatarURL   string   `json:"avatarUrl"`
	Description string   `json:"description"`
	Readme      string   `json:"readme"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	ProjectType string   `json:"projectType"`
	TechStack   []string `json:"techStack"`
	KeyFeatures []string `json:"keyFeatures"`
}
