package catalog

// Community allow-lists. Model responses are filtered against these before
// anything is returned to the caller, and the fallback recommender only ever
// picks from them.

// XCommunities are the X (Twitter) community names the recommender may return.
var XCommunities = []string{
	"OpenSource",
	"Programming",
	"WebDev",
	"JavaScript",
	"TypeScript",
	"Python",
	"GoLang",
	"Rustlang",
	"DevTools",
	"BuildInPublic",
	"AI",
	"MachineLearning",
	"DataScience",
	"MobileDev",
	"GameDev",
	"SelfHosted",
	"DevOps",
	"IndieHackers",
}

// RedditCommunities are the subreddit names the recommender may return.
var RedditCommunities = []string{
	"r/programming",
	"r/opensource",
	"r/webdev",
	"r/javascript",
	"r/typescript",
	"r/Python",
	"r/golang",
	"r/rust",
	"r/coolgithubprojects",
	"r/SideProject",
	"r/selfhosted",
	"r/MachineLearning",
	"r/artificial",
	"r/datascience",
	"r/androiddev",
	"r/iOSProgramming",
	"r/gamedev",
	"r/devops",
	"r/commandline",
}

// AllowedXCommunity reports whether name is on the X allow-list.
func AllowedXCommunity(name string) bool {
	return contains(XCommunities, name)
}

// AllowedRedditCommunity reports whether name is on the Reddit allow-list.
func AllowedRedditCommunity(name string) bool {
	return contains(RedditCommunities, name)
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
