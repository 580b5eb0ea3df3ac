package classifier

// domainTags maps a normalized hostname (lowercase, no leading "www.") to its fixed tags.
var domainTags = map[string][]string{
	"github.com":        {"github", "code", "dev"},
	"stackoverflow.com": {"stackoverflow", "dev", "qa"},
	"medium.com":        {"article", "blog"},
	"youtube.com":       {"video", "youtube"},
	"twitter.com":       {"social", "twitter"},
	"x.com":             {"social", "twitter"},
	"reddit.com":        {"reddit", "social"},
	"linkedin.com":      {"linkedin", "professional"},
	"docs.google.com":   {"docs", "google"},
	"notion.so":         {"notes", "notion"},
	"figma.com":         {"design", "figma"},
	"dribbble.com":      {"design", "inspiration"},
	"behance.net":       {"design", "portfolio"},
	"dev.to":            {"dev", "article"},
	"hackernews.com":    {"news", "tech"},
	"producthunt.com":   {"products", "startup"},
	"wikipedia.org":     {"wiki", "reference"},
	"coursera.org":      {"course", "learning"},
	"udemy.com":         {"course", "learning"},
	"npmjs.com":         {"npm", "package", "javascript"},
	"pypi.org":          {"python", "package"},
}

// vocabulary is the closed set of words that may become tags from a path or a title.
var vocabulary = newWordSet(
	// languages
	"javascript", "python", "java", "cpp", "csharp", "ruby", "php", "swift", "kotlin",
	"rust", "go", "golang", "typescript",

	// frameworks and libraries
	"react", "vue", "angular", "svelte", "next", "nuxt", "django", "flask", "express",
	"fastapi", "rails", "laravel", "spring", "node", "nodejs", "tailwind", "bootstrap",
	"jquery", "redux", "graphql",

	// concepts
	"api", "rest", "tutorial", "guide", "docs", "documentation", "blog", "article",
	"course", "video", "frontend", "backend", "fullstack", "devops", "database", "auth",
	"security", "testing", "design", "ui", "ux", "css", "html", "style", "animation",
	"responsive", "machine", "learning", "data", "science", "cloud", "aws", "azure",
	"docker", "kubernetes",

	// general
	"tool", "tools", "resource", "reference", "cheatsheet", "snippet", "example", "demo",
	"open", "source", "github", "repo", "repository", "project", "package", "library",
	"news", "tech", "startup", "product", "portfolio", "inspiration",
)

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}

// IsVocabularyWord reports whether word is a recognized tag word.
// The test is exact; callers lowercase first.
func IsVocabularyWord(word string) bool {
	return vocabulary.has(word)
}

// DomainTags returns a copy of the fixed tags for a normalized host, or nil.
func DomainTags(host string) []string {
	tags, ok := domainTags[host]
	if !ok {
		return nil
	}
	return append([]string(nil), tags...)
}
