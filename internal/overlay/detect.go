package overlay

import (
	"net/url"
	"strings"

	"compintel/internal/model"
)

type hostRule struct {
	typ      model.SourceType
	contains []string
	suffix   []string
}

// Host rules are checked in order; the first match wins.
var hostRules = []hostRule{
	{typ: model.SourceGitHub, contains: []string{"github.com", "gitlab.com", "bitbucket.org"}},
	{typ: model.SourceSocialMedia, contains: []string{"twitter.com", "x.com", "linkedin.com", "facebook.com", "instagram.com", "mastodon", "threads.net"}},
	{typ: model.SourceReviewSite, contains: []string{"g2.com", "capterra.com", "trustradius.com", "gartner.com", "trustpilot.com"}},
	{typ: model.SourceDocumentation, contains: []string{"docs.", "documentation", "developer.", "devdocs"}, suffix: []string{".readthedocs.io"}},
	{typ: model.SourceBlog, contains: []string{"medium.com", "dev.to", "hashnode", "substack.com", "blog.", "wordpress.com"}},
	{typ: model.SourcePressRelease, contains: []string{"prnewswire.com", "businesswire.com", "globenewswire.com", "prweb.com"}},
	{typ: model.SourceJobPosting, contains: []string{"lever.co", "greenhouse.io", "jobs.", "careers.", "indeed.com", "glassdoor.com", "workday.com"}},
	{typ: model.SourceNewsArticle, contains: []string{"reuters.com", "techcrunch.com", "theverge.com", "arstechnica.com", "zdnet.com", "wired.com", "bloomberg.com"}},
}

type pathRule struct {
	typ      model.SourceType
	contains []string
}

var pathRules = []pathRule{
	{typ: model.SourceBlog, contains: []string{"/blog"}},
	{typ: model.SourcePressRelease, contains: []string{"/press", "/newsroom"}},
	{typ: model.SourceJobPosting, contains: []string{"/jobs", "/careers"}},
	{typ: model.SourceDocumentation, contains: []string{"/docs", "/documentation"}},
}

// DetectSourceType guesses a source type from a URL's host, then its path.
// The flag is false for unparseable URLs and URLs no rule recognizes.
func DetectSourceType(raw string) (model.SourceType, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	for _, r := range hostRules {
		for _, c := range r.contains {
			if strings.Contains(host, c) {
				return r.typ, true
			}
		}
		for _, sfx := range r.suffix {
			if strings.HasSuffix(host, sfx) {
				return r.typ, true
			}
		}
	}
	path := strings.ToLower(u.Path)
	for _, r := range pathRules {
		for _, c := range r.contains {
			if strings.Contains(path, c) {
				return r.typ, true
			}
		}
	}
	return "", false
}
