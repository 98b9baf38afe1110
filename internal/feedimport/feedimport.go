// Package feedimport turns a saved RSS, Atom or JSON feed document into user
// sources for one competitor.
package feedimport

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"compintel/internal/model"
	"compintel/internal/overlay"
)

const (
	maxDocument = 5 * 1024 * 1024
	maxSnippet  = 300
)

// Candidate is a feed item that may become a source.
type Candidate struct {
	GUID        string
	Title       string
	Link        string
	Snippet     string
	PublishedAt time.Time
}

// Parse decodes a feed document of any format gofeed understands.
func Parse(r io.Reader) (*gofeed.Feed, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxDocument))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// ItemGUID returns the GUID for a feed item.
// If the item has no GUID, a SHA-256 hash of title+link is used.
func ItemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// Candidates maps feed items that pass rules to candidates. Items without a
// link and repeated GUIDs are skipped.
func Candidates(feed *gofeed.Feed, rules Rules) []Candidate {
	seen := make(map[string]struct{}, len(feed.Items))
	var out []Candidate
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		guid := ItemGUID(item)
		if _, dup := seen[guid]; dup {
			continue
		}
		seen[guid] = struct{}{}
		if !rules.Match(item.Title, item.Description) {
			continue
		}

		c := Candidate{
			GUID:    guid,
			Title:   strings.TrimSpace(item.Title),
			Link:    link,
			Snippet: snippet(item.Description),
		}
		switch {
		case item.PublishedParsed != nil:
			c.PublishedAt = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			c.PublishedAt = item.UpdatedParsed.UTC()
		}
		out = append(out, c)
	}
	return out
}

func snippet(desc string) string {
	desc = strings.Join(strings.Fields(desc), " ")
	if utf8.RuneCountInString(desc) <= maxSnippet {
		return desc
	}
	return string([]rune(desc)[:maxSnippet]) + "..."
}

// SourceAdder stores new user sources.
type SourceAdder interface {
	AddSources(ctx context.Context, inputs []overlay.SourceInput) ([]model.Source, error)
}

// Result summarizes an import.
type Result struct {
	FeedTitle string
	Added     []model.Source
	Skipped   int
}

// Importer adds feed items as sources.
type Importer struct {
	adder SourceAdder
	log   *slog.Logger
}

// New creates an Importer.
func New(adder SourceAdder, log *slog.Logger) *Importer {
	return &Importer{adder: adder, log: log}
}

// Import reads a feed from r and adds every matching item whose link is not
// already among existing as a source of competitorID.
func (im *Importer) Import(ctx context.Context, r io.Reader, competitorID string, rules Rules, existing []model.Source) (Result, error) {
	feed, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{FeedTitle: feed.Title}

	known := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		known[s.URL] = struct{}{}
	}

	var inputs []overlay.SourceInput
	for _, c := range Candidates(feed, rules) {
		if _, ok := known[c.Link]; ok {
			res.Skipped++
			continue
		}
		known[c.Link] = struct{}{}
		inputs = append(inputs, overlay.SourceInput{
			CompetitorID: competitorID,
			Title:        c.Title,
			URL:          c.Link,
			PublishedAt:  c.PublishedAt,
			Snippet:      c.Snippet,
		})
	}
	if len(inputs) == 0 {
		im.log.Info("nothing to import", "feed", feed.Title, "skipped", res.Skipped)
		return res, nil
	}

	added, err := im.adder.AddSources(ctx, inputs)
	if err != nil {
		return Result{}, fmt.Errorf("add sources: %w", err)
	}
	res.Added = added
	im.log.Info("feed imported", "feed", feed.Title, "competitor_id", competitorID,
		"added", len(added), "skipped", res.Skipped)
	return res, nil
}
