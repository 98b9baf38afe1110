// Package overlay keeps the user's own state (interactions, comments, review
// decisions, source edits and search history) as JSON blobs in a key-value
// store, one key per namespace.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"compintel/internal/catalog"
	"compintel/internal/storage"
	"compintel/internal/view"
)

// Namespace keys.
const (
	KeyInteractions    = "insight-interactions"
	KeyCommentsPrefix  = "insight-comments-"
	KeyReviewActions   = "review-actions"
	KeyUserSources     = "user-sources"
	KeySourceEdits     = "source-edits"
	KeyDeletedSources  = "deleted-sources"
	KeyUserCompetitors = "user-competitors"
	KeySearchHistory   = "search-history"
)

// Store reads and writes overlay namespaces. Reads never fail: a missing,
// unreadable or corrupt namespace yields its default value.
type Store struct {
	kv    storage.Storage
	cat   *catalog.Catalog
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// New creates a Store over kv. The catalog decides whether a source id is
// a baseline one.
func New(kv storage.Storage, cat *catalog.Catalog, log *slog.Logger) *Store {
	return &Store{
		kv:    kv,
		cat:   cat,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// SetClock overrides the time source used to stamp records.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// SetIDGenerator overrides the generator of new record ids.
func (s *Store) SetIDGenerator(gen func() string) {
	s.newID = gen
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func load[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read overlay", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("decode overlay", "key", key, "error", err)
		return def
	}
	return v
}

func save[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Snapshot loads every namespace that views merge over the catalog.
func (s *Store) Snapshot(ctx context.Context) view.Overlay {
	return view.Overlay{
		Interactions:    s.Interactions(ctx),
		Reviews:         s.ReviewActions(ctx),
		UserSources:     s.UserSources(ctx),
		SourceEdits:     s.SourceEdits(ctx),
		DeletedSources:  s.DeletedSourceIDs(ctx),
		UserCompetitors: s.UserCompetitors(ctx),
	}
}

// Composer returns a view composer over a fresh snapshot.
func (s *Store) Composer(ctx context.Context) *view.Composer {
	return view.NewComposer(s.cat, s.Snapshot(ctx), s.now())
}
