package overlay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"compintel/internal/model"
)

// UserSourcePrefix marks sources added through the overlay.
const UserSourcePrefix = "user-src-"

// Source management errors.
var (
	ErrUnknownSource     = errors.New("unknown source")
	ErrUnknownCompetitor = errors.New("unknown competitor")
	ErrMissingURL        = errors.New("source url is required")
	ErrInvalidSourceType = errors.New("invalid source type")
)

// SourceInput describes a source to add. When NewCompetitor is set it names
// a competitor to create (or reuse) and CompetitorID is ignored. An empty
// Type is detected from the URL.
type SourceInput struct {
	CompetitorID  string
	NewCompetitor string
	Title         string
	URL           string
	Type          model.SourceType
	Guidance      string
	PublishedAt   time.Time
	Snippet       string
}

// UserSources returns the sources added by the user.
func (s *Store) UserSources(ctx context.Context) []model.Source {
	srcs := load(ctx, s, KeyUserSources, []model.Source(nil))
	for i := range srcs {
		srcs[i].UserAdded = true
	}
	return srcs
}

// SourceEdits returns the patches stored for baseline sources.
func (s *Store) SourceEdits(ctx context.Context) map[string]model.SourcePatch {
	m := load(ctx, s, KeySourceEdits, map[string]model.SourcePatch{})
	if m == nil {
		m = map[string]model.SourcePatch{}
	}
	return m
}

// DeletedSourceIDs returns the ids of removed baseline sources.
func (s *Store) DeletedSourceIDs(ctx context.Context) []string {
	return load(ctx, s, KeyDeletedSources, []string(nil))
}

// UserCompetitors returns competitors created while adding sources.
func (s *Store) UserCompetitors(ctx context.Context) []model.CompetitorRef {
	return load(ctx, s, KeyUserCompetitors, []model.CompetitorRef(nil))
}

// CompetitorID derives the id of a user-created competitor from its name.
func CompetitorID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// AddSource adds one user source.
func (s *Store) AddSource(ctx context.Context, in SourceInput) (model.Source, error) {
	added, err := s.AddSources(ctx, []SourceInput{in})
	if err != nil {
		return model.Source{}, err
	}
	return added[0], nil
}

// AddSources validates and appends user sources in a single write. Nothing
// is stored when any input is invalid.
func (s *Store) AddSources(ctx context.Context, inputs []SourceInput) ([]model.Source, error) {
	userComps := s.UserCompetitors(ctx)
	compsChanged := false
	now := s.now()

	added := make([]model.Source, 0, len(inputs))
	for _, in := range inputs {
		url := strings.TrimSpace(in.URL)
		if url == "" {
			return nil, ErrMissingURL
		}

		compID := strings.TrimSpace(in.CompetitorID)
		if name := strings.TrimSpace(in.NewCompetitor); name != "" {
			compID = CompetitorID(name)
			if !s.competitorExists(compID, userComps) {
				userComps = append(userComps, model.CompetitorRef{ID: compID, Name: name})
				compsChanged = true
			}
		} else if !s.competitorExists(compID, userComps) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, compID)
		}

		typ := in.Type
		if typ == "" {
			if detected, ok := DetectSourceType(url); ok {
				typ = detected
			} else {
				typ = model.SourceBlog
			}
		}
		if !slices.Contains(model.SourceTypes, typ) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSourceType, typ)
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = url
		}
		published := in.PublishedAt
		if published.IsZero() {
			published = now
		}
		added = append(added, model.Source{
			ID:           UserSourcePrefix + s.newID(),
			URL:          url,
			Title:        title,
			Type:         typ,
			PublishedAt:  published,
			ScrapedAt:    now,
			CompetitorID: compID,
			Snippet:      in.Snippet,
			Reliability:  model.ReliabilityUnverified,
			Guidance:     strings.TrimSpace(in.Guidance),
			UserAdded:    true,
		})
	}

	if compsChanged {
		if err := save(ctx, s, KeyUserCompetitors, userComps); err != nil {
			return nil, err
		}
	}
	if err := save(ctx, s, KeyUserSources, append(s.UserSources(ctx), added...)); err != nil {
		return nil, err
	}
	s.log.Info("sources added", "count", len(added))
	return added, nil
}

func (s *Store) competitorExists(id string, user []model.CompetitorRef) bool {
	if id == "" {
		return false
	}
	if _, ok := s.cat.CompetitorByID(id); ok {
		return true
	}
	return slices.ContainsFunc(user, func(c model.CompetitorRef) bool { return c.ID == id })
}

// EditSource applies patch to a source. User sources are rewritten in place;
// baseline sources get the patch merged into their stored edits.
func (s *Store) EditSource(ctx context.Context, id string, patch model.SourcePatch) (model.Source, error) {
	if patch.URL != nil && strings.TrimSpace(*patch.URL) == "" {
		return model.Source{}, ErrMissingURL
	}
	if patch.Type != nil && !slices.Contains(model.SourceTypes, *patch.Type) {
		return model.Source{}, fmt.Errorf("%w: %q", ErrInvalidSourceType, *patch.Type)
	}
	if patch.CompetitorID != nil && !s.competitorExists(*patch.CompetitorID, s.UserCompetitors(ctx)) {
		return model.Source{}, fmt.Errorf("%w: %q", ErrUnknownCompetitor, *patch.CompetitorID)
	}

	user := s.UserSources(ctx)
	if i := slices.IndexFunc(user, func(src model.Source) bool { return src.ID == id }); i >= 0 {
		user[i] = patch.Apply(user[i])
		if err := save(ctx, s, KeyUserSources, user); err != nil {
			return model.Source{}, err
		}
		s.log.Info("user source edited", "source_id", id)
		return user[i], nil
	}

	base, ok := s.cat.Source(id)
	if !ok || slices.Contains(s.DeletedSourceIDs(ctx), id) {
		return model.Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	edits := s.SourceEdits(ctx)
	merged := mergePatch(edits[id], patch)
	edits[id] = merged
	if err := save(ctx, s, KeySourceEdits, edits); err != nil {
		return model.Source{}, err
	}
	s.log.Info("baseline source edited", "source_id", id)
	return merged.Apply(base), nil
}

func mergePatch(old, p model.SourcePatch) model.SourcePatch {
	if p.Title != nil {
		old.Title = p.Title
	}
	if p.URL != nil {
		old.URL = p.URL
	}
	if p.Type != nil {
		old.Type = p.Type
	}
	if p.CompetitorID != nil {
		old.CompetitorID = p.CompetitorID
	}
	if p.Guidance != nil {
		old.Guidance = p.Guidance
	}
	return old
}

// DeleteSource removes a source. A user source is dropped from the list; a
// baseline source id is added to the deletion set. Deleting an already
// deleted baseline source is a no-op.
func (s *Store) DeleteSource(ctx context.Context, id string) error {
	user := s.UserSources(ctx)
	if i := slices.IndexFunc(user, func(src model.Source) bool { return src.ID == id }); i >= 0 {
		user = slices.Delete(user, i, i+1)
		if err := save(ctx, s, KeyUserSources, user); err != nil {
			return err
		}
		s.log.Info("user source deleted", "source_id", id)
		return nil
	}

	if _, ok := s.cat.Source(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	deleted := s.DeletedSourceIDs(ctx)
	if slices.Contains(deleted, id) {
		return nil
	}
	if err := save(ctx, s, KeyDeletedSources, append(deleted, id)); err != nil {
		return err
	}
	s.log.Info("baseline source deleted", "source_id", id)
	return nil
}
