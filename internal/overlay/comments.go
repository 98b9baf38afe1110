package overlay

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"compintel/internal/model"
	"compintel/internal/view"
)

// UserCommentPrefix marks comments written through the overlay. Only these
// are persisted.
const UserCommentPrefix = "cmt-new-"

const commentRole = "Team Member"

// ErrEmptyComment is returned for a comment with no visible text.
var ErrEmptyComment = errors.New("empty comment")

// StoredComments returns the comments persisted for an insight.
func (s *Store) StoredComments(ctx context.Context, insightID string) []model.Comment {
	return load(ctx, s, KeyCommentsPrefix+insightID, []model.Comment(nil))
}

// Comments returns the baseline comments of ins followed by stored ones.
func (s *Store) Comments(ctx context.Context, ins model.Insight) []model.Comment {
	return view.MergeComments(ins.Comments, s.StoredComments(ctx, ins.ID))
}

// AddComment appends a comment by author to an insight and returns it.
func (s *Store) AddComment(ctx context.Context, ins model.Insight, author, content string) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, ErrEmptyComment
	}
	c := model.Comment{
		ID:           UserCommentPrefix + s.newID(),
		Author:       author,
		AuthorRole:   commentRole,
		AuthorAvatar: initials(author),
		Content:      content,
		CreatedAt:    s.now(),
	}

	merged := append(s.Comments(ctx, ins), c)
	var keep []model.Comment
	for _, m := range merged {
		if strings.HasPrefix(m.ID, UserCommentPrefix) {
			keep = append(keep, m)
		}
	}
	if err := save(ctx, s, KeyCommentsPrefix+ins.ID, keep); err != nil {
		return model.Comment{}, err
	}
	s.log.Debug("comment added", "insight_id", ins.ID, "comment_id", c.ID)
	return c, nil
}

// initials builds a two-letter avatar from a display name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(w)[0]))
		if len(out) == 2 {
			return string(out)
		}
	}
	if len(out) == 1 {
		if r := []rune(strings.TrimSpace(name)); len(r) > 1 {
			out = append(out, unicode.ToUpper(r[1]))
		}
	}
	if len(out) == 0 {
		return "??"
	}
	return string(out)
}
