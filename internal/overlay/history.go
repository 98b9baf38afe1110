package overlay

import (
	"context"
	"fmt"

	"compintel/internal/model"
)

const maxHistory = 10

// SearchHistory returns recent search selections, newest first.
func (s *Store) SearchHistory(ctx context.Context) []model.SearchHistoryItem {
	return load(ctx, s, KeySearchHistory, []model.SearchHistoryItem(nil))
}

// AddSearchHistory records a selected result at the front of the history,
// dropping any earlier entry with the same href and keeping ten entries.
func (s *Store) AddSearchHistory(ctx context.Context, item model.SearchHistoryItem) ([]model.SearchHistoryItem, error) {
	item.Timestamp = s.now().UnixMilli()
	out := []model.SearchHistoryItem{item}
	for _, h := range s.SearchHistory(ctx) {
		if h.Href != item.Href {
			out = append(out, h)
		}
	}
	if len(out) > maxHistory {
		out = out[:maxHistory]
	}
	if err := save(ctx, s, KeySearchHistory, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveSearchHistory drops the entry with href and reports whether there
// was one.
func (s *Store) RemoveSearchHistory(ctx context.Context, href string) (bool, error) {
	all := s.SearchHistory(ctx)
	out := make([]model.SearchHistoryItem, 0, len(all))
	for _, h := range all {
		if h.Href != href {
			out = append(out, h)
		}
	}
	if len(out) == len(all) {
		return false, nil
	}
	if err := save(ctx, s, KeySearchHistory, out); err != nil {
		return false, err
	}
	return true, nil
}

// ClearSearchHistory deletes the history namespace.
func (s *Store) ClearSearchHistory(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeySearchHistory); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	return nil
}
