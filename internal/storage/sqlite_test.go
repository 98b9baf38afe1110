package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func implementations(t *testing.T) map[string]Storage {
	t.Helper()
	return map[string]Storage{
		"sqlite": newTestDB(t),
		"memory": NewMemory(),
	}
}

func TestGetMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := s.Get(ctx, "review-actions")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok || v != nil {
				t.Errorf("Get() = %q, %v; want nil, false", v, ok)
			}
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		writes []string
		want   string
	}{
		{name: "single write", key: "deleted-sources", writes: []string{`["src-1"]`}, want: `["src-1"]`},
		{name: "overwrite keeps last", key: "review-actions", writes: []string{`{}`, `{"ins-1":{"action":"verified"}}`}, want: `{"ins-1":{"action":"verified"}}`},
		{name: "unicode value", key: "insight-comments-ins-2", writes: []string{`[{"content":"Деплой — ok"}]`}, want: `[{"content":"Деплой — ok"}]`},
	}

	for name, s := range implementations(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				for _, w := range tt.writes {
					if err := s.Put(ctx, tt.key, []byte(w)); err != nil {
						t.Fatalf("put: %v", err)
					}
				}
				got, ok, err := s.Get(ctx, tt.key)
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if !ok {
					t.Fatal("expected key to exist")
				}
				if diff := cmp.Diff(tt.want, string(got)); diff != "" {
					t.Errorf("Get() mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, "search-history", []byte(`[]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := s.Delete(ctx, "search-history"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "search-history"); ok {
				t.Error("key still present after delete")
			}
			if err := s.Delete(ctx, "never-written"); err != nil {
				t.Errorf("delete absent key: %v", err)
			}
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	buf := []byte(`["a"]`)
	if err := m.Put(ctx, "k", buf); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf[2] = 'z'

	got, _, _ := m.Get(ctx, "k")
	if diff := cmp.Diff(`["a"]`, string(got)); diff != "" {
		t.Errorf("stored value aliased caller buffer (-want +got):\n%s", diff)
	}
}
