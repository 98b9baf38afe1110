package overlay

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"compintel/internal/model"
	"compintel/internal/storage"
	"compintel/internal/view"
)

func effectiveIDs(ctx context.Context, s *Store) []string {
	var ids []string
	for _, src := range s.Composer(ctx).Sources() {
		ids = append(ids, src.ID)
	}
	return ids
}

func TestAddSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	got, err := s.AddSource(ctx, SourceInput{
		CompetitorID: "cloudforge",
		URL:          " https://github.com/cloudforge/engine ",
		Guidance:     "watch release cadence",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := model.Source{
		ID:           "user-src-id1",
		URL:          "https://github.com/cloudforge/engine",
		Title:        "https://github.com/cloudforge/engine",
		Type:         model.SourceGitHub,
		PublishedAt:  fixedNow,
		ScrapedAt:    fixedNow,
		CompetitorID: "cloudforge",
		Reliability:  model.ReliabilityUnverified,
		Guidance:     "watch release cadence",
		UserAdded:    true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}

	list, _, stats := s.Composer(ctx).SourceList(view.SourceFilter{})
	if diff := cmp.Diff(view.SourceStats{Total: 28, Verified: 25}, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if list[0].ID != "user-src-id1" {
		t.Errorf("newest scraped source = %s, want user-src-id1", list[0].ID)
	}
}

func TestAddSourceValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      SourceInput
		wantErr error
	}{
		{name: "missing url", in: SourceInput{CompetitorID: "skyvault", URL: "  "}, wantErr: ErrMissingURL},
		{name: "missing competitor", in: SourceInput{URL: "https://a.example"}, wantErr: ErrUnknownCompetitor},
		{name: "unknown competitor", in: SourceInput{CompetitorID: "acme", URL: "https://a.example"}, wantErr: ErrUnknownCompetitor},
		{name: "bad type", in: SourceInput{CompetitorID: "skyvault", URL: "https://a.example", Type: "podcast"}, wantErr: ErrInvalidSourceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, storage.NewMemory())
			if _, err := s.AddSource(ctx, tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if n := len(s.UserSources(ctx)); n != 0 {
				t.Errorf("stored %d sources after failure", n)
			}
		})
	}
}

func TestAddSourceCreatesCompetitor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	first, err := s.AddSource(ctx, SourceInput{NewCompetitor: "  Acme   Cloud Co ", URL: "https://acme.example/blog/launch"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.CompetitorID != "acme-cloud-co" || first.Type != model.SourceBlog {
		t.Errorf("source = %+v", first)
	}
	if _, err := s.AddSource(ctx, SourceInput{NewCompetitor: "acme cloud co", URL: "https://acme.example/x"}); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if _, err := s.AddSource(ctx, SourceInput{CompetitorID: "acme-cloud-co", URL: "https://acme.example/y"}); err != nil {
		t.Fatalf("add by id: %v", err)
	}

	want := []model.CompetitorRef{{ID: "acme-cloud-co", Name: "Acme   Cloud Co"}}
	if diff := cmp.Diff(want, s.UserCompetitors(ctx)); diff != "" {
		t.Errorf("user competitors mismatch (-want +got):\n%s", diff)
	}
	refs := s.Composer(ctx).CompetitorRefs()
	if len(refs) != 8 || refs[7].ID != "acme-cloud-co" {
		t.Errorf("CompetitorRefs() = %v", refs)
	}

	// A name matching a baseline competitor reuses it.
	src, err := s.AddSource(ctx, SourceInput{NewCompetitor: "SkyVault", URL: "https://skyvault.io/news"})
	if err != nil {
		t.Fatalf("add baseline name: %v", err)
	}
	if src.CompetitorID != "skyvault" || len(s.UserCompetitors(ctx)) != 1 {
		t.Errorf("baseline competitor duplicated: %+v", s.UserCompetitors(ctx))
	}
}

func TestDeleteUserVersusBaselineSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	added, err := s.AddSource(ctx, SourceInput{CompetitorID: "nimbusscale", URL: "https://nimbusscale.io/press"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.DeleteSource(ctx, added.ID); err != nil {
		t.Fatalf("delete user source: %v", err)
	}
	if n := len(s.UserSources(ctx)); n != 0 {
		t.Errorf("user sources = %d after delete, want 0", n)
	}
	if d := s.DeletedSourceIDs(ctx); len(d) != 0 {
		t.Errorf("user delete touched deletion set: %v", d)
	}

	if err := s.DeleteSource(ctx, "src-3"); err != nil {
		t.Fatalf("delete baseline: %v", err)
	}
	if err := s.DeleteSource(ctx, "src-3"); err != nil {
		t.Fatalf("delete baseline twice: %v", err)
	}
	if diff := cmp.Diff([]string{"src-3"}, s.DeletedSourceIDs(ctx)); diff != "" {
		t.Errorf("deleted ids mismatch (-want +got):\n%s", diff)
	}

	ids := effectiveIDs(ctx, s)
	if len(ids) != 26 || slices.Contains(ids, "src-3") {
		t.Errorf("effective sources = %d, contains src-3 = %v", len(ids), slices.Contains(ids, "src-3"))
	}

	if err := s.DeleteSource(ctx, "src-999"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("unknown delete error = %v, want ErrUnknownSource", err)
	}
}

func TestEditSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	title := "Renamed"
	guidance := "track pricing"
	got, err := s.EditSource(ctx, "src-1", model.SourcePatch{Title: &title})
	if err != nil {
		t.Fatalf("edit baseline: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q", got.Title)
	}
	if _, err := s.EditSource(ctx, "src-1", model.SourcePatch{Guidance: &guidance}); err != nil {
		t.Fatalf("edit baseline again: %v", err)
	}

	p := s.SourceEdits(ctx)["src-1"]
	if p.Title == nil || *p.Title != "Renamed" || p.Guidance == nil || *p.Guidance != "track pricing" {
		t.Errorf("stored patch = %+v", p)
	}
	if n := len(s.UserSources(ctx)); n != 0 {
		t.Errorf("baseline edit created %d user sources", n)
	}

	src, ok := s.Composer(ctx).Source("src-1")
	if !ok || src.Title != "Renamed" || src.Guidance != "track pricing" {
		t.Errorf("effective src-1 = %+v", src)
	}

	added, err := s.AddSource(ctx, SourceInput{CompetitorID: "edgepulse", URL: "https://edgepulse.dev"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	typ := model.SourceDocumentation
	if _, err := s.EditSource(ctx, added.ID, model.SourcePatch{Title: &title, Type: &typ}); err != nil {
		t.Fatalf("edit user source: %v", err)
	}
	user := s.UserSources(ctx)
	if user[0].Title != "Renamed" || user[0].Type != model.SourceDocumentation {
		t.Errorf("user source = %+v", user[0])
	}
	if _, ok := s.SourceEdits(ctx)[added.ID]; ok {
		t.Error("user source edit stored as patch")
	}

	if _, err := s.EditSource(ctx, "src-404", model.SourcePatch{Title: &title}); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("unknown edit error = %v, want ErrUnknownSource", err)
	}
	empty := " "
	if _, err := s.EditSource(ctx, "src-1", model.SourcePatch{URL: &empty}); !errors.Is(err, ErrMissingURL) {
		t.Errorf("blank url error = %v, want ErrMissingURL", err)
	}
}

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		url    string
		want   model.SourceType
		wantOK bool
	}{
		{url: "https://github.com/acme/repo", want: model.SourceGitHub, wantOK: true},
		{url: "https://www.linkedin.com/company/acme", want: model.SourceSocialMedia, wantOK: true},
		{url: "https://x.com/acme", want: model.SourceSocialMedia, wantOK: true},
		{url: "https://www.g2.com/products/acme", want: model.SourceReviewSite, wantOK: true},
		{url: "https://docs.acme.io/start", want: model.SourceDocumentation, wantOK: true},
		{url: "https://acme.readthedocs.io/en/latest", want: model.SourceDocumentation, wantOK: true},
		{url: "https://blog.acme.io/post", want: model.SourceBlog, wantOK: true},
		{url: "https://www.prnewswire.com/news/acme", want: model.SourcePressRelease, wantOK: true},
		{url: "https://jobs.lever.co/acme/123", want: model.SourceJobPosting, wantOK: true},
		{url: "https://techcrunch.com/2026/01/acme", want: model.SourceNewsArticle, wantOK: true},
		{url: "https://acme.io/blog/launch", want: model.SourceBlog, wantOK: true},
		{url: "https://acme.io/newsroom/q4", want: model.SourcePressRelease, wantOK: true},
		{url: "https://acme.io/careers", want: model.SourceJobPosting, wantOK: true},
		{url: "https://acme.io/docs/api", want: model.SourceDocumentation, wantOK: true},
		{url: "https://acme.io/pricing", wantOK: false},
		{url: "not a url", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := DetectSourceType(tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DetectSourceType(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
