package bot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"compintel/internal/model"
	"compintel/internal/view"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Args
		wantErr bool
	}{
		{
			name:  "empty",
			input: "",
			want:  Args{},
		},
		{
			name:  "words and options",
			input: "gpu clusters window=7d sort=recent",
			want: Args{
				Words: []string{"gpu", "clusters"},
				Opts:  map[string]string{"window": "7d", "sort": "recent"},
			},
		},
		{
			name:  "quoted option value",
			input: `src-3 title="GPU fleet expansion" type=blog`,
			want: Args{
				Words: []string{"src-3"},
				Opts:  map[string]string{"title": "GPU fleet expansion", "type": "blog"},
			},
		},
		{
			name:  "quoted word with equals stays a word",
			input: `"a=b" c`,
			want:  Args{Words: []string{"a=b", "c"}},
		},
		{
			name:  "option keys are case-insensitive",
			input: "Window=24h",
			want:  Args{Opts: map[string]string{"window": "24h"}},
		},
		{
			name:  "quoted competitor name",
			input: `"Acme Cloud Co" https://acme.example.com`,
			want:  Args{Words: []string{"Acme Cloud Co", "https://acme.example.com"}},
		},
		{
			name:  "url with query string stays a word",
			input: "nimbusscale https://news.example.com/article?id=42 type=news",
			want: Args{
				Words: []string{"nimbusscale", "https://news.example.com/article?id=42"},
				Opts:  map[string]string{"type": "news"},
			},
		},
		{
			name:  "url option value keeps its query",
			input: "url=https://example.com/a?b=c&d=e",
			want:  Args{Opts: map[string]string{"url": "https://example.com/a?b=c&d=e"}},
		},
		{
			name:  "host path with equals stays a word",
			input: "example.com/search?q=gpu",
			want:  Args{Words: []string{"example.com/search?q=gpu"}},
		},
		{
			name:    "unterminated quote",
			input:   `title="open`,
			wantErr: true,
		},
		{
			name:    "missing option name",
			input:   "=7d",
			wantErr: true,
		},
		{
			name:    "duplicate option",
			input:   "window=7d window=30d",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func mustArgs(t *testing.T, s string) Args {
	t.Helper()
	a, err := ParseArgs(s)
	if err != nil {
		t.Fatalf("parse args %q: %v", s, err)
	}
	return a
}

func TestParseInsightFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     view.InsightFilter
		wantMode view.SortMode
		wantErr  string
	}{
		{
			name:     "defaults",
			input:    "",
			wantMode: view.SortRelevant,
		},
		{
			name:  "all options",
			input: "q=gpu window=30d competitor=NimbusScale category=Product impact=high status=new verification=pending sort=recent",
			want: view.InsightFilter{
				Search:       "gpu",
				Window:       view.Window30d,
				Competitor:   "nimbusscale",
				Category:     model.CategoryProduct,
				Impact:       model.ImpactHigh,
				Status:       model.StatusNew,
				Verification: model.VerificationPending,
			},
			wantMode: view.SortRecent,
		},
		{
			name:     "bare words search",
			input:    "enterprise takeover impact=high",
			want:     view.InsightFilter{Search: "enterprise takeover", Impact: model.ImpactHigh},
			wantMode: view.SortRelevant,
		},
		{
			name:     "window all",
			input:    "window=all",
			wantMode: view.SortRelevant,
		},
		{name: "unknown option", input: "color=red", wantErr: `unknown option "color"`},
		{name: "bad window", input: "window=3d", wantErr: "unknown date window"},
		{name: "bad impact", input: "impact=extreme", wantErr: `invalid impact "extreme"`},
		{name: "bad sort", input: "sort=oldest", wantErr: "unknown sort order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, mode, err := ParseInsightFilter(mustArgs(t, tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, f); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantMode, mode); diff != "" {
				t.Errorf("mode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSignalFilter(t *testing.T) {
	f, mode, err := ParseSignalFilter(mustArgs(t, "window=7d strength=strong category=hiring sort=recent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := view.SignalFilter{Window: view.Window7d, Strength: model.StrengthStrong, Category: model.CategoryHiring}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(view.SortRecent, mode); diff != "" {
		t.Errorf("mode mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := ParseSignalFilter(mustArgs(t, "strength=huge")); err == nil {
		t.Error("expected error for invalid strength")
	}
	if _, _, err := ParseSignalFilter(mustArgs(t, "impact=high")); err == nil {
		t.Error("expected error for option not valid on signals")
	}
}

func TestParseSourceAndCompetitorFilters(t *testing.T) {
	sf, err := ParseSourceFilter(mustArgs(t, "series funding type=press-release competitor=cloudforge"))
	if err != nil {
		t.Fatalf("source filter: %v", err)
	}
	wantSF := view.SourceFilter{Search: "series funding", Type: model.SourcePressRelease, Competitor: "cloudforge"}
	if diff := cmp.Diff(wantSF, sf); diff != "" {
		t.Errorf("source filter mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseSourceFilter(mustArgs(t, "type=podcast")); err == nil {
		t.Error("expected error for invalid source type")
	}

	cf, err := ParseCompetitorFilter(mustArgs(t, "q=kubernetes threat=critical type=direct"))
	if err != nil {
		t.Fatalf("competitor filter: %v", err)
	}
	wantCF := view.CompetitorFilter{Search: "kubernetes", Threat: model.ThreatCritical, Type: model.CompetitorDirect}
	if diff := cmp.Diff(wantCF, cf); diff != "" {
		t.Errorf("competitor filter mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParseCompetitorFilter(mustArgs(t, "threat=severe")); err == nil {
		t.Error("expected error for invalid threat")
	}
}

func TestParseReviewArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ReviewArgs
		wantErr bool
	}{
		{
			name:  "defaults",
			input: "",
			want:  ReviewArgs{Tab: view.TabPending, Order: view.ReviewByImpact},
		},
		{
			name:  "tab and options",
			input: "Verified category=funding competitor=quantumbase sort=recent",
			want: ReviewArgs{
				Tab:    view.TabVerified,
				Filter: view.ReviewFilter{Category: model.CategoryFunding, Competitor: "quantumbase"},
				Order:  view.ReviewByRecent,
			},
		},
		{name: "unknown tab", input: "archived", wantErr: true},
		{name: "two tabs", input: "pending rejected", wantErr: true},
		{name: "bad sort", input: "sort=relevant", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewArgs(mustArgs(t, tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseReviewArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSourcePatch(t *testing.T) {
	title := "GPU fleet"
	typ := model.SourceNewsArticle
	comp := "cloudforge"

	got, err := ParseSourcePatch(mustArgs(t, `src-1 title="GPU fleet" type=news-article competitor=CloudForge`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.SourcePatch{Title: &title, Type: &typ, CompetitorID: &comp}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseSourcePatch() mismatch (-want +got):\n%s", diff)
	}

	errCases := map[string]string{
		"no fields":     "src-1",
		"empty title":   `src-1 title=""`,
		"bad type":      "src-1 type=podcast",
		"unknown field": "src-1 reliability=verified",
	}
	for name, input := range errCases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSourcePatch(mustArgs(t, input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseIDText(t *testing.T) {
	tests := []struct {
		input    string
		wantID   string
		wantText string
		wantErr  bool
	}{
		{input: "ins-4", wantID: "ins-4"},
		{input: "ins-4   Confirmed with the field team ", wantID: "ins-4", wantText: "Confirmed with the field team"},
		{input: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, text, err := ParseIDText(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff([]string{tt.wantID, tt.wantText}, []string{id, text}); diff != "" {
				t.Errorf("ParseIDText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejectArgs(t *testing.T) {
	id, reason, err := ParseRejectArgs("ins-5 Low-Relevance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "ins-5" || reason != model.ReasonLowRelevance {
		t.Errorf("ParseRejectArgs() = %q, %q", id, reason)
	}

	for _, input := range []string{"", "ins-5", "ins-5 boring", "ins-5 duplicate extra"} {
		if _, _, err := ParseRejectArgs(input); err == nil {
			t.Errorf("ParseRejectArgs(%q): expected error", input)
		}
	}
}

func TestParseSearchArgs(t *testing.T) {
	tests := []struct {
		input     string
		wantScope view.SearchScope
		wantQuery string
		wantErr   bool
	}{
		{input: "gpu clusters", wantScope: view.ScopeAll, wantQuery: "gpu clusters"},
		{input: "signals gpu", wantScope: view.ScopeSignals, wantQuery: "gpu"},
		{input: "Competitors cloud", wantScope: view.ScopeCompetitors, wantQuery: "cloud"},
		{input: "insights", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scope, q, err := ParseSearchArgs(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if scope != tt.wantScope || q != tt.wantQuery {
				t.Errorf("ParseSearchArgs() = %q, %q; want %q, %q", scope, q, tt.wantScope, tt.wantQuery)
			}
		})
	}
}
