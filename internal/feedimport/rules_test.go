package feedimport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustRules(t *testing.T, include, exclude string) Rules {
	t.Helper()
	r, err := ParseRules(include, exclude)
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	return r
}

func TestRulesMatch(t *testing.T) {
	tests := []struct {
		name    string
		include string
		exclude string
		title   string
		desc    string
		want    bool
	}{
		{name: "no rules passes everything", title: "anything", desc: "whatever", want: true},
		{name: "include word matches", include: "gpu", title: "GPU Fleet launch", want: true},
		{name: "include word no match", include: "gpu", title: "Storage update", want: false},
		{name: "include matches description", include: "pricing", title: "Update", desc: "new PRICING tiers", want: true},
		{name: "any include is enough", include: "gpu, pricing", title: "pricing change", want: true},
		{name: "exclude word blocks match", exclude: "hiring", title: "We are hiring", want: false},
		{name: "exclude wins over include", include: "storage", exclude: "hiring", title: "hiring storage engineers", want: false},
		{name: "regex include", include: `/series [a-d]/`, title: "Closes Series C round", want: true},
		{name: "regex exclude", exclude: `/^we are/`, title: "We are hiring", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRules(t, tt.include, tt.exclude).Match(tt.title, tt.desc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRulesInvalidRegex(t *testing.T) {
	if _, err := ParseRules(`/[unclosed/`, ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}
