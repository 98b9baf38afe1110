package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const danglingCorpus = `
competitors:
  - id: "acme"
    slug: "acme"
    name: "Acme"
signals:
  - id: "sig-1"
    competitor_id: "acme"
    source_id: "src-missing"
    title: "Price cut"
    detected_at: 2026-02-01T10:00:00Z
`

func writeCorpus(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalogKeepsDanglingReferences(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	cat, err := loadCatalog(writeCorpus(t, danglingCorpus), log)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if _, ok := cat.Signal("sig-1"); !ok {
		t.Error("sig-1 missing from loaded catalog")
	}
	if _, ok := cat.Competitor("acme"); !ok {
		t.Error("acme missing from loaded catalog")
	}
	if !strings.Contains(logs.String(), "unknown source src-missing") {
		t.Errorf("expected a warning about src-missing, got logs:\n%s", logs.String())
	}
}

func TestLoadCatalog(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{name: "embedded default", path: func(*testing.T) string { return "" }},
		{name: "file", path: func(t *testing.T) string { return writeCorpus(t, danglingCorpus) }},
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.yaml") }, wantErr: true},
		{name: "malformed yaml", path: func(t *testing.T) string { return writeCorpus(t, "competitors: [") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := loadCatalog(tt.path(t), log)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cat == nil {
				t.Error("loadCatalog() returned nil catalog")
			}
		})
	}
}
