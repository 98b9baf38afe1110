package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"compintel/internal/bot"
	"compintel/internal/catalog"
	"compintel/internal/config"
	"compintel/internal/feedimport"
	"compintel/internal/overlay"
	"compintel/internal/storage"
	"compintel/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	cmd, args := "bot", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "bot":
		err = runBot(cfg, log)
	case "migrate":
		err = runMigrate(cfg, args)
	case "import":
		err = runImport(cfg, log, args)
	default:
		err = fmt.Errorf("unknown command %q, use: bot, migrate, import", cmd)
	}
	if err != nil {
		log.Error(cmd, "error", err)
		os.Exit(1)
	}
}

func runBot(cfg *config.Config, log *slog.Logger) error {
	if err := cfg.RequireBot(); err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.CatalogPath, log)
	if err != nil {
		return err
	}

	kv, err := openStorage(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	store := overlay.New(kv, cat, log)

	b, err := bot.New(cfg.TelegramBotToken, store, cat, cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "database", cfg.DatabasePath, "competitors", len(cat.Competitors()))

	b.Run(ctx)

	log.Info("bot stopped")
	return nil
}

func runMigrate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DatabasePath, "path to sqlite database")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: compintel migrate [-db path] <command>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  up          Migrate to the latest version")
		fmt.Fprintln(os.Stderr, "  up-one      Migrate one version up")
		fmt.Fprintln(os.Stderr, "  down        Roll back one version")
		fmt.Fprintln(os.Stderr, "  status      Show migration status")
		fmt.Fprintln(os.Stderr, "  version     Show current version")
		fmt.Fprintln(os.Stderr, "  reset       Roll back all migrations")
	}
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	if err := ensureDir(*dbPath); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return migrations.Exec(db, fs.Arg(0))
}

func runImport(cfg *config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	competitor := fs.String("competitor", "", "competitor id the imported sources belong to")
	file := fs.String("file", "", "path to an RSS, Atom or JSON feed file")
	include := fs.String("include", "", "comma-separated include patterns, /regex/ allowed")
	exclude := fs.String("exclude", "", "comma-separated exclude patterns, /regex/ allowed")
	_ = fs.Parse(args)

	if *competitor == "" || *file == "" {
		fs.Usage()
		os.Exit(2)
	}

	rules, err := feedimport.ParseRules(*include, *exclude)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.CatalogPath, log)
	if err != nil {
		return err
	}
	kv, err := openStorage(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	store := overlay.New(kv, cat, log)
	ctx := context.Background()

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := feedimport.New(store, log).Import(ctx, f, *competitor, rules, store.Composer(ctx).Sources())
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d source(s) from %q, skipped %d already known.\n", len(res.Added), res.FeedTitle, res.Skipped)
	for _, s := range res.Added {
		fmt.Printf("  %s [%s] %s\n", s.ID, s.Type, s.Title)
	}
	return nil
}

// loadCatalog returns the embedded corpus, or the one at path when set.
// Dangling cross references are logged and kept; views leave them out.
func loadCatalog(path string, log *slog.Logger) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	cat, err := catalog.Load(f)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		log.Warn("catalog has dangling references", "path", path, "error", err)
	}
	return cat, nil
}

func openStorage(path string) (*storage.SQLite, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	kv, err := storage.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return kv, nil
}

func ensureDir(dbPath string) error {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
