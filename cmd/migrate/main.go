// Applies pending SQL migrations from db/ in filename order. Applied files
// are recorded in the migrations table; each file and its record commit in
// a single transaction.
// Usage: go run ./cmd/migrate (from the repository root)
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hydrofit-bot/internal/config"
	"hydrofit-bot/internal/store"
)

func main() {
	log.SetPrefix("hydrofit-migrate: ")
	log.SetFlags(0)

	cfg := config.Load()
	ctx := context.Background()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	ran, err := migrate(ctx, pool, "db")
	if err != nil {
		log.Fatal(err)
	}
	if ran == 0 {
		log.Println("no pending migrations")
	} else {
		log.Printf("%d migration(s) applied", ran)
	}
}

func migrate(ctx context.Context, pool *pgxpool.Pool, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no migration files in %s", dir)
	}
	sort.Strings(files)

	applied, err := appliedMigrations(ctx, pool)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, f := range files {
		name := filepath.Base(f)
		if applied[name] {
			log.Printf("skip: %s", name)
			continue
		}
		if err := applyOne(ctx, pool, f, name); err != nil {
			return ran, err
		}
		log.Printf("applied: %s", name)
		ran++
	}
	return ran, nil
}

// appliedMigrations reads the migrations table. On the very first run the
// table does not exist yet, which reads as nothing applied.
func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check migrations table: %w", err)
	}

	applied := make(map[string]bool)
	if !exists {
		return applied, nil
	}

	rows, err := pool.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("query migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, path, name string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO migrations (migration, description) VALUES ($1, $2)",
		name, descriptionFromFilename(name)); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

var filenamePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".sql")
	name = filenamePrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
