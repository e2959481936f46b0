package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"chegoou/db"
)

// Schema migrations ship inside the binary so `chegoou migrate` works from
// any working directory. Files run in lexical order inside one transaction.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

func applyMigrations(ctx context.Context, verbose bool) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, name := range names {
		stmt, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if verbose {
			fmt.Println("Migration", name, "applied.")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("%d migration(s) applied.\n", len(names))
	}
	return nil
}
