// Package migrations provides the table helpers used by migration files and
// the command dispatcher behind cmd/relayer/migrate.
package migrations

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const usageText = `Usage:
  go run cmd/relayer/migrate/main.go [-config path] <command>

Commands:
  init    create the bun_migrations bookkeeping tables
  up      apply every pending migration as one group
  down    roll back the most recent group
  status  list applied and pending migrations

Examples:
  go run cmd/relayer/migrate/main.go -config config.yaml init
  go run cmd/relayer/migrate/main.go -config config.yaml up
`

// Usage prints command usage
func Usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
}

// Exitf prints the message followed by usage and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n\n", args...)
	Usage()
	os.Exit(1)
}

// CreateSchema creates a table per model, skipping tables that exist.
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
		log.Printf("created table for %T", model)
	}
	return nil
}

// DropTables drops the table of every model with CASCADE.
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
		log.Printf("dropped table for %T", model)
	}
	return nil
}

// CreateModelIndexes adds one idx_<table>_<column> index per column.
func CreateModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	if model == nil {
		return fmt.Errorf("model cannot be nil")
	}
	table := strings.Trim(db.NewCreateIndex().Model(model).GetTableName(), `"`)
	if table == "" {
		return fmt.Errorf("failed to resolve table name for model %T", model)
	}
	table = strings.NewReplacer(`"`, "", ".", "_").Replace(table)

	for _, column := range columns {
		name := "idx_" + table + "_" + column
		_, err := db.NewCreateIndex().
			Model(model).
			Index(name).
			Column(column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

type command func(ctx context.Context, m *migrate.Migrator) error

var commands = map[string]command{
	"init":   initTables,
	"up":     locked(migrateUp),
	"down":   locked(rollback),
	"status": status,
}

// RunMigrations executes the command named by args[0] against migrator.
func RunMigrations(migrator *migrate.Migrator, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return cmd(context.Background(), migrator)
}

// locked holds the migration lock for the duration of fn.
func locked(fn command) command {
	return func(ctx context.Context, m *migrate.Migrator) error {
		if err := m.Lock(ctx); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer func() {
			if err := m.Unlock(ctx); err != nil {
				log.Printf("failed to release migration lock: %v", err)
			}
		}()
		return fn(ctx, m)
	}
}

func initTables(ctx context.Context, m *migrate.Migrator) error {
	if err := m.Init(ctx); err != nil {
		return err
	}
	log.Println("migration tables ready")
	return nil
}

func migrateUp(ctx context.Context, m *migrate.Migrator) error {
	group, err := m.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Println("database is up to date")
		return nil
	}
	log.Printf("applied %s", group)
	return nil
}

func rollback(ctx context.Context, m *migrate.Migrator) error {
	group, err := m.Rollback(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Println("nothing to roll back")
		return nil
	}
	log.Printf("rolled back %s", group)
	return nil
}

func status(ctx context.Context, m *migrate.Migrator) error {
	ms, err := m.MigrationsWithStatus(ctx)
	if err != nil {
		return err
	}
	for _, mig := range ms {
		state := "pending"
		if mig.IsApplied() {
			state = fmt.Sprintf("applied (group %d)", mig.GroupID)
		}
		log.Printf("%-45s %s", mig.Name, state)
	}
	log.Printf("last group: %s", ms.LastGroup())
	return nil
}
