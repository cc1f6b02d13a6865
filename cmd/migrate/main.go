// Command migrate applies the embedded schema to the HalalCheck database.
//
//	migrate [-url postgres://...] up|down|version
//	migrate [-url postgres://...] steps N
//	migrate [-url postgres://...] force N
//
// Without -url the database is resolved from HALALCHECK_DB_* variables the
// same way the server resolves it.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dbURL := flag.String("url", "", "postgres connection URL")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [-url URL] up|down|version|steps N|force N")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(logger, *dbURL, flag.Args()); err != nil {
		logger.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, dbURL string, args []string) error {
	url, err := connString(dbURL)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch cmd := args[0]; cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
		return nil
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s needs a number", cmd)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return fmt.Errorf("%s: %w", cmd, convErr)
		}
		if cmd == "steps" {
			err = m.Steps(n)
		} else {
			err = m.Force(n)
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already current", "command", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("migration complete", "command", args[0])
	return nil
}

// connString prefers the explicit URL, then the server's database settings
// with local development credentials as the fallback.
func connString(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	cfg := database.Config{Name: "halalcheck", User: "halalcheck", Password: "halalcheck"}
	if err := cfg.Finalize(config.DatabaseEnv); err != nil {
		return "", fmt.Errorf("database config: %w", err)
	}
	return cfg.ConnString(), nil
}
