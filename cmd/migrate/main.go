package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

func main() {
	var (
		dsn  = flag.String("dsn", defaultDSN(), "PostgreSQL connection string")
		path = flag.String("path", "internal/repository/postgres/migrations", "migrations directory")
		down = flag.Bool("down", false, "roll back one migration instead of migrating up")
	)
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	m, err := migrate.New("file://"+*path, *dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize migrator")
	}
	defer m.Close()

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info().Msg("no pending migrations")
		return
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("migrations applied")
}

func defaultDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := envOr("BOTSHOP_DATABASE_HOST", "localhost")
	port := envOr("BOTSHOP_DATABASE_PORT", "5432")
	user := envOr("BOTSHOP_DATABASE_USER", "botshop")
	pass := os.Getenv("BOTSHOP_DATABASE_PASSWORD")
	name := envOr("BOTSHOP_DATABASE_DATABASE", "botshop")
	ssl := envOr("BOTSHOP_DATABASE_SSL_MODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, ssl)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
