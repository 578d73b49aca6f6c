package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool opens a pool on dsn and pings it.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// PostgresStore owns the users schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies every pending up migration in version order. It returns
// the versions that were applied.
func (s *PostgresStore) Migrate(ctx context.Context) ([]int, error) {
	migs, err := loadMigrations(migrationsFS)
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var done []int
	for _, m := range migs {
		if _, ok := applied[m.version]; ok {
			continue
		}
		if m.upFile == "" {
			return done, fmt.Errorf("missing up migration for version %04d", m.version)
		}
		text, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return done, err
		}
		err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(text)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name)
			return err
		})
		if err != nil {
			return done, fmt.Errorf("migration %04d_%s: %w", m.version, m.name, err)
		}
		done = append(done, m.version)
	}
	return done, nil
}

// Rollback reverts the most recently applied migration. It returns 0 when
// nothing is applied.
func (s *PostgresStore) Rollback(ctx context.Context) (int, error) {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}
	var version int
	err := s.pool.QueryRow(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	migs, err := loadMigrations(migrationsFS)
	if err != nil {
		return 0, err
	}
	var downFile string
	for _, m := range migs {
		if m.version == version {
			downFile = m.downFile
		}
	}
	if downFile == "" {
		return 0, fmt.Errorf("no down migration found for version %04d", version)
	}
	text, err := migrationsFS.ReadFile(downFile)
	if err != nil {
		return 0, err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(text)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("rollback %04d: %w", version, err)
	}
	return version, nil
}

// Status lists every known migration and whether it has been applied.
func (s *PostgresStore) Status(ctx context.Context) ([]MigrationStatus, error) {
	migs, err := loadMigrations(migrationsFS)
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(migs))
	for _, m := range migs {
		st := MigrationStatus{Version: m.version, Name: m.name}
		if at, ok := applied[m.version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *PostgresStore) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER      PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
