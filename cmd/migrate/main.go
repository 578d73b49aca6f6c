package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/learnenglishzero/backend/internal/config"
	"github.com/learnenglishzero/backend/internal/store"
)

func main() {
	Execute()
}

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the users schema",
	Long: `migrate applies and reverts the embedded SQL migrations against the
database named by --database-url or DATABASE_URL.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withStore(func(ctx context.Context, s *store.PostgresStore) error {
		applied, err := s.Migrate(ctx)
		for _, v := range applied {
			pterm.Success.Printfln("applied %04d", v)
		}
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			pterm.Info.Println("schema is up to date")
		}
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: withStore(func(ctx context.Context, s *store.PostgresStore) error {
		v, err := s.Rollback(ctx)
		if err != nil {
			return err
		}
		if v == 0 {
			pterm.Info.Println("nothing to roll back")
			return nil
		}
		pterm.Success.Printfln("rolled back %04d", v)
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: withStore(func(ctx context.Context, s *store.PostgresStore) error {
		list, err := s.Status(ctx)
		if err != nil {
			return err
		}
		data := pterm.TableData{{"Version", "Name", "Applied"}}
		for _, m := range list {
			applied := "pending"
			if m.AppliedAt != nil {
				applied = m.AppliedAt.Format(time.RFC3339)
			}
			data = append(data, []string{fmt.Sprintf("%04d", m.Version), m.Name, applied})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}),
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func withStore(fn func(ctx context.Context, s *store.PostgresStore) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dsn := databaseURL
		if dsn == "" {
			dsn = config.Get().DatabaseURL
		}
		if dsn == "" {
			return errors.New("no database configured: set DATABASE_URL or pass --database-url")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pool, err := store.NewPostgresPool(ctx, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()

		return fn(ctx, store.NewPostgresStore(pool))
	}
}
