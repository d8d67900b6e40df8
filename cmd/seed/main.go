package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shelf/internal/book"
	"shelf/internal/config"
	"shelf/internal/platform/openlibrary"
	"shelf/internal/platform/postgres"
	"shelf/internal/seed"
)

type options struct {
	count    int
	subjects []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newSeedCmd(seedBooks).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd(run func(ctx context.Context, opts options) error) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with books from Open Library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&opts.count, "count", seed.DefaultTarget, "Number of books to seed")
	cmd.Flags().StringSliceVar(&opts.subjects, "subjects", seed.DefaultSubjects, "Open Library subjects to import, in order")
	return cmd
}

func seedBooks(ctx context.Context, opts options) error {
	config.LoadEnvFiles()
	cfg := config.New()

	pool, err := postgres.Open(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database (%s): %w", config.RedactDSN(cfg.DSN), err)
	}
	defer pool.Close()

	books := book.NewService(book.NewPostgresRepo(pool, cfg.Database.Timeout))
	client := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent)

	seedCfg := seed.DefaultConfig()
	seedCfg.Subjects = opts.subjects

	logger := log.New(os.Stdout, "", 0)
	seeder := seed.NewSeeder(client, books, seed.NewDelayPacer(cfg.Seed.Delay), seedCfg, logger)
	seeder.Run(ctx, opts.count)
	return nil
}
