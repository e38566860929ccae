package commands

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/urfave/cli/v3"

	"github.com/k-moto/SkillupPractice6/internal/config"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "memo",
		Usage: "Keep a list of memos in a local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite memo database",
				Value: cfg.MemoDBPath,
			},
			&cli.StringFlag{
				Name:  "database-uri",
				Usage: "Postgres connection string; overrides --db",
				Value: cfg.DatabaseURI,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log database setup",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if !cmd.Bool("verbose") {
				log.SetOutput(io.Discard)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			NewListCommand(),
			NewShowCommand(),
			NewAddCommand(),
			NewEditCommand(),
			NewDeleteCommand(),
			NewClearCommand(),
		},
		DefaultCommand: "list",
	}
}

// withStore opens the configured store for the duration of fn.
func withStore(ctx context.Context, cmd *cli.Command, fn func(repository.MemoStore) error) error {
	store, closer, err := repository.Open(ctx, cmd.String("database-uri"), cmd.String("db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closer.Close()
	return fn(store)
}

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}
