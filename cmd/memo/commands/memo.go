package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/k-moto/SkillupPractice6/internal/entry"
	"github.com/k-moto/SkillupPractice6/internal/memolist"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

// NewShowCommand returns the show subcommand.
func NewShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a memo",
		ArgsUsage: "<id>",
		Action:    runShow,
	}
}

// NewAddCommand returns the add subcommand.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a memo; the first line is the title. Reads stdin without arguments",
		ArgsUsage: "[content]",
		Action:    runAdd,
	}
}

// NewEditCommand returns the edit subcommand.
func NewEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Replace a memo's content, or print it when no content is given",
		ArgsUsage: "<id> [content]",
		Action:    runEdit,
	}
}

// NewDeleteCommand returns the delete subcommand.
func NewDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a row of the list",
		ArgsUsage: "<row>",
		Action:    runDelete,
	}
}

// NewClearCommand returns the clear subcommand.
func NewClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every memo",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Confirm deletion",
			},
		},
		Action: runClear,
	}
}

func intArg(cmd *cli.Command, name string) (int, error) {
	s := cmd.Args().First()
	if s == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		memo, ok, err := store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("memo %d not found", id)
		}

		w := out(cmd)
		fmt.Fprintf(w, "#%d %s\n", memo.ID, memo.Title)
		if memo.Text != "" {
			fmt.Fprintln(w, memo.Text)
		}
		fmt.Fprintf(w, "\ncreated %s\nupdated %s\n",
			memo.CreateDate.Format("2006/01/02 15:04"),
			memo.UpdateDate.Format("2006/01/02 15:04"))
		return nil
	})
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	content := strings.Join(cmd.Args().Slice(), " ")
	if content == "" {
		data, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = strings.TrimSuffix(string(data), "\n")
	}

	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		memo, saved, err := entry.New(store).Commit(ctx, 0, content)
		if err != nil {
			return err
		}
		if saved {
			fmt.Fprintf(out(cmd), "added #%d %s\n", memo.ID, memo.Title)
		}
		return nil
	})
}

func runEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}
	content := strings.Join(cmd.Args().Tail(), " ")

	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		editor := entry.New(store)

		if content == "" {
			current, err := editor.Open(ctx, id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out(cmd), current)
			return err
		}

		memo, saved, err := editor.Commit(ctx, id, content)
		if err != nil {
			return err
		}
		if !saved {
			return fmt.Errorf("memo %d not found", id)
		}
		fmt.Fprintf(out(cmd), "updated #%d %s\n", memo.ID, memo.Title)
		return nil
	})
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	row, err := intArg(cmd, "row")
	if err != nil {
		return err
	}

	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		list := memolist.New(store)
		if err := list.Refresh(ctx); err != nil {
			return err
		}

		memo, err := list.DeleteAt(ctx, row-1)
		if errors.Is(err, memolist.ErrIndexOutOfRange) {
			return fmt.Errorf("no row %d (%s)", row, list.CountLabel())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "deleted #%d %s\n%s\n", memo.ID, memo.Title, list.CountLabel())
		return nil
	})
}

func runClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return errors.New("refusing to delete every memo without --yes")
	}

	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		list := memolist.New(store)
		if err := list.DeleteAll(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out(cmd), list.CountLabel())
		return err
	})
}
