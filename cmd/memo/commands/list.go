package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/k-moto/SkillupPractice6/internal/format"
	"github.com/k-moto/SkillupPractice6/internal/memolist"
	"github.com/k-moto/SkillupPractice6/internal/repository"
)

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List memos, most recently updated first",
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	return withStore(ctx, cmd, func(store repository.MemoStore) error {
		list := memolist.New(store)
		if err := list.Refresh(ctx); err != nil {
			return err
		}

		w := out(cmd)
		if list.Len() > 0 {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROW\tID\tTITLE\tUPDATED")
			now := time.Now()
			for i, m := range list.Items() {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n",
					i+1, m.ID, format.Truncate(m.Title, 40), format.DateStyle(m.UpdateDate, now))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, list.CountLabel())
		return err
	})
}
