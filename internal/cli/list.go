package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/podote/internal/model"
	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/ui"
)

type listOptions struct {
	group bool
	json  bool
	watch bool
}

func newListCmd(app *App) *cobra.Command {
	var opt listOptions
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if err := printList(out, s.Items(), opt); err != nil {
				return err
			}
			if !opt.watch {
				return nil
			}
			return app.watchList(cmd.Context(), out, opt)
		},
	}
	cmd.Flags().BoolVar(&opt.group, "group", false, "group by pending/done")
	cmd.Flags().BoolVar(&opt.json, "json", false, "print items as JSON")
	cmd.Flags().BoolVar(&opt.watch, "watch", false, "reprint whenever the list changes on disk")
	return cmd
}

func printList(w io.Writer, items []model.Item, opt listOptions) error {
	if opt.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	}
	fmt.Fprintln(w, ui.ListPanel(items, opt.group))
	return nil
}

// watchList reprints the list each time its backing file changes, until
// interrupted.
func (a *App) watchList(parent context.Context, w io.Writer, opt listOptions) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, closeFn, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	a.logger.Debug("watching", "path", b.Path())
	return store.Watch(ctx, b.Path(), store.DefaultDebounce, func() {
		items, found, err := b.Load(ctx)
		if err != nil {
			a.logger.Warn("reload failed", "path", b.Path(), "err", err)
			return
		}
		if !found {
			items = nil
		}
		if err := printList(w, items, opt); err != nil {
			a.logger.Warn("print failed", "err", err)
		}
	}, a.logger)
}
