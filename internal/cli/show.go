package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/ui"
)

const showWidth = 80

func newShowCmd(app *App) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Render the full document of an item",
		Args:  exactArgs(1, "usage: podote show <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				it, err := itemAt(s, "show", args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if plain {
					fmt.Fprint(out, doc.Markdown(it.Content))
					return nil
				}
				style := ""
				if !isTerminal(out) {
					style = "notty"
				}
				fmt.Fprint(out, ui.RenderDocument(it.Content, style, showWidth))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print markdown without styling")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
