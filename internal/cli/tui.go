package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/ui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				return ui.RunTUI(s)
			})
		},
	}
}
