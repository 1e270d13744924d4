package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/podote/internal/config"
	"github.com/idilsaglam/podote/internal/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if write {
				path := app.ConfigPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := app.cfg.Save(path); err != nil {
					return err
				}
				ui.OK(out, "wrote "+path)
				return nil
			}
			b, err := yaml.Marshal(app.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = out.Write(b)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")
	return cmd
}
