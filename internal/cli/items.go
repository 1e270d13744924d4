package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/podote/internal/doc"
	"github.com/idilsaglam/podote/internal/model"
	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/ui"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item at the top (title can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			return app.withStore(cmd, func(s *store.Store) error {
				if _, err := s.Add(title); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "added")
				return nil
			})
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  exactArgs(1, "usage: podote done <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				it, err := itemAt(s, "done", args[0])
				if err != nil {
					return err
				}
				if err := s.Toggle(it.ID); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "toggled")
				return nil
			})
		},
	}
}

func newEditableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "editable <index>",
		Short: "Make the item at a 1-based index the one being edited",
		Args:  exactArgs(1, "usage: podote editable <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				it, err := itemAt(s, "editable", args[0])
				if err != nil {
					return err
				}
				if err := s.SetEditable(it.ID); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "editing "+it.Title())
				return nil
			})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var text, file string
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Replace the title or the whole document of an item",
		Long: `Replace the title of an item with --text, or its whole rich-text
document with --file. The file holds the document as JSON; use - for stdin.`,
		Args: exactArgs(1, "usage: podote edit <index> (--text <title> | --file <path>)"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (text == "") == (file == "") {
				return usagef("edit: give exactly one of --text or --file")
			}
			var content doc.Document
			if file != "" {
				d, err := readDocument(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				content = d
			}
			return app.withStore(cmd, func(s *store.Store) error {
				it, err := itemAt(s, "edit", args[0])
				if err != nil {
					return err
				}
				if file == "" {
					content = doc.WithTitle(it.Content, strings.TrimSpace(text))
				}
				if err := s.Edit(it.ID, content); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "edited")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "new title")
	cmd.Flags().StringVar(&file, "file", "", "JSON document to store (- reads stdin)")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move an item from one 1-based position to another",
		Args:  exactArgs(2, "usage: podote mv <from> <to>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				from, err := parseIndex("mv", args[0], s.Len())
				if err != nil {
					return err
				}
				to, err := parseIndex("mv", args[1], s.Len())
				if err != nil {
					return err
				}
				if err := s.Drag(from, to); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "moved")
				return nil
			})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove the item at a 1-based index",
		Args:    exactArgs(1, "usage: podote rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd, func(s *store.Store) error {
				it, err := itemAt(s, "rm", args[0])
				if err != nil {
					return err
				}
				if err := s.Remove(it.ID); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}

// exactArgs is cobra.ExactArgs with the usage line as its error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{msg: usage}
		}
		return nil
	}
}

// itemAt resolves a 1-based index argument to the item at that position.
func itemAt(s *store.Store, cmd, arg string) (model.Item, error) {
	i, err := parseIndex(cmd, arg, s.Len())
	if err != nil {
		return model.Item{}, err
	}
	return s.At(i)
}

func readDocument(stdin io.Reader, path string) (doc.Document, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return doc.Document{}, fmt.Errorf("read document: %w", err)
	}
	d, err := doc.Parse(b)
	if err != nil {
		return doc.Document{}, usagef("edit: %v", err)
	}
	return d, nil
}
