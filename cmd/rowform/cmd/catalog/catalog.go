// Package catalog provides commands for inspecting and editing catalog
// namespaces.
package catalog

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform"
)

// AppContext defines the interface the catalog commands need from the app.
type AppContext interface {
	Engine() (rowform.Engine, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewCommand creates the catalog command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: "management",
		Short:   "Inspect and edit catalog vocabularies",
		Long: `Catalog inspects and edits the namespace vocabularies the engine
reconciles against.

Available subcommands:
  namespaces  - list namespaces and their entry counts
  entries     - list the entries of one namespace
  set         - insert or replace an entry (writable backends only)
  delete      - remove an entry (writable backends only)`,
		Example: `  rowform catalog namespaces
  rowform catalog entries color
  rowform catalog set color Crimson 07 --aliases "deep red,blood red"
  rowform catalog delete color Crimson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to help if no subcommand
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown subcommand: %s", args[0])
		},
	}

	cmd.AddCommand(newNamespacesCommand(app))
	cmd.AddCommand(newEntriesCommand(app))
	cmd.AddCommand(newSetCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}
