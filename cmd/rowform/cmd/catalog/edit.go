package catalog

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform/internal/cmd/emoji"
	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// newSetCommand creates the catalog set subcommand.
func newSetCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set NAMESPACE NAME CODE",
		Short: "Insert or replace a catalog entry",
		Long: `Set inserts or replaces one entry in a namespace. An entry with the
same canonical name is overwritten, so set doubles as update.

Only writable backends (sqlite, postgres, in-memory) accept writes.`,
		Example: `  rowform catalog set color Crimson 07
  rowform catalog set color Crimson 07 --aliases "deep red,blood red" --data hex=#DC143C`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args, app)
		},
	}

	cmd.Flags().StringSlice("aliases", nil, "alias values in priority order (comma-separated)")
	cmd.Flags().StringSlice("data", nil, "extra data columns as key=value pairs")

	return cmd
}

// runSet upserts one entry.
func runSet(cmd *cobra.Command, args []string, app AppContext) error {
	eng, err := app.Engine()
	if err != nil {
		return err
	}
	writer, err := writableSource(eng.Source())
	if err != nil {
		return err
	}

	extra, err := parseDataPairs(mustGetStringSlice(cmd, "data"))
	if err != nil {
		return err
	}

	now := utc.Now()
	entry := catalogs.Entry{
		Namespace: catalogs.Namespace(args[0]),
		Name:      args[1],
		Code:      args[2],
		Aliases:   mustGetStringSlice(cmd, "aliases"),
		ExtraData: extra,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := writer.SetEntry(cmd.Context(), entry); err != nil {
		return err
	}

	// The engine caches namespaces after first read; drop the cache so
	// the next command sees the write.
	eng.Catalog().Clear()

	app.Logger().Info().
		Str("namespace", args[0]).
		Str("name", args[1]).
		Str("code", args[2]).
		Msg("Catalog entry written")

	fmt.Printf("%s Entry %s/%s written\n", emoji.Success, args[0], args[1])
	return nil
}

// newDeleteCommand creates the catalog delete subcommand.
func newDeleteCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAMESPACE NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a catalog entry",
		Example: `  rowform catalog delete color Crimson`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args, app)
		},
	}
}

// runDelete removes one entry by canonical name.
func runDelete(cmd *cobra.Command, args []string, app AppContext) error {
	eng, err := app.Engine()
	if err != nil {
		return err
	}
	writer, err := writableSource(eng.Source())
	if err != nil {
		return err
	}

	if err := writer.DeleteEntry(cmd.Context(), catalogs.Namespace(args[0]), args[1]); err != nil {
		return err
	}
	eng.Catalog().Clear()

	app.Logger().Info().
		Str("namespace", args[0]).
		Str("name", args[1]).
		Msg("Catalog entry deleted")

	fmt.Printf("%s Entry %s/%s deleted\n", emoji.Success, args[0], args[1])
	return nil
}

// writableSource asserts that the engine's source accepts writes.
func writableSource(source catalogs.Source) (catalogs.ReadWriteSource, error) {
	writer, ok := source.(catalogs.ReadWriteSource)
	if !ok {
		return nil, fmt.Errorf("%s source: %w", source.ID(), errors.ErrReadOnly)
	}
	return writer, nil
}

// parseDataPairs splits key=value flag items into extra data columns.
func parseDataPairs(items []string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	extra := make(map[string]string, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, errors.NewValidationError("data", item, "must be key=value")
		}
		extra[key] = value
	}
	return extra, nil
}

// mustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
