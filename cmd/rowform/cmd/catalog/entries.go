package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowform/rowform/internal/cmd/output"
	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// newEntriesCommand creates the catalog entries subcommand.
func newEntriesCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "entries NAMESPACE",
		Short: "List the entries of a namespace",
		Example: `  rowform catalog entries color
  rowform catalog entries material -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd, catalogs.Namespace(args[0]), app)
		},
	}
}

// runEntries lists the entries of one namespace.
func runEntries(cmd *cobra.Command, namespace catalogs.Namespace, app AppContext) error {
	eng, err := app.Engine()
	if err != nil {
		return err
	}

	byNamespace, err := eng.Source().Entries(cmd.Context(), namespace)
	if err != nil {
		return err
	}
	entries := byNamespace[namespace]
	if len(entries) == 0 {
		return errors.NewNotFoundError("namespace", namespace.String())
	}

	if !mustGetBool(cmd, "quiet") {
		fmt.Fprintf(os.Stderr, "Found %d entries\n", len(entries))
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		data := output.Data{Headers: []string{"Name", "Code", "Aliases", "Extra Data"}}
		for i := range entries {
			data.Rows = append(data.Rows, []string{
				entries[i].Name,
				entries[i].Code,
				strings.Join(entries[i].Aliases, ", "),
				formatExtraData(entries[i].ExtraData),
			})
		}
		return output.NewFormatter(format).Format(os.Stdout, data)
	}
	return output.NewFormatter(format).Format(os.Stdout, entries)
}

// formatExtraData renders extra data columns as stable key=value pairs.
func formatExtraData(extra map[string]string) string {
	if len(extra) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(extra))
	for key, value := range extra {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
