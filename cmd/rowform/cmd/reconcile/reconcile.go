// Package reconcile provides the single-value reconciliation command.
package reconcile

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/cmd/output"
	"github.com/rowform/rowform/pkg/catalogs"
)

// AppContext defines the interface the reconcile command needs from the app.
type AppContext interface {
	Engine() (rowform.Engine, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewCommand creates the reconcile command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reconcile VALUE",
		GroupID: "core",
		Short:   "Match one raw value against a catalog namespace",
		Long: `Reconcile matches a single raw value against the entries of one
catalog namespace and reports how it matched.

The match type is one of exact, alias, fuzzy, compound, or none. A
successful match carries the canonical name, the code, and any extra
data columns of the winning entry.`,
		Example: `  # Match a color alias
  rowform reconcile "jet black" --namespace color

  # Match a misspelled material, JSON output
  rowform reconcile "Oka" -n material -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, args[0], app)
		},
	}

	cmd.Flags().StringP("namespace", "n", "", "catalog namespace to match against (required)")
	_ = cmd.MarkFlagRequired("namespace")

	return cmd
}

// runReconcile matches the value and prints the result.
func runReconcile(cmd *cobra.Command, value string, app AppContext) error {
	namespace := catalogs.Namespace(mustGetString(cmd, "namespace"))

	eng, err := app.Engine()
	if err != nil {
		return err
	}

	res := eng.Reconcile(cmd.Context(), value, namespace)

	app.Logger().Debug().
		Str("value", value).
		Str("namespace", namespace.String()).
		Str("match_type", string(res.Type)).
		Msg("Value reconciled")

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		data := output.Data{
			Headers: []string{"Value", "Namespace", "Match", "Normalized", "Code", "Distance"},
			Rows: [][]string{{
				value,
				namespace.String(),
				string(res.Type),
				res.Normalized,
				res.Code,
				fmt.Sprintf("%d", res.Distance),
			}},
		}
		return output.NewFormatter(format).Format(os.Stdout, data)
	}

	return output.NewFormatter(format).Format(os.Stdout, res)
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
