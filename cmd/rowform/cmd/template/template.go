// Package template provides template evaluation commands.
package template

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/cmd/output"
	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/templates"
)

// AppContext defines the interface the template commands need from the app.
type AppContext interface {
	Engine() (rowform.Engine, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewCommand creates the template command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		GroupID: "core",
		Short:   "Evaluate field templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to help if no subcommand
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown subcommand: %s", args[0])
		},
	}

	cmd.AddCommand(newRenderCommand(app))

	return cmd
}

// newRenderCommand creates the template render subcommand.
func newRenderCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render a template against ad-hoc values",
		Long: `Render evaluates one template string against a set of values.

Variables reference value keys as {key}, optionally with a catalog
column and a fixed width: {key.column:width}. Keys bound to a catalog
namespace with --map resolve through reconciliation, so {color.hex}
looks up the hex column of the matched color entry. The {sequence}
variable renders the --sequence number.`,
		Example: `  # Render a SKU shape
  rowform template render "{material:3}-{color:2}-{sequence:3}" \
    --values material=OAK --values color=01 --sequence 12

  # Resolve values through catalog namespaces
  rowform template render "{color.hex}" \
    --values color="jet black" --map color=color`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], app)
		},
	}

	cmd.Flags().StringSlice("values", nil, "input values as key=value pairs")
	cmd.Flags().Int("sequence", 1, "value of the {sequence} variable")
	cmd.Flags().StringSlice("map", nil, "catalog bindings as key=namespace pairs")

	return cmd
}

// runRender evaluates the template and prints the rendered string.
func runRender(cmd *cobra.Command, tmpl string, app AppContext) error {
	values, err := parsePairs(mustGetStringSlice(cmd, "values"), "values")
	if err != nil {
		return err
	}
	bindings, err := parsePairs(mustGetStringSlice(cmd, "map"), "map")
	if err != nil {
		return err
	}
	sequence := mustGetInt(cmd, "sequence")

	eng, err := app.Engine()
	if err != nil {
		return err
	}

	mappings := make(map[string]catalogs.Namespace, len(bindings))
	for key, ns := range bindings {
		mappings[key] = catalogs.Namespace(ns)
	}

	rendered := eng.EvaluateTemplate(cmd.Context(), tmpl, &templates.Context{
		Values:   values,
		Sequence: sequence,
		Mappings: mappings,
	})

	format := output.DetectFormat(app.OutputFormat())
	switch format {
	case output.FormatJSON, output.FormatYAML:
		payload := struct {
			Template string `json:"template" yaml:"template"`
			Rendered string `json:"rendered" yaml:"rendered"`
		}{Template: tmpl, Rendered: rendered}
		return output.NewFormatter(format).Format(os.Stdout, payload)
	default:
		fmt.Println(rendered)
		return nil
	}
}

// parsePairs splits key=value flag items into a map.
func parsePairs(items []string, flag string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	pairs := make(map[string]string, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, errors.NewValidationError(flag, item, "must be key=value")
		}
		pairs[key] = value
	}
	return pairs, nil
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

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
