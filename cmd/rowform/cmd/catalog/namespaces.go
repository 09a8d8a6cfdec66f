package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowform/rowform/internal/cmd/output"
)

// namespaceSummary is one row of the namespaces listing.
type namespaceSummary struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Entries   int    `json:"entries" yaml:"entries"`
	Codes     string `json:"codes,omitempty" yaml:"codes,omitempty"`
}

// newNamespacesCommand creates the catalog namespaces subcommand.
func newNamespacesCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "namespaces",
		Aliases: []string{"ns"},
		Short:   "List catalog namespaces",
		Example: `  rowform catalog namespaces
  rowform catalog namespaces -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNamespaces(cmd, app)
		},
	}
}

// runNamespaces lists every namespace with its entry count.
func runNamespaces(cmd *cobra.Command, app AppContext) error {
	eng, err := app.Engine()
	if err != nil {
		return err
	}

	entries, err := eng.Source().Entries(cmd.Context())
	if err != nil {
		return err
	}

	summaries := make([]namespaceSummary, 0, len(entries))
	for ns, list := range entries {
		codes := make([]string, 0, len(list))
		for i := range list {
			codes = append(codes, list[i].Code)
		}
		sort.Strings(codes)
		summaries = append(summaries, namespaceSummary{
			Namespace: ns.String(),
			Entries:   len(list),
			Codes:     strings.Join(codes, ","),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Namespace < summaries[j].Namespace
	})

	if !mustGetBool(cmd, "quiet") {
		fmt.Fprintf(os.Stderr, "Found %d namespaces\n", len(summaries))
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		data := output.Data{Headers: []string{"Namespace", "Entries", "Codes"}}
		for _, s := range summaries {
			data.Rows = append(data.Rows, []string{s.Namespace, fmt.Sprintf("%d", s.Entries), s.Codes})
		}
		return output.NewFormatter(format).Format(os.Stdout, data)
	}
	return output.NewFormatter(format).Format(os.Stdout, summaries)
}
