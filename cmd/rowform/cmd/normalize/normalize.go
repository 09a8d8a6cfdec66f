// Package normalize provides the batch normalization command.
package normalize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/cmd/emoji"
	"github.com/rowform/rowform/internal/cmd/output"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/pipeline"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/schema"
)

// AppContext defines the interface the normalize command needs from the app.
type AppContext interface {
	Engine() (rowform.Engine, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// result is the command's output payload.
type result struct {
	BatchID    string                       `json:"batch_id" yaml:"batch_id"`
	Products   []products.NormalizedProduct `json:"products" yaml:"products"`
	Statistics pipeline.Statistics          `json:"statistics" yaml:"statistics"`
	Errors     []string                     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewCommand creates the normalize command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "normalize",
		GroupID: "core",
		Short:   "Normalize raw product rows against a profile",
		Long: `Normalize runs raw product rows through the reconciliation pipeline.

Each row's extracted values are matched against the catalog namespaces
the profile binds, typed values are coerced, and computed fields such
as SKUs are rendered from their templates.

Input rows come from a YAML or JSON file (or stdin) holding a list of
key/value objects, or from the product store when --from-store is set.`,
		Example: `  # Normalize rows from a file
  rowform normalize --profile chairs.yaml --input rows.yaml

  # Read rows from stdin, emit JSON
  cat rows.yaml | rowform normalize -p chairs.yaml -o json

  # Normalize a stored batch and persist the results
  rowform normalize -p chairs.yaml --from-store --batch import-7

  # Normalize from a file and persist raw rows plus results
  rowform normalize -p chairs.yaml -i rows.yaml --store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, app)
		},
	}

	cmd.Flags().StringP("profile", "p", "", "profile YAML file describing the target fields (required)")
	cmd.Flags().StringP("input", "i", "-", "input file with raw rows, or - for stdin")
	cmd.Flags().StringP("batch", "b", "", "batch identifier (defaults to the input file name)")
	cmd.Flags().Bool("store", false, "persist raw rows and normalized records to the product store")
	cmd.Flags().Bool("from-store", false, "read raw rows of --batch from the product store")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

// runNormalize executes one normalization run.
func runNormalize(cmd *cobra.Command, app AppContext) error {
	ctx := cmd.Context()

	profilePath := mustGetString(cmd, "profile")
	inputPath := mustGetString(cmd, "input")
	batchID := mustGetString(cmd, "batch")
	store := mustGetBool(cmd, "store")
	fromStore := mustGetBool(cmd, "from-store")

	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}

	eng, err := app.Engine()
	if err != nil {
		return err
	}

	var res *pipeline.Result
	switch {
	case fromStore:
		if batchID == "" {
			return errors.NewValidationError("batch", batchID, "required with --from-store")
		}
		res, err = eng.NormalizeStored(ctx, profile, batchID)
	default:
		var batch []products.RawProduct
		batch, err = readBatch(inputPath, defaultBatchID(batchID, inputPath))
		if err != nil {
			return err
		}
		res, err = eng.Normalize(ctx, profile, batch)
		if err == nil && store {
			err = persist(ctx, eng, batch, res)
		}
	}
	if err != nil {
		return err
	}

	app.Logger().Debug().
		Str("batch_id", res.BatchID).
		Int("processed", res.Statistics.ItemsProcessed).
		Int("failed", res.Statistics.ItemsFailed).
		Msg("Batch normalized")

	if !mustGetBool(cmd, "quiet") {
		mark := emoji.Success
		if res.Statistics.ItemsFailed > 0 {
			mark = emoji.Error
		}
		fmt.Fprintf(os.Stderr, "%s Normalized %d items (%d failed)\n",
			mark, res.Statistics.ItemsProcessed, res.Statistics.ItemsFailed)
	}

	return printResult(app, profile, res)
}

// loadProfile reads and parses a profile YAML file. The profile name is
// the file stem, matching how profile directories are loaded.
func loadProfile(path string) (*schema.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return schema.Parse(name, data)
}

// readBatch reads raw rows from a file or stdin and stamps them with
// the batch identifier.
func readBatch(path, batchID string) ([]products.RawProduct, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		path = "stdin"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	// YAML is a superset of JSON, so one decoder covers both inputs.
	var rows []map[string]string
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, errors.NewParseError("yaml", path, "input must be a list of key/value objects", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewValidationError("input", path, "no rows to normalize")
	}

	batch := make([]products.RawProduct, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, products.NewRawProduct(batchID, row))
	}
	return batch, nil
}

// defaultBatchID derives a batch identifier when none was given.
func defaultBatchID(batchID, inputPath string) string {
	if batchID != "" {
		return batchID
	}
	if inputPath != "" && inputPath != "-" {
		return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}
	return "cli-" + time.Now().UTC().Format("20060102-150405")
}

// persist writes the raw rows and their normalized records to the
// product store.
func persist(ctx context.Context, eng rowform.Engine, batch []products.RawProduct, res *pipeline.Result) error {
	prodStore := eng.Products()
	if prodStore == nil {
		return errors.NewConfigError("normalize", "no product store configured, use a sqlite or postgres backend", nil)
	}
	if err := prodStore.SaveRaw(ctx, batch...); err != nil {
		return err
	}
	return prodStore.SaveNormalized(ctx, res.Products...)
}

// printResult renders the run result in the configured output format.
func printResult(app AppContext, profile *schema.Profile, res *pipeline.Result) error {
	format := output.DetectFormat(app.OutputFormat())
	formatter := output.NewFormatter(format)

	payload := result{
		BatchID:    res.BatchID,
		Products:   res.Products,
		Statistics: res.Statistics,
	}
	for _, err := range res.Errors {
		payload.Errors = append(payload.Errors, err.Error())
	}

	// Table output shows one row per product with the profile's columns.
	if format == output.FormatTable {
		return formatter.Format(os.Stdout, tableData(profile, res.Products))
	}
	return formatter.Format(os.Stdout, payload)
}

// tableData flattens normalized products into profile-ordered columns.
func tableData(profile *schema.Profile, items []products.NormalizedProduct) output.Data {
	keys := profile.Keys()
	headers := append([]string{"line"}, keys...)

	rows := make([][]string, 0, len(items))
	for i := range items {
		row := []string{items[i].LineID}
		for _, key := range keys {
			value, ok := items[i].Value(key)
			if !ok || value == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%v", value))
		}
		rows = append(rows, row)
	}
	return output.Data{Headers: headers, Rows: rows}
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

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
