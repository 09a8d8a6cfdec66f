package rowform

import (
	"context"
	"testing"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/catalogs/memory"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/reconcile"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// furnitureProfile exercises every field kind: plain extraction,
// catalog-bound extraction, coerced keys, and a computed template.
func furnitureProfile() *schema.Profile {
	return &schema.Profile{
		Name: "furniture",
		Fields: []schema.Field{
			{Key: "product_name"},
			{Key: "color", CatalogKey: "color"},
			{Key: "material", CatalogKey: "material"},
			{Key: "quantity"},
			{Key: "unit_price"},
			{
				Key:       "sku",
				Source:    schema.SourceComputed,
				LogicType: schema.LogicTemplate,
				Template:  "{material.code}-{color.code}-{sequence:3}",
			},
		},
	}
}

func TestEngineDefaults(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	if eng.Source().ID() != catalogs.SourceIDEmbedded {
		t.Errorf("Default source = %s, want %s", eng.Source().ID(), catalogs.SourceIDEmbedded)
	}
	if eng.Products() != nil {
		t.Error("Default engine should not carry a product store")
	}

	res := eng.Reconcile(context.Background(), "jet black", "color")
	if !res.Matched() {
		t.Fatalf("Expected alias match for %q, got %s", "jet black", res.Type)
	}
	if res.Normalized != "Black" || res.Code != "01" {
		t.Errorf("Reconcile = %s/%s, want Black/01", res.Normalized, res.Code)
	}
	if res.Type != reconcile.MatchAlias {
		t.Errorf("Match type = %s, want %s", res.Type, reconcile.MatchAlias)
	}

	_, err = eng.NormalizeStored(context.Background(), furnitureProfile(), "missing")
	if err == nil {
		t.Error("NormalizeStored without a product store should fail")
	}
}

func TestEngineNormalize(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	batch := []products.RawProduct{
		products.NewRawProduct("batch-1", map[string]string{
			"product_name": "Lowboard Malmo",
			"color":        "jet black",
			"material":     "eiche",
			"quantity":     "2 Stk",
			"unit_price":   "1.234,56",
		}),
		products.NewRawProduct("batch-1", map[string]string{
			"product_name": "Stuhl Fjell",
			"color":        "white",
			"material":     "Pine",
			"quantity":     "",
			"unit_price":   "89.90",
		}),
	}

	result, err := eng.Normalize(context.Background(), furnitureProfile(), batch)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if result.BatchID != "batch-1" {
		t.Errorf("BatchID = %q, want batch-1", result.BatchID)
	}
	if result.Statistics.ItemsProcessed != 2 || result.Statistics.ItemsFailed != 0 {
		t.Fatalf("Processed/failed = %d/%d, want 2/0",
			result.Statistics.ItemsProcessed, result.Statistics.ItemsFailed)
	}
	if len(result.Products) != 2 {
		t.Fatalf("Products = %d, want 2", len(result.Products))
	}
	if result.Statistics.AliasMatches != 2 {
		t.Errorf("AliasMatches = %d, want 2", result.Statistics.AliasMatches)
	}
	if result.Statistics.ExactMatches != 2 {
		t.Errorf("ExactMatches = %d, want 2", result.Statistics.ExactMatches)
	}
	if result.Statistics.TemplatesRendered != 2 {
		t.Errorf("TemplatesRendered = %d, want 2", result.Statistics.TemplatesRendered)
	}

	first := result.Products[0].Map()
	if first["color"] != "Black" {
		t.Errorf("color = %v, want Black", first["color"])
	}
	if first["material"] != "Oak" {
		t.Errorf("material = %v, want Oak", first["material"])
	}
	if first["quantity"] != int64(2) {
		t.Errorf("quantity = %v (%T), want 2", first["quantity"], first["quantity"])
	}
	if first["unit_price"] != 1234.56 {
		t.Errorf("unit_price = %v, want 1234.56", first["unit_price"])
	}
	if first["sku"] != "OAK-01-001" {
		t.Errorf("sku = %v, want OAK-01-001", first["sku"])
	}

	second := result.Products[1].Map()
	if second["color"] != "White" || second["material"] != "Pine" {
		t.Errorf("second item reconciled to %v/%v, want White/Pine", second["color"], second["material"])
	}
	if second["quantity"] != int64(1) {
		t.Errorf("empty quantity = %v, want default 1", second["quantity"])
	}
	if second["sku"] != "PIN-02-002" {
		t.Errorf("second sku = %v, want PIN-02-002", second["sku"])
	}
}

func TestEngineNormalizeStored(t *testing.T) {
	eng, err := New(WithSQLite(":memory:"))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	ctx := context.Background()

	rw, ok := eng.Source().(catalogs.ReadWriteSource)
	if !ok {
		t.Fatal("SQLite source should be writable")
	}
	seed := []catalogs.Entry{
		{Namespace: "color", Name: "Black", Code: "01", Aliases: []string{"jet black"}},
		{Namespace: "material", Name: "Oak", Code: "OAK", Aliases: []string{"eiche"}},
	}
	for _, entry := range seed {
		if err := rw.SetEntry(ctx, entry); err != nil {
			t.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	store := eng.Products()
	if store == nil {
		t.Fatal("SQLite engine should expose a product store")
	}
	raw := products.NewRawProduct("batch-42", map[string]string{
		"product_name": "Regal Valda",
		"color":        "jet black",
		"material":     "eiche",
		"quantity":     "3",
		"unit_price":   "249.00",
	})
	if err := store.SaveRaw(ctx, raw); err != nil {
		t.Fatalf("Failed to save raw batch: %v", err)
	}

	result, err := eng.NormalizeStored(ctx, furnitureProfile(), "batch-42")
	if err != nil {
		t.Fatalf("NormalizeStored failed: %v", err)
	}
	if len(result.Products) != 1 {
		t.Fatalf("Products = %d, want 1", len(result.Products))
	}
	if got := result.Products[0].Map()["sku"]; got != "OAK-01-001" {
		t.Errorf("sku = %v, want OAK-01-001", got)
	}

	persisted, err := store.NormalizedProducts(ctx, "batch-42")
	if err != nil {
		t.Fatalf("Failed to read normalized batch: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("Persisted products = %d, want 1", len(persisted))
	}
	if persisted[0].LineID != raw.LineID {
		t.Errorf("Persisted line id = %s, want %s", persisted[0].LineID, raw.LineID)
	}

	_, err = eng.NormalizeStored(ctx, furnitureProfile(), "no-such-batch")
	if !errors.IsNotFound(err) {
		t.Errorf("Unknown batch error = %v, want not found", err)
	}
}

func TestEngineEvaluateTemplate(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	ctx := context.Background()
	tc := &templates.Context{
		Values:   map[string]string{"color": "noir"},
		Sequence: 7,
		Mappings: map[string]catalogs.Namespace{"color": "color"},
	}

	if got := eng.EvaluateTemplate(ctx, "{color.hex}|{sequence:3}", tc); got != "#1C1C1C|007" {
		t.Errorf("Template = %q, want #1C1C1C|007", got)
	}
	// A mapped plain variable substitutes the canonical code.
	if got := eng.EvaluateTemplate(ctx, "{color}", tc); got != "01" {
		t.Errorf("Mapped variable = %q, want 01", got)
	}
}

func TestEngineFuzzyToggle(t *testing.T) {
	ctx := context.Background()

	eng, err := New()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()
	if res := eng.Reconcile(ctx, "Blck", "color"); res.Type != reconcile.MatchFuzzy {
		t.Errorf("Default engine match = %s, want fuzzy", res.Type)
	}

	strict, err := New(WithFuzzyMatching(false))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer strict.Close()
	if res := strict.Reconcile(ctx, "Blck", "color"); res.Matched() {
		t.Errorf("Fuzzy-disabled engine matched %s, want no match", res.Normalized)
	}
}

func TestEngineWithCustomSource(t *testing.T) {
	source, err := memory.New(memory.WithEntries(
		catalogs.Entry{Namespace: "finish", Name: "Matte", Code: "MT"},
	))
	if err != nil {
		t.Fatalf("Failed to create memory source: %v", err)
	}

	eng, err := New(WithSource(source))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	res := eng.Reconcile(context.Background(), "matte", "finish")
	if !res.Matched() || res.Code != "MT" {
		t.Errorf("Reconcile = %s/%s, want Matte/MT", res.Normalized, res.Code)
	}
}

func TestEngineOptionErrors(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
	}{
		{"empty sqlite path", WithSQLite("")},
		{"empty files dir", WithFiles("")},
		{"nil source", WithSource(nil)},
		{"nil product store", WithProducts(nil)},
		{"nil logger", WithLogger(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opt); err == nil {
				t.Errorf("New(%s) should fail", tc.name)
			}
		})
	}
}
