package schema

import (
	"testing"

	"github.com/rowform/rowform/pkg/catalogs"
)

func TestValueTypeIsValid(t *testing.T) {
	tests := []struct {
		vt   ValueType
		want bool
	}{
		{ValueTypeText, true},
		{ValueTypeNumber, true},
		{ValueType("decimal"), false},
		{ValueType(""), false},
	}
	for _, tt := range tests {
		if got := tt.vt.IsValid(); got != tt.want {
			t.Errorf("ValueType(%q).IsValid() = %v, want %v", tt.vt, got, tt.want)
		}
	}
}

func TestFieldSourceIsValid(t *testing.T) {
	if !SourceExtracted.IsValid() || !SourceComputed.IsValid() {
		t.Error("known sources should be valid")
	}
	if FieldSource("derived").IsValid() {
		t.Error("unknown source should be invalid")
	}
}

func TestLogicTypeIsValid(t *testing.T) {
	for _, lt := range []LogicType{LogicNone, LogicTemplate, LogicAIEnrichment} {
		if !lt.IsValid() {
			t.Errorf("LogicType(%q) should be valid", lt)
		}
	}
	if LogicType("script").IsValid() {
		t.Error("unknown logic type should be invalid")
	}
}

func TestFieldHelpers(t *testing.T) {
	extracted := Field{Key: "color", Source: SourceExtracted, CatalogKey: catalogs.NamespaceColor}
	computed := Field{Key: "sku", Source: SourceComputed}

	if !extracted.IsExtracted() || extracted.IsComputed() {
		t.Error("extracted field misclassified")
	}
	if !computed.IsComputed() || computed.IsExtracted() {
		t.Error("computed field misclassified")
	}
	if !extracted.HasCatalog() {
		t.Error("field with catalog_key should report HasCatalog")
	}
	if computed.HasCatalog() {
		t.Error("field without catalog_key should not report HasCatalog")
	}
}

func TestApplyDefaults(t *testing.T) {
	p := &Profile{
		Name:   "test",
		Fields: []Field{{Key: "color"}},
	}
	p.ApplyDefaults()

	f := p.Fields[0]
	if f.ValueType != ValueTypeText {
		t.Errorf("value type = %q, want text", f.ValueType)
	}
	if f.Source != SourceExtracted {
		t.Errorf("source = %q, want extracted", f.Source)
	}
	if f.LogicType != LogicNone {
		t.Errorf("logic type = %q, want none", f.LogicType)
	}
}

func testProfile() *Profile {
	p := &Profile{
		Name: "chairs",
		Fields: []Field{
			{Key: "product_name", Label: "Product"},
			{Key: "color", CatalogKey: catalogs.NamespaceColor},
			{Key: "material", CatalogKey: catalogs.NamespaceMaterial},
			{Key: "trim_color", CatalogKey: catalogs.NamespaceColor},
			{Key: "quantity", ValueType: ValueTypeNumber},
			{
				Key:       "sku",
				Source:    SourceComputed,
				LogicType: LogicTemplate,
				Template:  "CH-{color.code}-{sequence:3}",
			},
			{
				Key:        "finish_code",
				Source:     SourceComputed,
				LogicType:  LogicTemplate,
				Template:   "{finish}",
				CatalogKey: catalogs.NamespaceFinish,
			},
		},
	}
	p.ApplyDefaults()
	return p
}

func TestProfileField(t *testing.T) {
	p := testProfile()

	f, ok := p.Field("color")
	if !ok {
		t.Fatal("expected to find color field")
	}
	if f.CatalogKey != catalogs.NamespaceColor {
		t.Errorf("catalog key = %q, want color", f.CatalogKey)
	}

	if _, ok := p.Field("missing"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestProfileKeysOrder(t *testing.T) {
	p := testProfile()
	want := []string{"product_name", "color", "material", "trim_color", "quantity", "sku", "finish_code"}

	keys := p.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys length = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestProfileFieldPartition(t *testing.T) {
	p := testProfile()

	if got := len(p.ExtractedFields()); got != 5 {
		t.Errorf("extracted fields = %d, want 5", got)
	}
	if got := len(p.ComputedFields()); got != 2 {
		t.Errorf("computed fields = %d, want 2", got)
	}
}

// Namespaces deduplicates and keeps first-use order, and includes
// computed fields' bindings so prefetch covers every lookup.
func TestProfileNamespaces(t *testing.T) {
	p := testProfile()
	want := []catalogs.Namespace{
		catalogs.NamespaceColor,
		catalogs.NamespaceMaterial,
		catalogs.NamespaceFinish,
	}

	namespaces := p.Namespaces()
	if len(namespaces) != len(want) {
		t.Fatalf("namespaces = %v, want %v", namespaces, want)
	}
	for i := range want {
		if namespaces[i] != want[i] {
			t.Errorf("namespaces[%d] = %q, want %q", i, namespaces[i], want[i])
		}
	}
}

// Computed fields never appear in the template lookup mapping, so a
// template cannot resolve through another generated field.
func TestProfileCatalogMappings(t *testing.T) {
	p := testProfile()

	mappings := p.CatalogMappings()
	if len(mappings) != 3 {
		t.Fatalf("mappings = %v, want 3 input bindings", mappings)
	}
	if mappings["color"] != catalogs.NamespaceColor {
		t.Errorf("color mapping = %q", mappings["color"])
	}
	if mappings["trim_color"] != catalogs.NamespaceColor {
		t.Errorf("trim_color mapping = %q", mappings["trim_color"])
	}
	if _, ok := mappings["finish_code"]; ok {
		t.Error("computed field must not be a template input binding")
	}
}
