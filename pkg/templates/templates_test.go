package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/templates"
)

// stubSource serves fixed entries without a backing store.
type stubSource struct {
	data map[catalogs.Namespace][]catalogs.Entry
}

func (s *stubSource) EntriesFor(_ context.Context, ns catalogs.Namespace) []catalogs.Entry {
	return s.data[ns]
}

func testSource() *stubSource {
	return &stubSource{
		data: map[catalogs.Namespace][]catalogs.Entry{
			catalogs.NamespaceColor: {
				{
					Namespace: catalogs.NamespaceColor,
					Name:      "Black",
					Code:      "01",
					Aliases:   []string{"jet black", "noir"},
					ExtraData: map[string]string{"hex": "#000000"},
				},
				{
					Namespace: catalogs.NamespaceColor,
					Name:      "Pearl",
					Code:      "03",
					Aliases:   []string{"pearl white"},
					ExtraData: map[string]string{"hex": "#EAE0C8"},
				},
			},
			catalogs.NamespaceMaterial: {
				{Namespace: catalogs.NamespaceMaterial, Name: "Oak", Code: "11"},
			},
		},
	}
}

func testContext() *templates.Context {
	return &templates.Context{
		Values: map[string]string{
			"product":  "Chair",
			"color":    "black",
			"material": "oak",
			"num":      "42",
			"empty":    "",
		},
		Sequence: 7,
		Mappings: map[string]catalogs.Namespace{
			"color":    catalogs.NamespaceColor,
			"material": catalogs.NamespaceMaterial,
		},
	}
}

func newEngine(t *testing.T, opts ...templates.Option) templates.Engine {
	t.Helper()
	eng, err := templates.New(testSource(), opts...)
	require.NoError(t, err)
	return eng
}

func TestEvaluate(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	tc := testContext()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"literal only", "no placeholders here", "no placeholders here"},
		{"sequence", "{sequence}", "7"},
		{"sequence padded", "{sequence:3}", "007"},
		{"plain unmapped variable", "{product}", "Chair"},
		{"mapped variable substitutes code", "{color}", "01"},
		{"dotted code", "{color.code}", "01"},
		{"dotted extra data", "{color.hex}", "#000000"},
		{"dotted missing column", "{color.depth}", ""},
		{"dotted on unmapped variable", "{product.code}", ""},
		{"unknown variable", "{nope}", ""},
		{"empty value stays empty", "{empty}", ""},
		{"alpha width truncates", "{product:2}", "CH"},
		{"alpha width pads and uppercases", "{product:8}", "CHAIRXXX"},
		{"numeric width pads", "{num:4}", "0042"},
		{"numeric width never truncates", "{num:1}", "42"},
		{"full code template", "CH-{color.code}-{sequence:3}", "CH-01-007"},
		{"second namespace", "{material.code}", "11"},
		{"unterminated brace is literal", "SKU-{color", "SKU-{color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eng.Evaluate(ctx, tt.text, tc), "template %q", tt.text)
		})
	}
}

// Lookup variables resolve through aliases and fuzzy matching exactly
// like direct reconciliation.
func TestEvaluateLookupMatching(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	tc := testContext()
	tc.Values["color"] = "pearl white"
	assert.Equal(t, "03", eng.Evaluate(ctx, "{color.code}", tc))

	tc.Values["color"] = "NOIR"
	assert.Equal(t, "01", eng.Evaluate(ctx, "{color.code}", tc))
}

// A mapped value that resolves to nothing carries the raw value
// through for the plain form and degrades to empty for the dotted
// form.
func TestEvaluateUnmatchedValue(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	tc := testContext()
	tc.Values["color"] = "vantablack ultra"

	assert.Equal(t, "vantablack ultra", eng.Evaluate(ctx, "{color}", tc))
	assert.Equal(t, "", eng.Evaluate(ctx, "{color.code}", tc))
	assert.Equal(t, "", eng.Evaluate(ctx, "{color.hex}", tc))
}

func TestEvaluateWidthOnLookup(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	tc := testContext()

	// Codes are numeric, so the width modifier zero-pads them.
	assert.Equal(t, "0001", eng.Evaluate(ctx, "{color.code:4}", tc))
}

func TestRenderParsedTemplate(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	tmpl := templates.Parse("{product}-{sequence}")

	// One parsed template renders against many contexts.
	for seq := 1; seq <= 3; seq++ {
		tc := testContext()
		tc.Sequence = seq
		want := "Chair-" + string(rune('0'+seq))
		assert.Equal(t, want, eng.Render(ctx, tmpl, tc))
	}
}

func TestRenderNilSafety(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	assert.Equal(t, "", eng.Render(ctx, nil, testContext()))

	// Nil context: variables degrade, sequence renders as zero.
	assert.Equal(t, "-0", eng.Render(ctx, templates.Parse("{color}-{sequence}"), nil))
}

// Without an entry source, lookups degrade but plain values still
// render.
func TestEngineWithoutSource(t *testing.T) {
	eng, err := templates.New(nil)
	require.NoError(t, err)
	ctx := context.Background()
	tc := testContext()

	assert.Equal(t, "black", eng.Evaluate(ctx, "{color}", tc))
	assert.Equal(t, "", eng.Evaluate(ctx, "{color.code}", tc))
	assert.Equal(t, "Chair", eng.Evaluate(ctx, "{product}", tc))
}

func TestOptionValidation(t *testing.T) {
	_, err := templates.New(testSource(), templates.WithReconciler(nil))
	assert.Error(t, err)

	_, err = templates.New(testSource(), templates.WithLogger(nil))
	assert.Error(t, err)
}
