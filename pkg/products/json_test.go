package products

import (
	"encoding/json"
	"testing"
)

func TestFieldValueJSONRoundTrip(t *testing.T) {
	original := NormalizedProduct{
		LineID:  "line-1",
		BatchID: "batch-1",
		Fields: []FieldValue{
			{Key: "product_name", Value: "Armchair Oslo"},
			{Key: "quantity", Value: int64(2)},
			{Key: "unit_price", Value: 1234.56},
			{Key: "sku", Value: "CH-01-001"},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded NormalizedProduct
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(decoded.Fields) != len(original.Fields) {
		t.Fatalf("decoded %d fields, want %d", len(decoded.Fields), len(original.Fields))
	}
	for i, want := range original.Fields {
		got := decoded.Fields[i]
		if got.Key != want.Key {
			t.Errorf("field %d key = %q, want %q", i, got.Key, want.Key)
		}
		if got.Value != want.Value {
			t.Errorf("field %q value = %#v, want %#v", want.Key, got.Value, want.Value)
		}
	}
}

func TestDecodeValueKinds(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{`"text"`, "text"},
		{`42`, int64(42)},
		{`19.99`, 19.99},
		{`-5`, int64(-5)},
		{`true`, true},
		{`null`, nil},
	}

	for _, tt := range tests {
		if got := decodeValue(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("decodeValue(%s) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}
