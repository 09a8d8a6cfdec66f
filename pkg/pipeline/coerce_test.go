package pipeline

import "testing"

func TestDefaultClassifier(t *testing.T) {
	tests := []struct {
		key  string
		want Classification
	}{
		{"quantity", ClassQuantity},
		{"qty", ClassQuantity},
		{"order_amount", ClassQuantity},
		{"Quantity_Ordered", ClassQuantity},
		{"price", ClassPrice},
		{"unit_price", ClassPrice},
		{"unit_cost", ClassPrice},
		{"TOTAL_NET", ClassPrice},
		{"product_name", ClassNone},
		{"color", ClassNone},
		{"", ClassNone},
		// Quantity fragments win over price fragments in one key.
		{"total_quantity", ClassQuantity},
	}

	for _, tt := range tests {
		if got := DefaultClassifier(tt.key); got != tt.want {
			t.Errorf("DefaultClassifier(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"12", 12},
		{"12 pcs", 12},
		{" 3 ", 3},
		{"0012", 12},
		{"3.5 kg", 3},
		{"", 1},
		{"abc", 1},
		{"x12", 1},
		{"0", 1},
		{"-4", 1},
	}

	for _, tt := range tests {
		if got := ParseQuantity(tt.raw); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1.234.567,89", 1234567.89, true},
		{"19.99", 19.99, true},
		{"12,5", 12.5, true},
		{"1500", 1500, true},
		{"€ 1.234,56", 1234.56, true},
		{"$1,234.56", 1234.56, true},
		{"-5.00", -5, true},
		{"", 0, false},
		{"free", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParsePrice(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
