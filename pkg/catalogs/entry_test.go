package catalogs

import (
	"testing"
)

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{
			name: "valid entry",
			entry: Entry{
				Namespace: NamespaceColor,
				Name:      "Black",
				Code:      "01",
				Aliases:   []string{"Noir", "Schwarz"},
			},
			wantErr: false,
		},
		{
			name: "valid entry without aliases",
			entry: Entry{
				Namespace: NamespaceMaterial,
				Name:      "Cotton",
				Code:      "CTN",
			},
			wantErr: false,
		},
		{
			name: "missing namespace",
			entry: Entry{
				Name: "Black",
				Code: "01",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			entry: Entry{
				Namespace: NamespaceColor,
				Code:      "01",
			},
			wantErr: true,
		},
		{
			name: "missing code",
			entry: Entry{
				Namespace: NamespaceColor,
				Name:      "Black",
			},
			wantErr: true,
		},
		{
			name: "whitespace only name",
			entry: Entry{
				Namespace: NamespaceColor,
				Name:      "   ",
				Code:      "01",
			},
			wantErr: true,
		},
		{
			name: "empty alias",
			entry: Entry{
				Namespace: NamespaceColor,
				Name:      "Black",
				Code:      "01",
				Aliases:   []string{"Noir", " "},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryHasAlias(t *testing.T) {
	entry := Entry{
		Namespace: NamespaceColor,
		Name:      "Black",
		Code:      "01",
		Aliases:   []string{"Noir", "Jet Black"},
	}

	tests := []struct {
		value string
		want  bool
	}{
		{"Noir", true},
		{"noir", true},
		{"  NOIR  ", true},
		{"jet black", true},
		{"Black", false}, // canonical name is not an alias
		{"Pearl", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := entry.HasAlias(tt.value); got != tt.want {
				t.Errorf("HasAlias(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestEntryExtra(t *testing.T) {
	entry := Entry{
		Namespace: NamespaceColor,
		Name:      "Black",
		Code:      "01",
		ExtraData: map[string]string{"hex": "#000000"},
	}

	if v, ok := entry.Extra("hex"); !ok || v != "#000000" {
		t.Errorf("Extra(hex) = %q, %v; want #000000, true", v, ok)
	}
	if _, ok := entry.Extra("rgb"); ok {
		t.Error("Extra(rgb) should not exist")
	}

	var empty Entry
	if _, ok := empty.Extra("hex"); ok {
		t.Error("Extra on entry without extra data should not exist")
	}
}

func TestValidateEntries(t *testing.T) {
	valid := []Entry{
		{Namespace: NamespaceColor, Name: "Black", Code: "01"},
		{Namespace: NamespaceColor, Name: "White", Code: "02"},
	}
	if err := ValidateEntries(valid); err != nil {
		t.Errorf("ValidateEntries(valid) = %v, want nil", err)
	}

	invalid := []Entry{
		{Namespace: NamespaceColor, Name: "Black", Code: "01"},
		{Namespace: NamespaceColor, Name: "White"},
	}
	if err := ValidateEntries(invalid); err == nil {
		t.Error("ValidateEntries(invalid) = nil, want error")
	}
}

func TestParseNamespace(t *testing.T) {
	tests := []struct {
		in   string
		want Namespace
	}{
		{"Color", "color"},
		{"  Frame Finish  ", "frame-finish"},
		{"material", "material"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ParseNamespace(tt.in); got != tt.want {
			t.Errorf("ParseNamespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
