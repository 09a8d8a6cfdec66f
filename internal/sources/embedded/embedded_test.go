package embedded_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowform/rowform/internal/sources/embedded"
	"github.com/rowform/rowform/pkg/catalogs"
)

func TestEntriesServesAllNamespaces(t *testing.T) {
	ctx := context.Background()
	source := embedded.NewSource()
	defer source.Close()

	all, err := source.Entries(ctx)
	require.NoError(t, err)

	for _, ns := range []catalogs.Namespace{"color", "material", "finish", "size", "brand"} {
		assert.NotEmpty(t, all[ns], "namespace %s", ns)
	}
}

func TestEntriesFiltersNamespaces(t *testing.T) {
	ctx := context.Background()
	source := embedded.NewSource()

	got, err := source.Entries(ctx, "color")
	require.NoError(t, err)
	require.Len(t, got, 1)

	var black *catalogs.Entry
	for i := range got["color"] {
		if got["color"][i].Name == "Black" {
			black = &got["color"][i]
			break
		}
	}
	require.NotNil(t, black, "embedded color namespace should contain Black")
	assert.Equal(t, "01", black.Code)
	assert.True(t, black.HasAlias("jet black"))

	hex, ok := black.Extra("hex")
	require.True(t, ok)
	assert.Equal(t, "#1C1C1C", hex)
}

func TestEntriesAreValid(t *testing.T) {
	all, err := embedded.NewSource().Entries(context.Background())
	require.NoError(t, err)

	for ns, entries := range all {
		require.NoError(t, catalogs.ValidateEntries(entries), "namespace %s", ns)
		for _, entry := range entries {
			assert.Equal(t, ns, entry.Namespace)
		}
	}
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, catalogs.SourceIDEmbedded, embedded.NewSource().ID())
}
