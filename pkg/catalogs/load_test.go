package catalogs_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowform/rowform/pkg/catalogs"
)

func TestParseNamespaceFile(t *testing.T) {
	t.Run("explicit namespace", func(t *testing.T) {
		data := []byte(`namespace: color
entries:
  - name: Black
    code: "01"
    aliases: [Noir, Schwarz]
    extra_data:
      hex: "#000000"
  - name: White
    code: "02"
`)
		ns, entries, err := catalogs.ParseNamespaceFile("anything.yaml", data)
		require.NoError(t, err)
		assert.Equal(t, catalogs.NamespaceColor, ns)
		require.Len(t, entries, 2)
		assert.Equal(t, "Black", entries[0].Name)
		assert.Equal(t, "01", entries[0].Code)
		assert.Equal(t, []string{"Noir", "Schwarz"}, entries[0].Aliases)
		assert.Equal(t, "#000000", entries[0].ExtraData["hex"])
		assert.Equal(t, catalogs.NamespaceColor, entries[1].Namespace, "entries inherit the file namespace")
	})

	t.Run("namespace from filename", func(t *testing.T) {
		data := []byte(`entries:
  - name: Cotton
    code: CTN
`)
		ns, entries, err := catalogs.ParseNamespaceFile("catalog/material.yaml", data)
		require.NoError(t, err)
		assert.Equal(t, catalogs.NamespaceMaterial, ns)
		require.Len(t, entries, 1)
		assert.Equal(t, catalogs.NamespaceMaterial, entries[0].Namespace)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, _, err := catalogs.ParseNamespaceFile("bad.yaml", []byte("entries: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("entry missing code fails validation", func(t *testing.T) {
		data := []byte(`namespace: color
entries:
  - name: Black
`)
		_, _, err := catalogs.ParseNamespaceFile("color.yaml", data)
		assert.Error(t, err)
	})
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"color.yaml": &fstest.MapFile{Data: []byte(`entries:
  - name: Black
    code: "01"
`)},
		"nested/brand.yml": &fstest.MapFile{Data: []byte(`entries:
  - name: Acme
    code: AC
`)},
		"notes.txt": &fstest.MapFile{Data: []byte("ignored")},
	}

	result, err := catalogs.LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Len(t, result[catalogs.NamespaceColor], 1)
	assert.Len(t, result[catalogs.NamespaceBrand], 1)
}

func TestLoadFSMergesSameNamespace(t *testing.T) {
	fsys := fstest.MapFS{
		"a/color.yaml": &fstest.MapFile{Data: []byte(`entries:
  - name: Black
    code: "01"
`)},
		"b/color.yaml": &fstest.MapFile{Data: []byte(`entries:
  - name: White
    code: "02"
`)},
	}

	result, err := catalogs.LoadFS(fsys)
	require.NoError(t, err)
	assert.Len(t, result[catalogs.NamespaceColor], 2)
}

func TestLoadFSPropagatesParseErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"color.yaml": &fstest.MapFile{Data: []byte(`entries:
  - name: MissingCode
`)},
	}

	_, err := catalogs.LoadFS(fsys)
	assert.Error(t, err)
}
