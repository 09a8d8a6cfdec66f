package catalogs

import (
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/rowform/rowform/pkg/errors"
)

// NamespaceFile is the on-disk YAML document for one namespace. The
// file-backed and embedded sources store one file per namespace, named
// <namespace>.yaml.
type NamespaceFile struct {
	Namespace Namespace `json:"namespace" yaml:"namespace"` // Defaults to the filename stem when empty
	Entries   []Entry   `json:"entries" yaml:"entries"`     // Vocabulary entries for this namespace
}

// ParseNamespaceFile parses one namespace YAML document. The namespace
// falls back to the filename stem, and entries inherit the file's
// namespace when they do not declare their own. All entries are
// validated so that downstream matching can rely on complete records.
func ParseNamespaceFile(name string, data []byte) (Namespace, []Entry, error) {
	var file NamespaceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return "", nil, errors.WrapParse("yaml", name, err)
	}

	ns := file.Namespace
	if !ns.IsValid() {
		ns = ParseNamespace(namespaceStem(name))
	}
	if !ns.IsValid() {
		return "", nil, errors.NewParseError("yaml", name, "namespace missing and not derivable from filename", nil)
	}

	for i := range file.Entries {
		if !file.Entries[i].Namespace.IsValid() {
			file.Entries[i].Namespace = ns
		}
	}

	if err := ValidateEntries(file.Entries); err != nil {
		return "", nil, errors.NewParseError("yaml", name, err.Error(), err)
	}

	return ns, file.Entries, nil
}

// LoadFS walks a filesystem and loads every namespace YAML file found.
// Files for the same namespace are merged in walk order.
func LoadFS(fsys fs.FS) (map[Namespace][]Entry, error) {
	result := make(map[Namespace][]Entry)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.WrapIO("read", p, err)
		}

		ns, entries, err := ParseNamespaceFile(p, data)
		if err != nil {
			return err
		}

		result[ns] = append(result[ns], entries...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// isYAMLFile reports whether the path looks like a YAML document.
func isYAMLFile(p string) bool {
	return strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}

// namespaceStem strips the directory and extension from a file path.
func namespaceStem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
