package schema

import (
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/rowform/rowform/pkg/errors"
)

// Parse decodes one profile YAML document, applies defaults, and
// validates it. The profile name falls back to the filename stem.
func Parse(name string, data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}

	if profile.Name == "" {
		profile.Name = profileStem(name)
	}

	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}

// LoadFS walks a filesystem and loads every profile YAML file found,
// keyed by profile name. A duplicate profile name is an error.
func LoadFS(fsys fs.FS) (map[string]*Profile, error) {
	profiles := make(map[string]*Profile)

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

		profile, err := Parse(p, data)
		if err != nil {
			return err
		}

		if _, ok := profiles[profile.Name]; ok {
			return errors.NewProfileError(profile.Name, "", "duplicate profile name in "+p, nil)
		}
		profiles[profile.Name] = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// isYAMLFile reports whether the path looks like a YAML document.
func isYAMLFile(p string) bool {
	return strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}

// profileStem strips the directory and extension from a file path.
func profileStem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
