// Package config loads the TOML-declared version table a deployment
// uses to resolve the embedded/external version tag in a versioned
// frame to a concrete schema. It is ambient wiring around
// versioning.Codec, not a wire-format concern: the bytes a versioned
// frame carries are identical regardless of how its codec array was
// assembled.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// VersionEntry names one schema variant a version table exposes, in the
// declaration order the file lists them.
type VersionEntry struct {
	Version     int    `toml:"version"`
	Schema      string `toml:"schema"`
	Description string `toml:"description"`
}

// VersionTable is the decoded contents of a version-table TOML file.
type VersionTable struct {
	Name     string         `toml:"name"`
	Versions []VersionEntry `toml:"versions"`
}

// LoadVersionTable reads and validates the version table at path.
func LoadVersionTable(path string) (VersionTable, error) {
	var table VersionTable
	if err := loadToml(path, &table); err != nil {
		return VersionTable{}, err
	}
	if table.Name == "" {
		table.Name = "extprot"
	}
	if err := ValidateVersionTable(table); err != nil {
		return VersionTable{}, err
	}
	return table, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// ValidateVersionTable checks the table is well-formed: at least one
// entry, contiguous version indices starting at 0 (a caller builds its
// []versioning.Codec by indexing on this same sequence), and no blank
// schema name.
func ValidateVersionTable(table VersionTable) error {
	if len(table.Versions) == 0 {
		return fmt.Errorf("version table %q: no versions declared", table.Name)
	}
	for i, entry := range table.Versions {
		if entry.Version != i {
			return fmt.Errorf("version table %q: entry %d declares version %d, want %d (indices must be contiguous from 0)", table.Name, i, entry.Version, i)
		}
		if strings.TrimSpace(entry.Schema) == "" {
			return fmt.Errorf("version table %q: entry %d missing schema name", table.Name, i)
		}
	}
	return nil
}

// SchemaFor returns the schema name declared for version v, if any.
func (t VersionTable) SchemaFor(v int) (string, bool) {
	if v < 0 || v >= len(t.Versions) {
		return "", false
	}
	return t.Versions[v].Schema, true
}
