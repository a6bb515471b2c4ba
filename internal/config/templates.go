package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns a starter version-table TOML for kind. Only "extprot"
// is defined today; the signature stays kind-keyed in case a deployment
// later wants a second starter shape.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "extprot":
		return extprotTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

// WriteTemplate writes kind's starter template to path, refusing to
// clobber an existing file unless overwrite is set.
func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const extprotTemplate = `name = "extprot-demo"

[[versions]]
version = 0
schema = "greeting.v0"
description = "single string field"

[[versions]]
version = 1
schema = "greeting.v1"
description = "greeting promoted to (string * tone), tone added with a default"
`
