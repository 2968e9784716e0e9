package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// CurrentConfigVersion is written by new configs; SupportedConfigVersions are
// accepted on load.
const CurrentConfigVersion = "1"

var SupportedConfigVersions = []string{CurrentConfigVersion}

// compileCUE reads path and compiles it as a single CUE file. Positions in
// compile errors carry the file name.
func compileCUE(path string) (cue.Value, error) {
	if !strings.EqualFold(filepath.Ext(path), ".cue") {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func decodeConfigVersion(v cue.Value) (string, error) {
	if err := requireStringField(v, "configVersion"); err != nil {
		return "", err
	}
	var version string
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&version); err != nil {
		return "", fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !slices.Contains(SupportedConfigVersions, version) {
		return "", fmt.Errorf("unsupported configVersion: %q (supported: %s)",
			version, strings.Join(SupportedConfigVersions, ", "))
	}
	return version, nil
}
