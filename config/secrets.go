package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
)

// DefaultSecretsFile is where the diagnostic expects its secrets, relative to
// the working directory.
const DefaultSecretsFile = ".streamlit/secrets.toml"

// Store is a read-only key-value view over a secrets source.
type Store interface {
	Lookup(key string) (string, bool)
}

// MapStore is a Store backed by an in-memory map.
type MapStore map[string]string

func (m MapStore) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LoadSecrets reads the TOML secrets file at path. A missing file yields an
// empty store, so callers see the key as absent. Only top-level keys are
// exposed; lookups are case-sensitive.
func LoadSecrets(path string) (MapStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return MapStore{}, nil
		}
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	return ParseSecrets(b)
}

// ParseSecrets decodes TOML secrets. Non-string scalars are stringified;
// tables and arrays are skipped.
func ParseSecrets(b []byte) (MapStore, error) {
	var raw map[string]any
	if err := toml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse secrets toml: %w", err)
	}

	out := make(MapStore, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		out[k] = s
	}
	return out, nil
}
