package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sarth-shah20/darp/internal/logging"
)

// Load reads config.json from the given path.
// A missing file is created as "{}" and a corrupt one yields an empty
// configuration instead of an error.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, IOError("config", path, err, "creating config directory %s", filepath.Dir(path))
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, IOError("config", path, err, "creating config file %s", path)
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, IOError("config", path, err, "reading config file %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		logging.FromContext(ctx).Warn(ctx, "config file unreadable, using empty configuration", "path", path, "err", err)
		return &Config{}, nil
	}
	return &cfg, nil
}

// Save writes the configuration atomically using a temp file and rename.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic replaces path with data via a sibling temp file.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return IOError("file", path, err, "creating directory %s", filepath.Dir(path))
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return IOError("file", path, err, "writing temp file %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return IOError("file", path, err, "renaming temp file to %s", path)
	}
	return nil
}
