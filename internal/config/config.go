package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"usdshot/internal/model"
)

const FileName = "usdshot.json"

// Load reads the first config file found in dir. A missing file is not an
// error; a malformed one is.
func Load(dir string) (model.Config, error) {
	var cfg model.Config
	// Priority: usdshot.json -> .usdshot.json
	files := []string{FileName, "." + FileName}

	for _, file := range files {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return cfg, nil
}

func LoadFile(path string) (model.Config, error) {
	var cfg model.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(dir string, cfg model.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), append(data, '\n'), 0644)
}
