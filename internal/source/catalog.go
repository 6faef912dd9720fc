package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a source catalog.
type catalogFile struct {
	Sources []Descriptor `yaml:"sources"`
}

// Load reads a YAML source catalog from disk.
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cf.Sources, nil
}

// Save writes a catalog to disk as YAML.
func Save(path string, sources []Descriptor) error {
	data, err := yaml.Marshal(catalogFile{Sources: sources})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
