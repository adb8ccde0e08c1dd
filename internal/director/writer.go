package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteComposition writes a composition to a YAML file
func WriteComposition(c *Composition, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadComposition reads a composition from a YAML file
func ReadComposition(path string) (*Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Composition
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &c, nil
}
