package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout of a catalog.
type File struct {
	BodyAreas  []BodyArea        `yaml:"body_areas"`
	Conditions []HealthCondition `yaml:"conditions"`
}

// Load parses a YAML catalog and validates it. Sequence order in the file
// becomes the definition order.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty catalog document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if len(f.BodyAreas) == 0 {
		return nil, fmt.Errorf("%w: no body areas defined", ErrInvalidCatalog)
	}
	return New(f.BodyAreas, f.Conditions)
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes a catalog back into the YAML layout accepted by Load.
func Marshal(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{BodyAreas: c.BodyAreas(), Conditions: c.Conditions()}); err != nil {
		return nil, fmt.Errorf("catalog: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("catalog: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
