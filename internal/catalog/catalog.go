// Package catalog holds the fixed, ordered list of portfolio projects.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var embeddedProjects []byte

// Record describes one portfolio project.
type Record struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Description string `yaml:"description" json:"description" validate:"required"`
	Link        string `yaml:"link" json:"link" validate:"required,url,startswith=http"`
}

// Catalog is immutable once built. Positions are 1-based.
type Catalog struct {
	records []Record
}

type catalogFile struct {
	Projects []Record `yaml:"projects" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(embeddedProjects)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Projects))
	for _, r := range file.Projects {
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate project %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	return &Catalog{records: file.Projects}, nil
}

// All returns a copy of the records in display order.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// At returns the record at 1-based position pos.
func (c *Catalog) At(pos int) (Record, bool) {
	if pos < 1 || pos > len(c.records) {
		return Record{}, false
	}
	return c.records[pos-1], true
}

// Position is the inverse of At.
func (c *Catalog) Position(r Record) (int, bool) {
	for i, rec := range c.records {
		if rec == r {
			return i + 1, true
		}
	}
	return 0, false
}
