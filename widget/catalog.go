package widget

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoCatalog []byte

// A Catalog holds the items shown by each kind of widget.
type Catalog struct {
	Slides       []Slide       `yaml:"slides"`
	Clients      []Client      `yaml:"clients"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

// DemoCatalog returns the built-in sample items.
func DemoCatalog() Catalog {
	c, err := ParseCatalog(demoCatalog)
	if err != nil {
		panic(err)
	}

	return c
}

// LoadCatalog reads a catalog file. Sections missing from the file are
// filled from DemoCatalog.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}

	demo := DemoCatalog()
	if c.Slides == nil {
		c.Slides = demo.Slides
	}
	if c.Clients == nil {
		c.Clients = demo.Clients
	}
	if c.Testimonials == nil {
		c.Testimonials = demo.Testimonials
	}

	return c, nil
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return c, nil
}
