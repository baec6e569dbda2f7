// Package widget holds the item types and presets of the carousel widget
// catalog, plus terminal renderers over rotation snapshots.
package widget

// A Slide is one image of a hero or auto-scroll carousel.
type Slide struct {
	Name        string `yaml:"name" json:"name"`
	Image       string `yaml:"image" json:"image"`
	Description string `yaml:"description" json:"description"`
}

// A Client is one logo of a client slider.
type Client struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Logo      string `yaml:"logo" json:"logo"`
	NameColor string `yaml:"name_color,omitempty" json:"name_color,omitempty"`
}

// A Testimonial is one customer review.
type Testimonial struct {
	Name   string `yaml:"name" json:"name"`
	Date   string `yaml:"date" json:"date"`
	Text   string `yaml:"text" json:"text"`
	Rating int    `yaml:"rating" json:"rating"`
}
