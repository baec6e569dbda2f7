package widget

import (
	"sort"
	"time"

	"github.com/sarchlab/carousel/layout"
	"github.com/sarchlab/carousel/rotation"
)

// A Variant names a widget preset.
type Variant string

// Variants of the catalog.
const (
	VariantHero                Variant = "hero"
	VariantAutoScroll          Variant = "auto-scroll"
	VariantClientSlider        Variant = "client-slider"
	VariantAnimatedTestimonial Variant = "animated-testimonial"
	VariantTestimonials        Variant = "testimonials"
)

// Hero shows three slides per page on wide screens and only moves when the
// user navigates.
func Hero() rotation.Config {
	return rotation.Config{
		Breakpoints: layout.Hero,
		SettleDelay: 700 * time.Millisecond,
		Wrap:        true,
	}
}

// AutoScroll shows one slide at a time and advances every 2.7 seconds.
func AutoScroll() rotation.Config {
	return rotation.Config{
		Breakpoints: layout.SingleItem,
		AutoAdvance: 2700 * time.Millisecond,
		SettleDelay: 700 * time.Millisecond,
		Wrap:        true,
	}
}

// ClientSlider shows one logo on mobile and four otherwise, advancing every
// four seconds.
func ClientSlider() rotation.Config {
	return rotation.Config{
		Breakpoints: layout.ClientGrid,
		AutoAdvance: 4 * time.Second,
		SettleDelay: 500 * time.Millisecond,
		Wrap:        true,
	}
}

// AnimatedTestimonial rotates testimonials every three seconds.
func AnimatedTestimonial() rotation.Config {
	return rotation.Config{
		Breakpoints: layout.Testimonial,
		AutoAdvance: 3 * time.Second,
		SettleDelay: 300 * time.Millisecond,
		Wrap:        true,
	}
}

// Testimonials pages through three testimonials at a time and stops at both
// ends.
func Testimonials() rotation.Config {
	return rotation.Config{
		Breakpoints: layout.NewTable(layout.Breakpoint{MinWidth: 0, Count: 3}),
		SettleDelay: 300 * time.Millisecond,
		Wrap:        false,
	}
}

var presets = map[Variant]func() rotation.Config{
	VariantHero:                Hero,
	VariantAutoScroll:          AutoScroll,
	VariantClientSlider:        ClientSlider,
	VariantAnimatedTestimonial: AnimatedTestimonial,
	VariantTestimonials:        Testimonials,
}

// Preset returns the configuration of a variant.
func Preset(v Variant) (rotation.Config, bool) {
	f, ok := presets[v]
	if !ok {
		return rotation.Config{}, false
	}

	return f(), true
}

// Variants lists the known variants in alphabetical order.
func Variants() []Variant {
	out := make([]Variant, 0, len(presets))
	for v := range presets {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
