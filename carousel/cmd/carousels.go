package cmd

import (
	"github.com/sarchlab/carousel/config"
	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/monitoring"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
	"github.com/sarchlab/carousel/widget"
)

// A carouselView is a controller of any item type plus its renderer.
type carouselView struct {
	carousel monitoring.Carousel
	render   func(width int) string
	close    func()
}

// variantConfig returns the preset of v, with the configured overrides when v
// is the configured variant.
func variantConfig(cfg *config.Config, v widget.Variant) (rotation.Config, error) {
	if cfg != nil && cfg.Variant == string(v) {
		return cfg.RotationConfig()
	}

	preset, ok := widget.Preset(v)
	if !ok {
		return rotation.Config{}, config.ErrUnknownVariant
	}

	return preset, nil
}

func buildView(
	v widget.Variant,
	cfg rotation.Config,
	catalog widget.Catalog,
	engine timing.EventScheduler,
	src viewport.Source,
	hooks ...hooking.Hook,
) carouselView {
	name := string(v)

	switch v {
	case widget.VariantClientSlider:
		c := buildController(name, cfg, catalog.Clients, engine, src, hooks)
		return carouselView{
			carousel: c,
			render: func(w int) string {
				return widget.RenderClients(c.Snapshot(), w)
			},
			close: c.Close,
		}
	case widget.VariantAnimatedTestimonial, widget.VariantTestimonials:
		c := buildController(name, cfg, catalog.Testimonials, engine, src, hooks)
		return carouselView{
			carousel: c,
			render: func(w int) string {
				return widget.RenderTestimonials(c.Snapshot(), w)
			},
			close: c.Close,
		}
	default:
		c := buildController(name, cfg, catalog.Slides, engine, src, hooks)
		return carouselView{
			carousel: c,
			render: func(w int) string {
				return widget.RenderSlides(c.Snapshot(), w)
			},
			close: c.Close,
		}
	}
}

func buildController[T any](
	name string,
	cfg rotation.Config,
	items []T,
	engine timing.EventScheduler,
	src viewport.Source,
	hooks []hooking.Hook,
) *rotation.Controller[T] {
	return rotation.MakeBuilder[T]().
		WithEngine(engine).
		WithConfig(cfg).
		WithViewport(src).
		WithItems(items).
		WithHooks(hooks...).
		Build(name)
}

func loadCatalog(path string) (widget.Catalog, error) {
	if path == "" {
		return widget.DemoCatalog(), nil
	}

	return widget.LoadCatalog(path)
}
