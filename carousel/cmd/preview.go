package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sarchlab/carousel/config"
	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/monitoring"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
	"github.com/sarchlab/carousel/widget"
)

var previewCatalog string

var previewCmd = &cobra.Command{
	Use:   "preview [variant]",
	Short: "Preview a widget variant in the terminal",
	Long: `Preview a widget variant in the terminal. The terminal width is the ` +
		`viewport width. Use ←/→ to navigate, 1-9 to jump, space to pause and ` +
		`q to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		variant := widget.Variant(appConfig.Variant)
		if len(args) == 1 {
			variant = widget.Variant(args[0])
		}

		return preview(variant)
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewCatalog, "catalog", "",
		"YAML file with slides, clients and testimonials")
	rootCmd.AddCommand(previewCmd)
}

func preview(variant widget.Variant) error {
	cfg, err := variantConfig(appConfig, variant)
	if err != nil {
		return fmt.Errorf("%w: %q", config.ErrUnknownVariant, variant)
	}

	catalog, err := loadCatalog(previewCatalog)
	if err != nil {
		return err
	}

	engine := timing.NewRealtimeEngine()
	defer engine.Close()

	vp := viewport.NewBroadcaster(80)
	changes := make(chan struct{}, 1)

	view := buildView(variant, cfg, catalog, engine, vp,
		hooking.HookFunc(func(hooking.HookCtx) { notify(changes) }))
	defer view.close()

	m := newPreviewModel(view, vp, engine, changes)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()

	return err
}

func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

type changedMsg struct{}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(widget.Accent)
	helpStyle   = lipgloss.NewStyle().Foreground(widget.Muted)
)

type previewModel struct {
	view     carouselView
	viewport monitoring.Resizer
	engine   monitoring.Engine
	changes  <-chan struct{}

	width  int
	paused bool
}

func newPreviewModel(
	view carouselView,
	vp monitoring.Resizer,
	engine monitoring.Engine,
	changes <-chan struct{},
) previewModel {
	return previewModel{
		view:     view,
		viewport: vp,
		engine:   engine,
		changes:  changes,
	}
}

func (m previewModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Resize(msg.Width)
	case changedMsg:
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.view.carousel

	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		c.Next()
	case "left", "h":
		c.Prev()
	case " ":
		if m.paused {
			m.engine.Continue()
		} else {
			m.engine.Pause()
		}

		m.paused = !m.paused
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			c.GoTo(int(key[0] - '1'))
		}
	}

	return m, nil
}

func (m previewModel) View() string {
	s := m.view.carousel.Status()

	var b strings.Builder

	title := s.Name
	if m.paused {
		title += " (paused)"
	}

	b.WriteString(headerStyle.Render(title))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %s, %d per page at %dpx",
		s.State, s.ItemsPerPage, s.Width)))
	b.WriteString("\n\n")
	b.WriteString(m.view.render(m.width))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("←/→ navigate • 1-9 jump • space pause • q quit"))

	return b.String()
}
