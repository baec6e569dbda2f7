package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sarchlab/carousel/rotation"
)

// Colors of the terminal renderers.
var (
	Accent = lipgloss.Color("#8BC34A")
	Muted  = lipgloss.Color("#6B7280")
	Star   = lipgloss.Color("#FFC107")
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(Muted)
	activeStyle = lipgloss.NewStyle().Foreground(Accent)
	starStyle   = lipgloss.NewStyle().Foreground(Star)
)

// RenderDots renders one dot per page with the current page highlighted.
func RenderDots(s rotation.Status) string {
	dots := make([]string, s.PageCount)
	for i := range dots {
		if i == s.CurrentPage {
			dots[i] = activeStyle.Render("●")
			continue
		}

		dots[i] = mutedStyle.Render("○")
	}

	return strings.Join(dots, " ")
}

// RenderPageLabel renders "page of total" counting from one, with an arrow
// while a transition is in flight.
func RenderPageLabel(s rotation.Status) string {
	if !s.HasPage {
		return mutedStyle.Render("no items")
	}

	label := fmt.Sprintf("%d of %d", s.CurrentPage+1, s.PageCount)

	switch s.Direction {
	case rotation.DirectionForward:
		label += " →"
	case rotation.DirectionBackward:
		label = "← " + label
	}

	return label
}

// RenderSlides renders the visible slides side by side, splitting width
// evenly between them.
func RenderSlides(s rotation.Snapshot[Slide], width int) string {
	cards := make([]string, 0, len(s.VisibleItems))
	for _, slide := range s.VisibleItems {
		body := titleStyle.Render(slide.Name)
		if slide.Description != "" {
			body += "\n" + slide.Description
		}
		if slide.Image != "" {
			body += "\n" + mutedStyle.Render(slide.Image)
		}

		cards = append(cards, body)
	}

	return frame(s.Status, cards, width)
}

// RenderClients renders the visible client logos side by side.
func RenderClients(s rotation.Snapshot[Client], width int) string {
	cards := make([]string, 0, len(s.VisibleItems))
	for _, c := range s.VisibleItems {
		name := titleStyle
		if c.NameColor != "" {
			name = name.Foreground(lipgloss.Color(c.NameColor))
		}

		cards = append(cards, name.Render(c.Name)+"\n"+mutedStyle.Render(c.Logo))
	}

	return frame(s.Status, cards, width)
}

// RenderTestimonials renders the visible testimonials side by side.
func RenderTestimonials(s rotation.Snapshot[Testimonial], width int) string {
	cards := make([]string, 0, len(s.VisibleItems))
	for _, t := range s.VisibleItems {
		cards = append(cards, strings.Join([]string{
			starStyle.Render(strings.Repeat("★", max(t.Rating, 0))),
			t.Text,
			titleStyle.Render(t.Name),
			mutedStyle.Render(t.Date),
		}, "\n"))
	}

	return frame(s.Status, cards, width)
}

func frame(s rotation.Status, cards []string, width int) string {
	if len(cards) == 0 {
		return RenderPageLabel(s)
	}

	cardWidth := 0
	if width > 0 {
		// Each card spends two columns on its border.
		cardWidth = max(width/len(cards)-2, 1)
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		style := cardStyle
		if cardWidth > 0 {
			style = style.Width(cardWidth)
		}

		rendered[i] = style.Render(c)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	footer := RenderDots(s) + "  " + RenderPageLabel(s)

	return lipgloss.JoinVertical(lipgloss.Left, row, footer)
}
