package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const renderWidth = 100

// renderMarkdown renders a review for the terminal, falling back to the raw
// text when glamour cannot render it.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}
