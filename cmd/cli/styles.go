package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

const asciiLogo = `
 ██████╗ ██████╗ ██████╗ ███████╗██╗    ██╗██╗███████╗███████╗
██╔════╝██╔═══██╗██╔══██╗██╔════╝██║    ██║██║██╔════╝██╔════╝
██║     ██║   ██║██║  ██║█████╗  ██║ █╗ ██║██║███████╗█████╗
██║     ██║   ██║██║  ██║██╔══╝  ██║███╗██║██║╚════██║██╔══╝
╚██████╗╚██████╔╝██████╔╝███████╗╚███╔███╔╝██║███████║███████╗
 ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝ ╚══╝╚══╝ ╚═╝╚══════╝╚══════╝
                    AI CODE REVIEWER`

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

type styles struct {
	banner   lipgloss.Style
	prompt   lipgloss.Style
	inactive lipgloss.Style
	answer   lipgloss.Style
}

type palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Inactive  lipgloss.Color
}

var defaultPalette = palette{
	Primary:   lipgloss.Color("51"),
	Secondary: lipgloss.Color("33"),
	Warning:   lipgloss.Color("226"),
	Inactive:  lipgloss.Color("240"),
}

func newStyles(p palette) styles {
	return styles{
		banner: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Secondary).
			Padding(0, 2).
			MarginBottom(1),
		prompt:   lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		inactive: lipgloss.NewStyle().Foreground(p.Inactive),
		answer:   lipgloss.NewStyle().Foreground(p.Secondary).Italic(true),
	}
}

func renderBanner(st styles) string {
	return st.banner.Render(asciiLogo)
}
