// Package ui holds the terminal styling shared by the tasa front ends.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderAccent styles a highlighted fragment.
func RenderAccent(s string) string {
	return accentStyle.Render(s)
}

// RenderPass styles a success marker.
func RenderPass(s string) string {
	return passStyle.Render(s)
}

// RenderFail styles a failure marker.
func RenderFail(s string) string {
	return failStyle.Render(s)
}

// RenderMuted styles secondary text.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// Banner is the greeting the interactive menu opens with.
const Banner = "" +
	"████████╗ █████╗ ███████╗ █████╗ \n" +
	"╚══██╔══╝██╔══██╗██╔════╝██╔══██╗\n" +
	"   ██║   ███████║███████╗███████║\n" +
	"   ██║   ██╔══██║╚════██║██╔══██║\n" +
	"   ██║   ██║  ██║███████║██║  ██║\n" +
	"   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝\n"

// RenderBanner styles the greeting banner.
func RenderBanner() string {
	return accentStyle.Render(Banner)
}
