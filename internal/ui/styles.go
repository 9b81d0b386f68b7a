package ui

import "github.com/charmbracelet/lipgloss"

var (
	assistantLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Render("RightHome:")
	userLabel      = lipgloss.NewStyle().Bold(true).Render("You:")

	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	priceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	favoriteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)
