package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	waitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Italic(true)
)
