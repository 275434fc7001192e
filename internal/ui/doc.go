// package ui holds the lipgloss stylesheet for terminal output
package ui
