package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle colors a board column.
func StatusStyle(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.StatusToDo:
		return StyleBlue
	case domain.StatusInProgress:
		return StyleYellow
	case domain.StatusDone:
		return StyleGreen
	default:
		return StyleDim
	}
}

// StatusPill renders a task status with its marker, e.g. "● In Progress".
func StatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusToDo:
		return StyleBlue.Render("○ To Do")
	case domain.StatusInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.StatusDone:
		return StyleGreen.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// RoleBadge renders a role label.
func RoleBadge(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return StyleRed.Render(string(role))
	case domain.RoleTeamLead:
		return StylePurple.Render(string(role))
	case domain.RoleMember:
		return StyleFg.Render(string(role))
	default:
		return StyleDim.Render(string(role))
	}
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
