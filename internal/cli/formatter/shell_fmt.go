package formatter

import (
	"fmt"
	"strings"
)

// FormatShellWelcome renders the banner shown when the shell starts.
func FormatShellWelcome(clubName string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  "+clubName) + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	for _, c := range [][]string{
		{"login", "Sign in (or 'login --guest')"},
		{"task board", "Show your team's board"},
		{"announce list", "Read the feed"},
		{"help", "Show all commands"},
		{"exit", "Leave the shell"},
	} {
		fmt.Fprintf(&b, "  %s%s\n", StyleGreen.Render(fmt.Sprintf("%-15s", c[0])), StyleDim.Render(c[1]))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatShellError renders an error line for the shell.
func FormatShellError(err error) string {
	return StyleRed.Render("✖ ") + err.Error()
}

// FormatPrompt renders the shell prompt for the signed-in user.
func FormatPrompt(username string) string {
	if username == "" {
		return StyleDim.Render("clubdeck") + " › "
	}
	return StylePurple.Render(username) + StyleDim.Render("@clubdeck") + " › "
}
