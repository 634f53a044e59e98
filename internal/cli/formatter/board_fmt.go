package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const columnWidth = 28

// FormatBoard lays the status columns out side by side. When the view spans
// several teams each card names its team.
func FormatBoard(v *service.BoardView) string {
	return formatBoard(v, -1, -1)
}

// FormatBoardSelection is FormatBoard with one card highlighted, used by the
// interactive board.
func FormatBoardSelection(v *service.BoardView, col, row int) string {
	return formatBoard(v, col, row)
}

func formatBoard(v *service.BoardView, selCol, selRow int) string {
	cols := make([]string, 0, len(v.Columns))
	for ci, c := range v.Columns {
		var b strings.Builder
		b.WriteString(StatusStyle(c.Status).Bold(true).Render(fmt.Sprintf("%s (%d)", c.Status, len(c.Tasks))))
		b.WriteString("\n")
		if len(c.Tasks) == 0 {
			b.WriteString(Dim("no tasks"))
		}
		for ri, t := range c.Tasks {
			card := taskCard(t, v.Team == "")
			if ci == selCol && ri == selRow {
				card = StyleHeader.Render("▶ ") + card
			} else {
				card = "  " + card
			}
			b.WriteString(card)
			if ri < len(c.Tasks)-1 {
				b.WriteString("\n")
			}
		}
		border := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(StatusStyle(c.Status).GetForeground()).
			Width(columnWidth).
			Padding(0, 1)
		if ci == selCol {
			border = border.BorderForeground(ColorHeader)
		}
		cols = append(cols, border.Render(b.String()))
	}

	title := "Board"
	if v.Team != "" {
		title = v.Team + " board"
	}
	return Header(title) + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n"
}

func taskCard(t domain.Task, withTeam bool) string {
	line := Dim("#"+strconv.FormatInt(t.ID, 10)) + " " + Truncate(t.Title, columnWidth-8)
	var meta []string
	if t.IsAssigned() {
		meta = append(meta, "@"+t.Assignee)
	}
	if withTeam {
		meta = append(meta, t.Team)
	}
	if len(meta) > 0 {
		line += "\n    " + Dim(strings.Join(meta, " · "))
	}
	return line
}

// FormatTaskList renders tasks as a table.
func FormatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			Dim(strconv.FormatInt(t.ID, 10)),
			t.Title,
			StatusPill(t.Status),
			t.Team,
			OrDash(t.Assignee),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "TEAM", "ASSIGNEE"}, rows)
}

// FormatTask renders one task in detail.
func FormatTask(t domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(fmt.Sprintf("#%d %s", t.ID, t.Title)), StatusPill(t.Status))
	fmt.Fprintf(&b, "%s %s\n", Dim("team:      "), t.Team)
	fmt.Fprintf(&b, "%s %s\n", Dim("assignee:  "), OrDash(t.Assignee))
	fmt.Fprintf(&b, "%s %s\n", Dim("created by:"), OrDash(t.CreatedBy))
	fmt.Fprintf(&b, "%s %s\n", Dim("created:   "), t.CreatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	return b.String()
}
