package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/service"
)

func FormatClub(c domain.Club) string {
	return RenderBox(c.Name, c.Description) + "\n"
}

// FormatWhoAmI describes the session identity and what it may do.
func FormatWhoAmI(u domain.User, actions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", Bold(u.Username), RoleBadge(u.Role))
	if u.Team != "" {
		fmt.Fprintf(&b, "  %s", Dim("team "+u.Team))
	}
	b.WriteString("\n")
	if len(actions) > 0 {
		b.WriteString(Dim("can: "+strings.Join(actions, ", ")) + "\n")
	}
	return b.String()
}

// FormatOverview renders the admin dashboard.
func FormatOverview(o *service.Overview, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(o.Club.Name) + "\n")
	fmt.Fprintf(&b, "%s teams   %s users   %s tasks\n\n",
		Bold(strconv.Itoa(o.TeamCount)), Bold(strconv.Itoa(o.UserCount)), Bold(strconv.Itoa(o.TaskCount)))

	rows := make([][]string, 0, len(o.Teams))
	for _, t := range o.Teams {
		total := 0
		for _, n := range t.Counts {
			total += n
		}
		rows = append(rows, []string{
			t.Name,
			OrDash(t.Lead),
			strconv.Itoa(t.Members),
			StatusStyle(domain.StatusToDo).Render(strconv.Itoa(t.Counts[domain.StatusToDo])),
			StatusStyle(domain.StatusInProgress).Render(strconv.Itoa(t.Counts[domain.StatusInProgress])),
			StatusStyle(domain.StatusDone).Render(strconv.Itoa(t.Counts[domain.StatusDone])),
			DoneBar(t.Counts[domain.StatusDone], total, 10),
		})
	}
	b.WriteString(RenderTable([]string{"TEAM", "LEAD", "MEMBERS", "TO DO", "IN PROGRESS", "DONE", "PROGRESS"}, rows))

	if len(o.Announcements) > 0 {
		b.WriteString("\n" + Header("Recent announcements") + "\n")
		b.WriteString(FormatAnnouncements(o.Announcements, now))
	}
	return b.String()
}

func FormatAnnouncements(as []domain.Announcement, now time.Time) string {
	if len(as) == 0 {
		return Dim("No announcements.") + "\n"
	}
	var b strings.Builder
	for _, a := range as {
		fmt.Fprintf(&b, "%s %s  %s\n", Dim(fmt.Sprintf("#%d", a.ID)), Bold(a.Title),
			Dim(a.Author+" · "+HumanTimestampFrom(a.CreatedAt, now)))
		if a.Body != "" {
			fmt.Fprintf(&b, "   %s\n", Truncate(strings.ReplaceAll(a.Body, "\n", " "), 72))
		}
	}
	return b.String()
}

func FormatAnnouncement(a domain.Announcement, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", Bold(a.Title), Dim(a.Author+" · "+HumanTimestampFrom(a.CreatedAt, now)))
	if a.Body != "" {
		b.WriteString("\n" + a.Body + "\n")
	}
	return b.String()
}

func FormatEvents(es []domain.Event) string {
	if len(es) == 0 {
		return Dim("No events.") + "\n"
	}
	rows := make([][]string, 0, len(es))
	for _, e := range es {
		team := StyleGreen.Render("public")
		if !e.IsPublic() {
			team = e.Team
		}
		rows = append(rows, []string{e.Date, e.Title, team})
	}
	return RenderTable([]string{"DATE", "EVENT", "TEAM"}, rows)
}

// FormatUsers renders accounts without their credentials.
func FormatUsers(us []domain.User) string {
	if len(us) == 0 {
		return Dim("No members.") + "\n"
	}
	rows := make([][]string, 0, len(us))
	for _, u := range us {
		rows = append(rows, []string{u.Username, RoleBadge(u.Role), OrDash(u.Team)})
	}
	return RenderTable([]string{"USERNAME", "ROLE", "TEAM"}, rows)
}

func FormatTeams(ts []domain.Team) string {
	if len(ts) == 0 {
		return Dim("No teams.") + "\n"
	}
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, []string{t.Name, OrDash(t.Lead), strconv.Itoa(len(t.Members))})
	}
	return RenderTable([]string{"TEAM", "LEAD", "MEMBERS"}, rows)
}

// FormatTeamView renders the team dashboard: lead, roster and board.
func FormatTeamView(v *service.TeamView) string {
	var b strings.Builder
	b.WriteString(Header(v.Team.Name) + "\n")
	fmt.Fprintf(&b, "%s %s\n\n", Dim("lead:"), OrDash(v.Team.Lead))
	b.WriteString(FormatUsers(v.Members))
	b.WriteString("\n")
	b.WriteString(FormatBoard(&v.Board))
	return b.String()
}

func FormatHistory(vs []repository.SnapshotVersion) string {
	if len(vs) == 0 {
		return Dim("No saved versions.") + "\n"
	}
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		sum := v.Checksum
		if len(sum) > 12 {
			sum = sum[:12]
		}
		rows = append(rows, []string{
			strconv.FormatInt(v.Version, 10),
			v.SavedAt.Format("2006-01-02 15:04:05"),
			OrDash(v.Reason),
			strconv.Itoa(v.Size),
			Dim(sum),
		})
	}
	return RenderTable([]string{"VERSION", "SAVED", "REASON", "BYTES", "CHECKSUM"}, rows)
}
