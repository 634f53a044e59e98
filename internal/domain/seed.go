package domain

import "time"

// SeedPassword is the legacy plaintext credential carried by the demo accounts.
const SeedPassword = "123"

// DefaultState builds the demo club the board starts with when nothing has
// been persisted yet, or when the persisted snapshot cannot be read.
func DefaultState(now time.Time) *State {
	s := NewState()
	s.Club = Club{
		Name: "DevCatalyst | MECS Tech Club",
		Description: "Welcome to DevCatalyst, the official student-led tech community at Matrusri Engineering College!\n" +
			"Catalyzing Innovation, Developing Excellence\n\n" +
			"What we do:\n" +
			"- Tech workshops & coding challenges\n" +
			"- Guest talks & mentorship from industry pros\n" +
			"- Startup ideation & project showcases\n" +
			"- Internship and networking opportunities",
	}

	rosters := []struct {
		name    string
		lead    string
		members []string
	}{
		{"Core Team", "core_lead", []string{"core_lead", "core_member1"}},
		{"Technical Team", "tech_lead", []string{"tech_lead", "tech_member1", "tech_member2"}},
		{"General", "", nil},
		{"Representatives", "", nil},
		{"Event Planning", "event_lead", []string{"event_lead", "event_member1"}},
		{"Social media team", "social_lead", []string{"social_lead", "social_member1"}},
		{"Outreach Team", "outreach_lead", []string{"outreach_lead"}},
	}

	s.Users["admin"] = User{Username: "admin", Password: SeedPassword, Role: RoleAdmin}
	for _, r := range rosters {
		s.Teams[r.name] = Team{Name: r.name, Lead: r.lead, Members: append([]string{}, r.members...)}
		for _, m := range r.members {
			role := RoleMember
			if m == r.lead {
				role = RoleTeamLead
			}
			s.Users[m] = User{Username: m, Password: SeedPassword, Role: role, Team: r.name}
		}
	}

	s.Tasks = []Task{
		{ID: 1, Title: "Plan Hackathon", Description: "Define tracks + rules", Status: StatusToDo,
			Team: "Event Planning", Assignee: "event_lead", CreatedBy: "admin", CreatedAt: now},
		{ID: 2, Title: "Social Campaign", Description: "Create reels for event", Status: StatusInProgress,
			Team: "Social media team", Assignee: "social_member1", CreatedBy: "social_lead", CreatedAt: now},
		{ID: 3, Title: "Deploy Site Revamp", Description: "Finish landing page", Status: StatusToDo,
			Team: "Technical Team", Assignee: "tech_member1", CreatedBy: "tech_lead", CreatedAt: now},
	}
	s.NextTaskID = 4

	s.Announcements = []Announcement{
		{ID: 1, Title: "Welcome to DevCatalyst!", Body: "Kickoff meeting this Friday 5PM in Auditorium.",
			Author: "admin", CreatedAt: now},
	}
	s.NextAnnouncementID = 2

	s.Events = []Event{{Title: "Hackathon 2025", Date: "2025-09-15"}}
	return s
}
