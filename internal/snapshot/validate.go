package snapshot

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
)

// Validate checks a decoded document before conversion and returns every
// problem found.
func Validate(doc *Document) []error {
	var errs []error

	if doc.Users == nil {
		errs = append(errs, fmt.Errorf("users is required"))
	}
	if doc.Teams == nil {
		errs = append(errs, fmt.Errorf("teams is required"))
	}
	if doc.Tasks == nil {
		errs = append(errs, fmt.Errorf("tasks is required"))
	}
	if doc.Announcements == nil {
		errs = append(errs, fmt.Errorf("announcements is required"))
	}
	if doc.NextTaskID == nil {
		errs = append(errs, fmt.Errorf("next_task_id is required"))
	}
	if doc.NextAnnouncementID == nil {
		errs = append(errs, fmt.Errorf("next_announcement_id is required"))
	}

	errs = append(errs, validateUsers(doc)...)
	errs = append(errs, validateTeams(doc)...)
	errs = append(errs, validateTasks(doc)...)
	errs = append(errs, validateAnnouncements(doc)...)
	errs = append(errs, validateEvents(doc)...)

	return errs
}

func validateUsers(doc *Document) []error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(doc.Users)) {
		u := doc.Users[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("users: empty username"))
			continue
		}
		role := domain.Role(u.Role)
		if !role.Valid() {
			errs = append(errs, fmt.Errorf("users[%q].role: invalid value %q", name, u.Role))
			continue
		}
		team := deref(u.Team)
		if role.RequiresTeam() && team == "" {
			errs = append(errs, fmt.Errorf("users[%q].team is required for role %s", name, role))
		}
		if team != "" && doc.Teams != nil {
			if _, ok := doc.Teams[team]; !ok {
				errs = append(errs, fmt.Errorf("users[%q].team: unknown team %q", name, team))
			}
		}
	}
	return errs
}

func validateTeams(doc *Document) []error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(doc.Teams)) {
		t := doc.Teams[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("teams: empty team name"))
			continue
		}
		seen := make(map[string]bool, len(t.Members))
		for _, m := range t.Members {
			if seen[m] {
				errs = append(errs, fmt.Errorf("teams[%q].members: duplicate member %q", name, m))
			}
			seen[m] = true
			if doc.Users != nil {
				if _, ok := doc.Users[m]; !ok {
					errs = append(errs, fmt.Errorf("teams[%q].members: unknown user %q", name, m))
				}
			}
		}
		if lead := deref(t.Lead); lead != "" && !seen[lead] {
			errs = append(errs, fmt.Errorf("teams[%q].lead %q is not a member", name, lead))
		}
	}
	return errs
}

func validateTasks(doc *Document) []error {
	var errs []error
	ids := make(map[int64]bool, len(doc.Tasks))
	var maxID int64
	for i, t := range doc.Tasks {
		if t.ID <= 0 {
			errs = append(errs, fmt.Errorf("tasks[%d].id must be positive", i))
		} else if ids[t.ID] {
			errs = append(errs, fmt.Errorf("tasks[%d].id: duplicate id %d", i, t.ID))
		}
		ids[t.ID] = true
		maxID = max(maxID, t.ID)

		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("tasks[%d].title is required", i))
		}
		if !domain.TaskStatus(t.Status).Valid() {
			errs = append(errs, fmt.Errorf("tasks[%d].status: invalid value %q", i, t.Status))
		}
		if doc.Teams != nil {
			if _, ok := doc.Teams[t.Team]; !ok {
				errs = append(errs, fmt.Errorf("tasks[%d].team: unknown team %q", i, t.Team))
			}
		}
	}
	if doc.NextTaskID != nil && *doc.NextTaskID <= maxID {
		errs = append(errs, fmt.Errorf("next_task_id %d must exceed the largest task id %d", *doc.NextTaskID, maxID))
	}
	return errs
}

func validateAnnouncements(doc *Document) []error {
	var errs []error
	ids := make(map[int64]bool, len(doc.Announcements))
	var maxID int64
	for i, a := range doc.Announcements {
		if a.ID <= 0 {
			errs = append(errs, fmt.Errorf("announcements[%d].id must be positive", i))
		} else if ids[a.ID] {
			errs = append(errs, fmt.Errorf("announcements[%d].id: duplicate id %d", i, a.ID))
		}
		ids[a.ID] = true
		maxID = max(maxID, a.ID)

		if strings.TrimSpace(a.Title) == "" {
			errs = append(errs, fmt.Errorf("announcements[%d].title is required", i))
		}
	}
	if doc.NextAnnouncementID != nil && *doc.NextAnnouncementID <= maxID {
		errs = append(errs, fmt.Errorf("next_announcement_id %d must exceed the largest announcement id %d", *doc.NextAnnouncementID, maxID))
	}
	return errs
}

func validateEvents(doc *Document) []error {
	var errs []error
	for i, e := range doc.Events {
		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("events[%d].title is required", i))
		}
		if _, err := time.Parse(domain.EventDateLayout, e.Date); err != nil {
			errs = append(errs, fmt.Errorf("events[%d].date: invalid date format %q (expected YYYY-MM-DD)", i, e.Date))
		}
		if team := deref(e.Team); team != "" && doc.Teams != nil {
			if _, ok := doc.Teams[team]; !ok {
				errs = append(errs, fmt.Errorf("events[%d].team: unknown team %q", i, team))
			}
		}
	}
	return errs
}
