package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/domain"
)

// Encode serializes the whole aggregate.
func Encode(s *domain.State) ([]byte, error) {
	data, err := json.MarshalIndent(FromState(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot. Every failure wraps
// domain.ErrParse; the caller's state is never touched.
func Decode(blob []byte) (*domain.State, error) {
	var doc Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if errs := Validate(&doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	return ToState(&doc), nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("snapshot validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrParse, msg)
}

// FromState maps the aggregate onto the persisted layout.
func FromState(s *domain.State) *Document {
	nextTask, nextAnn := s.NextTaskID, s.NextAnnouncementID
	doc := &Document{
		Club:               &ClubDoc{Name: s.Club.Name, Description: s.Club.Description},
		Users:              make(map[string]UserDoc, len(s.Users)),
		Teams:              make(map[string]TeamDoc, len(s.Teams)),
		Tasks:              make([]TaskDoc, 0, len(s.Tasks)),
		Announcements:      make([]AnnouncementDoc, 0, len(s.Announcements)),
		NextTaskID:         &nextTask,
		NextAnnouncementID: &nextAnn,
		Events:             make([]EventDoc, 0, len(s.Events)),
	}
	for name, u := range s.Users {
		doc.Users[name] = UserDoc{Password: u.Password, Role: string(u.Role), Team: nullable(u.Team)}
	}
	for name, t := range s.Teams {
		doc.Teams[name] = TeamDoc{Lead: nullable(t.Lead), Members: append([]string{}, t.Members...)}
	}
	for _, t := range s.Tasks {
		doc.Tasks = append(doc.Tasks, TaskDoc{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Team:        t.Team,
			AssignedTo:  nullable(t.Assignee),
			CreatedBy:   t.CreatedBy,
			CreatedAt:   Timestamp{t.CreatedAt},
		})
	}
	for _, a := range s.Announcements {
		doc.Announcements = append(doc.Announcements, AnnouncementDoc{
			ID:        a.ID,
			Title:     a.Title,
			Body:      a.Body,
			Author:    a.Author,
			CreatedAt: Timestamp{a.CreatedAt},
		})
	}
	for _, e := range s.Events {
		doc.Events = append(doc.Events, EventDoc{Title: e.Title, Date: e.Date, Team: nullable(e.Team)})
	}
	return doc
}

// ToState converts a validated document. Call Validate first.
func ToState(doc *Document) *domain.State {
	s := domain.NewState()
	if doc.Club != nil {
		s.Club = domain.Club{Name: doc.Club.Name, Description: doc.Club.Description}
	}
	for name, u := range doc.Users {
		s.Users[name] = domain.User{Username: name, Password: u.Password, Role: domain.Role(u.Role), Team: deref(u.Team)}
	}
	for name, t := range doc.Teams {
		s.Teams[name] = domain.Team{Name: name, Lead: deref(t.Lead), Members: append([]string{}, t.Members...)}
	}
	for _, t := range doc.Tasks {
		s.Tasks = append(s.Tasks, domain.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      domain.TaskStatus(t.Status),
			Team:        t.Team,
			Assignee:    deref(t.AssignedTo),
			CreatedBy:   t.CreatedBy,
			CreatedAt:   t.CreatedAt.Time,
		})
	}
	for _, a := range doc.Announcements {
		s.Announcements = append(s.Announcements, domain.Announcement{
			ID:        a.ID,
			Title:     a.Title,
			Body:      a.Body,
			Author:    a.Author,
			CreatedAt: a.CreatedAt.Time,
		})
	}
	for _, e := range doc.Events {
		s.Events = append(s.Events, domain.Event{Title: e.Title, Date: e.Date, Team: deref(e.Team)})
	}
	if doc.NextTaskID != nil {
		s.NextTaskID = *doc.NextTaskID
	}
	if doc.NextAnnouncementID != nil {
		s.NextAnnouncementID = *doc.NextAnnouncementID
	}
	return s
}
