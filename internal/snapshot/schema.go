// Package snapshot serializes the board aggregate to the JSON document the
// club data file has always used, and restores it with full validation.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Document is the top-level persisted layout. Pointer and nil-able fields
// let validation tell a missing key apart from an empty one.
type Document struct {
	Club               *ClubDoc           `json:"club,omitempty"`
	Users              map[string]UserDoc `json:"users"`
	Teams              map[string]TeamDoc `json:"teams"`
	Tasks              []TaskDoc          `json:"tasks"`
	Announcements      []AnnouncementDoc  `json:"announcements"`
	NextTaskID         *int64             `json:"next_task_id"`
	NextAnnouncementID *int64             `json:"next_announcement_id"`
	Events             []EventDoc         `json:"events"`
}

type ClubDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UserDoc struct {
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Team     *string `json:"team"`
}

type TeamDoc struct {
	Lead    *string  `json:"lead"`
	Members []string `json:"members"`
}

type TaskDoc struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`
	Status      string    `json:"status"`
	Team        string    `json:"team"`
	AssignedTo  *string   `json:"assigned_to"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   Timestamp `json:"created_at"`
}

type AnnouncementDoc struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt Timestamp `json:"created_at"`
}

type EventDoc struct {
	Title string  `json:"title"`
	Date  string  `json:"date"`
	Team  *string `json:"team,omitempty"`
}

// Timestamp is written as an RFC 3339 string with nanoseconds. On read it
// also accepts the float Unix seconds found in older data files.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("timestamp %s: %w", b, err)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return fmt.Errorf("timestamp %s is not a finite number", b)
	}
	whole, frac := math.Modf(secs)
	nanos := math.Round(frac*1e6) * 1e3
	t.Time = time.Unix(int64(whole), int64(nanos)).UTC()
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
