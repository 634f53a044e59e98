package domain

import "time"

// Announcement is immutable once posted.
type Announcement struct {
	ID        int64
	Title     string
	Body      string
	Author    string
	CreatedAt time.Time
}

type Club struct {
	Name        string
	Description string
}
