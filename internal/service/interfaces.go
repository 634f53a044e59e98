package service

import (
	"context"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
)

type IdentityService interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	AddUser(ctx context.Context, sess *auth.Session, u domain.User) error
	ListUsers(ctx context.Context, sess *auth.Session) ([]domain.User, error)
}

type SessionService interface {
	Login(ctx context.Context, sess *auth.Session, username, password string) (domain.User, error)
	Guest(ctx context.Context, sess *auth.Session) domain.User
	Logout(ctx context.Context, sess *auth.Session)
	Resume(ctx context.Context, sess *auth.Session, token string) (domain.User, error)
	IssueToken(sess *auth.Session) (string, error)
	VisibleActions(sess *auth.Session) ([]auth.Action, error)
}

type TeamService interface {
	Create(ctx context.Context, sess *auth.Session, name, lead string) error
	AddMember(ctx context.Context, sess *auth.Session, team, username, password string, role domain.Role) error
	ListMembers(ctx context.Context, sess *auth.Session, team string) ([]domain.User, error)
	List(ctx context.Context, sess *auth.Session) ([]domain.Team, error)
	Dashboard(ctx context.Context, sess *auth.Session, team string) (*TeamView, error)
}

type TaskService interface {
	Create(ctx context.Context, sess *auth.Session, in domain.TaskInput) (domain.Task, error)
	SetStatus(ctx context.Context, sess *auth.Session, id int64, status domain.TaskStatus) error
	SetAssignee(ctx context.Context, sess *auth.Session, id int64, username string) error
	Get(ctx context.Context, sess *auth.Session, id int64) (domain.Task, error)
	ListByTeam(ctx context.Context, sess *auth.Session, team string) ([]domain.Task, error)
	ListByStatus(ctx context.Context, sess *auth.Session, team string, status domain.TaskStatus) ([]domain.Task, error)
	Board(ctx context.Context, sess *auth.Session, team string) (*BoardView, error)
	Projects(ctx context.Context, sess *auth.Session) (*BoardView, error)
}

type AnnouncementService interface {
	Post(ctx context.Context, sess *auth.Session, title, body string) (domain.Announcement, error)
	ListRecent(ctx context.Context, sess *auth.Session, limit int) ([]domain.Announcement, error)
	Get(ctx context.Context, sess *auth.Session, id int64) (domain.Announcement, error)
}

type EventService interface {
	Create(ctx context.Context, sess *auth.Session, e domain.Event) (domain.Event, error)
	List(ctx context.Context, sess *auth.Session) ([]domain.Event, error)
}

type DashboardService interface {
	Club(ctx context.Context, sess *auth.Session) (domain.Club, error)
	Overview(ctx context.Context, sess *auth.Session) (*Overview, error)
}

type TransferService interface {
	Export(ctx context.Context, sess *auth.Session) ([]byte, error)
	Import(ctx context.Context, sess *auth.Session, blob []byte) error
	Reset(ctx context.Context, sess *auth.Session) error
	History(ctx context.Context, sess *auth.Session, limit int) ([]repository.SnapshotVersion, error)
}

// Column is one status column of a kanban board.
type Column struct {
	Status domain.TaskStatus
	Tasks  []domain.Task
}

// BoardView renders tasks as the three status columns. Team is empty when
// the view spans several teams.
type BoardView struct {
	Team    string
	Columns []Column
}

// Total counts the tasks across all columns.
func (v *BoardView) Total() int {
	n := 0
	for _, c := range v.Columns {
		n += len(c.Tasks)
	}
	return n
}

// TeamView is the team dashboard: roster plus board.
type TeamView struct {
	Team    domain.Team
	Members []domain.User
	Board   BoardView
}

// TeamSummary is one row of the admin team overview.
type TeamSummary struct {
	Name    string
	Lead    string
	Members int
	Counts  map[domain.TaskStatus]int
}

// Overview is the admin dashboard.
type Overview struct {
	Club          domain.Club
	TeamCount     int
	UserCount     int
	TaskCount     int
	Teams         []TeamSummary
	Announcements []domain.Announcement
}
