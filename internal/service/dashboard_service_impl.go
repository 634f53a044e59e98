package service

import (
	"context"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

// recentOnDashboard is how many announcements the admin overview shows.
const recentOnDashboard = 5

type dashboardService struct {
	board *Board
}

func NewDashboardService(board *Board) DashboardService {
	return &dashboardService{board: board}
}

func (s *dashboardService) Club(_ context.Context, sess *auth.Session) (domain.Club, error) {
	if _, err := authorize(sess, auth.ActionViewClub, ""); err != nil {
		return domain.Club{}, err
	}
	var c domain.Club
	_ = s.board.read(func(st *domain.State) error {
		c = st.Club
		return nil
	})
	return c, nil
}

func (s *dashboardService) Overview(_ context.Context, sess *auth.Session) (*Overview, error) {
	if _, err := authorize(sess, auth.ActionViewDashboard, ""); err != nil {
		return nil, err
	}
	o := &Overview{}
	_ = s.board.read(func(st *domain.State) error {
		o.Club = st.Club
		o.TeamCount = len(st.Teams)
		o.UserCount = len(st.Users)
		o.TaskCount = len(st.Tasks)
		for _, t := range st.TeamList() {
			o.Teams = append(o.Teams, TeamSummary{
				Name:    t.Name,
				Lead:    t.Lead,
				Members: len(t.Members),
				Counts:  st.StatusCounts(t.Name),
			})
		}
		o.Announcements = st.RecentAnnouncements(recentOnDashboard)
		return nil
	})
	return o, nil
}
