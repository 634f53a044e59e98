package service

import (
	"context"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type announcementService struct {
	board    *Board
	observer UseCaseObserver
}

func NewAnnouncementService(board *Board, observers ...UseCaseObserver) AnnouncementService {
	return &announcementService{board: board, observer: useCaseObserverOrNoop(observers)}
}

func (s *announcementService) Post(ctx context.Context, sess *auth.Session, title, body string) (a domain.Announcement, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("post-announcement", sess, startedAt, err,
			map[string]any{"announcement_id": a.ID}))
	}()

	u, err := authorize(sess, auth.ActionPostAnnouncement, "")
	if err != nil {
		return domain.Announcement{}, err
	}
	err = s.board.mutate(ctx, "post announcement", func(st *domain.State) error {
		var err error
		a, err = st.PostAnnouncement(title, body, u.Username, s.board.now())
		return err
	})
	if err != nil {
		return domain.Announcement{}, err
	}
	return a, nil
}

// ListRecent returns the feed newest first; limit <= 0 returns everything.
func (s *announcementService) ListRecent(_ context.Context, sess *auth.Session, limit int) ([]domain.Announcement, error) {
	if _, err := authorize(sess, auth.ActionViewAnnouncements, ""); err != nil {
		return nil, err
	}
	var out []domain.Announcement
	_ = s.board.read(func(st *domain.State) error {
		out = st.RecentAnnouncements(limit)
		return nil
	})
	return out, nil
}

func (s *announcementService) Get(_ context.Context, sess *auth.Session, id int64) (domain.Announcement, error) {
	if _, err := authorize(sess, auth.ActionViewAnnouncements, ""); err != nil {
		return domain.Announcement{}, err
	}
	var a domain.Announcement
	err := s.board.read(func(st *domain.State) error {
		var err error
		a, err = st.Announcement(id)
		return err
	})
	return a, err
}
