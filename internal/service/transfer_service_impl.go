package service

import (
	"context"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/snapshot"
)

type transferService struct {
	board    *Board
	observer UseCaseObserver
}

func NewTransferService(board *Board, observers ...UseCaseObserver) TransferService {
	return &transferService{board: board, observer: useCaseObserverOrNoop(observers)}
}

func (s *transferService) Export(_ context.Context, sess *auth.Session) ([]byte, error) {
	if _, err := authorize(sess, auth.ActionTransferData, ""); err != nil {
		return nil, err
	}
	return snapshot.Encode(s.board.Snapshot())
}

// Import decodes and validates blob before touching the live board. A
// malformed document fails with domain.ErrParse and changes nothing.
func (s *transferService) Import(ctx context.Context, sess *auth.Session, blob []byte) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("import-data", sess, startedAt, err,
			map[string]any{"bytes": len(blob)}))
	}()

	if _, err := authorize(sess, auth.ActionTransferData, ""); err != nil {
		return err
	}
	state, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}
	s.board.replace(ctx, "import", state)
	return nil
}

// Reset restores the default seed club.
func (s *transferService) Reset(ctx context.Context, sess *auth.Session) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("reset-data", sess, startedAt, err, nil))
	}()

	if _, err := authorize(sess, auth.ActionTransferData, ""); err != nil {
		return err
	}
	s.board.replace(ctx, "reset", domain.DefaultState(s.board.now()))
	return nil
}

func (s *transferService) History(ctx context.Context, sess *auth.Session, limit int) ([]repository.SnapshotVersion, error) {
	if _, err := authorize(sess, auth.ActionTransferData, ""); err != nil {
		return nil, err
	}
	return s.board.persister.History(ctx, limit)
}
