package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/snapshot"
	"github.com/alexanderramin/clubdeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlush_WriteFailureIsSwallowedAndLogged(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	h := newHarness(t, clubState(), withStore(store))
	admin := h.login(t, "admin", "admin")

	task, err := h.tasks.Create(ctx, admin, domain.TaskInput{Title: "Survive", Team: "Web"})
	require.NoError(t, err)

	got, err := h.tasks.Get(ctx, admin, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survive", got.Title)

	failures := h.logs.FilterMessage("board flush failed; continuing in memory").All()
	require.NotEmpty(t, failures)
	entry := failures[len(failures)-1]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	var flushErr error
	for _, f := range entry.Context {
		if f.Key == "error" {
			flushErr, _ = f.Interface.(error)
		}
	}
	require.Error(t, flushErr)
	assert.ErrorIs(t, flushErr, domain.ErrPersistenceWrite)
	assert.ErrorContains(t, flushErr, errDiskFull.Error())

	assert.Equal(t, int64(store.writes), h.board.Persister().Failures())
	assert.ErrorIs(t, h.board.Persister().LastError(), domain.ErrPersistenceWrite)
}

func TestFlush_EveryMutationWritesWholeState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, clubState())
	admin := h.login(t, "admin", "admin")
	_, err := h.announcements.Post(ctx, admin, "Hello", "world")
	require.NoError(t, err)

	blob, err := h.store.Load(ctx)
	require.NoError(t, err)
	saved, err := snapshot.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, h.board.Snapshot(), saved)
}

func TestFlush_FailedMutationWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotRepo(10)
	h := newHarness(t, clubState(), withStore(store))
	admin := h.login(t, "admin", "admin")
	saves := store.Saves()

	_, err := h.tasks.Create(ctx, admin, domain.TaskInput{Title: "", Team: "Web"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, saves, store.Saves())
	assert.Equal(t, int64(3), h.board.Snapshot().NextTaskID)
}

func TestPersister_NilStoreIsNoop(t *testing.T) {
	p := NewPersister(nil, nil)
	p.Flush(context.Background(), domain.NewState(), "noop")
	assert.Zero(t, p.Failures())
	assert.NoError(t, p.LastError())

	versions, err := p.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestOpenBoard_SeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotRepo(5)
	log, _ := observedLogger()

	board, err := OpenBoard(ctx, store, NewPersister(store, log), testutil.FixedClock(testutil.FixedNow), log)
	require.NoError(t, err)

	state := board.Snapshot()
	assert.Len(t, state.Teams, 7)
	assert.Equal(t, 1, store.Saves())

	versions, err := store.History(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "seed", versions[0].Reason)
}

func TestOpenBoard_LoadsSavedState(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotRepo(5)
	want := clubState()
	blob, err := snapshot.Encode(want)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, blob, "fixture"))

	board, err := OpenBoard(ctx, store, NewPersister(store, nil), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, want, board.Snapshot())
	assert.Equal(t, 1, store.Saves())
}

func TestOpenBoard_CorruptSnapshotSeedsInMemoryOnly(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemorySnapshotRepo(5)
	require.NoError(t, store.Save(ctx, []byte("{not json"), "broken"))
	log, logs := observedLogger()

	board, err := OpenBoard(ctx, store, NewPersister(store, log), testutil.FixedClock(testutil.FixedNow), log)
	require.NoError(t, err)

	assert.Len(t, board.Snapshot().Users, 11)
	assert.Equal(t, 1, logs.FilterMessage("saved board is corrupt; starting from default club").Len())
	assert.Equal(t, 1, store.Saves(), "opening must not overwrite the stored blob")

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(blob))
}

func TestOpenBoard_CorruptFileIsSetAside(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "club_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": 5}`), 0o600))
	store := repository.NewFileSnapshotRepo(path)

	_, err := OpenBoard(ctx, store, NewPersister(store, nil), nil, nil)
	require.NoError(t, err)

	copies, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, copies, 1)
	kept, err := os.ReadFile(copies[0])
	require.NoError(t, err)
	assert.Equal(t, `{"users": 5}`, string(kept))
}

func TestOpenBoard_ReadFailureKeepsStoredData(t *testing.T) {
	ctx := context.Background()
	inner := repository.NewMemorySnapshotRepo(1)
	saved := domain.NewState()
	saved.Teams["RealTeam"] = domain.Team{Name: "RealTeam"}
	blob, err := snapshot.Encode(saved)
	require.NoError(t, err)
	require.NoError(t, inner.Save(ctx, blob, "fixture"))
	store := &flakyStore{SnapshotRepo: inner, loadErr: context.DeadlineExceeded}

	board, err := OpenBoard(ctx, store, NewPersister(store, nil), nil, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, board)
	assert.Equal(t, 1, inner.Saves())

	// the store recovers; the real club is still there
	board, err = OpenBoard(ctx, store, NewPersister(store, nil), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, board.Snapshot().Teams, "RealTeam")
	assert.Len(t, board.Snapshot().Teams, 1)
}

func TestImportExportReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, clubState())
	admin := h.login(t, "admin", "admin")

	exported, err := h.transfer.Export(ctx, admin)
	require.NoError(t, err)

	require.NoError(t, h.transfer.Reset(ctx, admin))
	assert.Len(t, h.board.Snapshot().Teams, 7)

	require.NoError(t, h.transfer.Import(ctx, admin, exported))
	assert.Len(t, h.board.Snapshot().Teams, 2)

	history, err := h.transfer.History(ctx, admin, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "import", history[0].Reason)
	assert.Equal(t, "reset", history[1].Reason)
}

func TestUseCaseObserver_LogsOutcome(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, clubState())
	lead := h.login(t, "wendy", "wendy")

	_, err := h.tasks.Create(ctx, lead, domain.TaskInput{Title: "x", Team: "Ops"})
	require.Error(t, err)

	entries := h.logs.FilterMessage("service_use_case").FilterField(zap.String("use_case", "create-task")).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wendy", fields["actor"])
	assert.Equal(t, false, fields["success"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}
