package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// failingStore refuses every write.
type failingStore struct {
	mu     sync.Mutex
	writes int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Load(context.Context) ([]byte, error) {
	return nil, repository.ErrNotFound
}

func (f *failingStore) Save(context.Context, []byte, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	return errDiskFull
}

func (f *failingStore) History(context.Context, int) ([]repository.SnapshotVersion, error) {
	return nil, nil
}

// flakyStore fails its first Load with loadErr, then delegates.
type flakyStore struct {
	repository.SnapshotRepo
	loadErr error
	loads   int
}

func (f *flakyStore) Load(ctx context.Context) ([]byte, error) {
	f.loads++
	if f.loads == 1 {
		return nil, f.loadErr
	}
	return f.SnapshotRepo.Load(ctx)
}

type harness struct {
	board         *Board
	store         repository.SnapshotRepo
	logs          *observer.ObservedLogs
	identity      IdentityService
	sessions      SessionService
	teams         TeamService
	tasks         TaskService
	announcements AnnouncementService
	events        EventService
	dashboard     DashboardService
	transfer      TransferService
}

type harnessConfig struct {
	store  repository.SnapshotRepo
	strict bool
}

type harnessOption func(*harnessConfig)

func withStore(store repository.SnapshotRepo) harnessOption {
	return func(c *harnessConfig) { c.store = store }
}

func withStrictAssignees() harnessOption {
	return func(c *harnessConfig) { c.strict = true }
}

func newHarness(t *testing.T, state *domain.State, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{store: repository.NewMemorySnapshotRepo(10)}
	for _, opt := range opts {
		opt(&cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core).Sugar()
	clock := testutil.FixedClock(testutil.FixedNow)
	obs := NewLogUseCaseObserver(log)

	board := NewBoard(state, NewPersister(cfg.store, log), clock, log)
	hasher := auth.NewHasher(true, bcrypt.MinCost)
	identity := NewIdentityService(board, hasher, obs)
	tokens := auth.NewTokenIssuer(testSecret, time.Hour, clock)

	return &harness{
		board:         board,
		store:         cfg.store,
		logs:          logs,
		identity:      identity,
		sessions:      NewSessionService(board, identity, tokens, obs),
		teams:         NewTeamService(board, hasher, domain.SeedPassword, obs),
		tasks:         NewTaskService(board, cfg.strict, obs),
		announcements: NewAnnouncementService(board, obs),
		events:        NewEventService(board, obs),
		dashboard:     NewDashboardService(board),
		transfer:      NewTransferService(board, obs),
	}
}

func (h *harness) login(t *testing.T, username, password string) *auth.Session {
	t.Helper()
	sess := auth.NewSession()
	_, err := h.sessions.Login(context.Background(), sess, username, password)
	require.NoError(t, err)
	return sess
}

func (h *harness) guest() *auth.Session {
	sess := auth.NewSession()
	h.sessions.Guest(context.Background(), sess)
	return sess
}

// clubState is a small club: admin, team Web (lead wendy, member mo) and
// team Ops (lead olga, member oscar).
func clubState() *domain.State {
	return testutil.NewTestState(
		testutil.WithTeam("Web", "wendy", "mo"),
		testutil.WithTeam("Ops", "olga", "oscar"),
		testutil.WithTask("Web", "Landing page", "mo"),
		testutil.WithTask("Ops", "Rotate keys", "oscar"),
		testutil.WithAnnouncement("Welcome", "admin"),
		testutil.WithEvent("Open day", "2025-10-01", ""),
		testutil.WithEvent("Web sync", "2025-10-02", "Web"),
		testutil.WithEvent("Ops drill", "2025-10-03", "Ops"),
	)
}
