package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Trevrosa/pcupback/internal/common"
	"github.com/Trevrosa/pcupback/internal/dbx"
	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/models"
	"github.com/Trevrosa/pcupback/internal/server/repositories/sessions"
	"github.com/Trevrosa/pcupback/internal/server/repositories/usage"
	"github.com/Trevrosa/pcupback/internal/server/repositories/users"
)

// --- shared helpers ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// withFixedNow pins the services' clock for the duration of the test.
func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

// --- stateful in-memory store ---

// fakeStore backs the fake repositories with plain slices and optional
// injected failures, so service tests can run whole scenarios without SQL.
type fakeStore struct {
	users    []models.User
	sessions []models.Session
	apps     []models.AppInfo
	debug    []models.DebugRecord

	userGetErr     error
	userCreateErr  error
	userDeleteErr  error
	sessionGetErr  error
	upsertErr      error
	listAppsErr    error
	createAppErr   error
	listDebugErr   error
	createDebugErr error
}

type fakeUsersRepo struct{ s *fakeStore }

func (f *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.s.userGetErr != nil {
		return nil, f.s.userGetErr
	}
	for i := range f.s.users {
		if f.s.users[i].Username == username {
			u := f.s.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for i := range f.s.users {
		if f.s.users[i].ID == id {
			u := f.s.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) MaxID(context.Context) (int64, error) {
	var max int64
	for i := range f.s.users {
		if f.s.users[i].ID > max {
			max = f.s.users[i].ID
		}
	}
	return max, nil
}

func (f *fakeUsersRepo) Create(_ context.Context, user *models.User) error {
	if f.s.userCreateErr != nil {
		return f.s.userCreateErr
	}
	f.s.users = append(f.s.users, *user)
	return nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if f.s.userDeleteErr != nil {
		return f.s.userDeleteErr
	}
	for i := range f.s.users {
		if f.s.users[i].ID == id {
			f.s.users = append(f.s.users[:i], f.s.users[i+1:]...)
			break
		}
	}
	// cascade, like the schema's FK constraints
	keepSessions := f.s.sessions[:0]
	for _, sess := range f.s.sessions {
		if sess.UserID != id {
			keepSessions = append(keepSessions, sess)
		}
	}
	f.s.sessions = keepSessions

	keepApps := f.s.apps[:0]
	for _, app := range f.s.apps {
		if app.UserID != id {
			keepApps = append(keepApps, app)
		}
	}
	f.s.apps = keepApps
	return nil
}

type fakeSessionsRepo struct{ s *fakeStore }

func (f *fakeSessionsRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	if f.s.sessionGetErr != nil {
		return nil, f.s.sessionGetErr
	}
	for i := range f.s.sessions {
		if f.s.sessions[i].ID == id {
			sess := f.s.sessions[i]
			return &sess, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessionsRepo) GetByUserID(_ context.Context, userID int64) (*models.Session, error) {
	if f.s.sessionGetErr != nil {
		return nil, f.s.sessionGetErr
	}
	for i := range f.s.sessions {
		if f.s.sessions[i].UserID == userID {
			sess := f.s.sessions[i]
			return &sess, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessionsRepo) Upsert(_ context.Context, session *models.Session) error {
	if f.s.upsertErr != nil {
		return f.s.upsertErr
	}
	for i := range f.s.sessions {
		if f.s.sessions[i].UserID == session.UserID {
			f.s.sessions[i] = *session
			return nil
		}
	}
	f.s.sessions = append(f.s.sessions, *session)
	return nil
}

type fakeUsageRepo struct{ s *fakeStore }

func (f *fakeUsageRepo) ListApps(_ context.Context, userID int64) ([]models.AppInfo, error) {
	if f.s.listAppsErr != nil {
		return nil, f.s.listAppsErr
	}
	var out []models.AppInfo
	for _, app := range f.s.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeUsageRepo) CreateApp(_ context.Context, app *models.AppInfo) error {
	if f.s.createAppErr != nil {
		return f.s.createAppErr
	}
	f.s.apps = append(f.s.apps, *app)
	return nil
}

func (f *fakeUsageRepo) ListDebug(_ context.Context, userID int64) ([]models.DebugRecord, error) {
	if f.s.listDebugErr != nil {
		return nil, f.s.listDebugErr
	}
	var out []models.DebugRecord
	for _, record := range f.s.debug {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeUsageRepo) CreateDebug(_ context.Context, record *models.DebugRecord) error {
	if f.s.createDebugErr != nil {
		return f.s.createDebugErr
	}
	f.s.debug = append(f.s.debug, *record)
	return nil
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository       { return &fakeUsersRepo{s: m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository { return &fakeSessionsRepo{s: m.s} }
func (m *fakeRepoManager) Usage(dbx.DBTX) usage.Repository       { return &fakeUsageRepo{s: m.s} }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// plainHasher avoids argon2 cost in service tests; AuthService tests that
// need real hashing behavior use password.Argon2 directly.
type plainHasher struct {
	hashErr   error
	verifyErr error
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "plain:" + password, nil
}

func (h *plainHasher) Verify(encodedHash, password string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return encodedHash == "plain:"+password, nil
}
