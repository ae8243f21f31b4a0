package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authboard/internal/common"
	"github.com/dmitrijs2005/authboard/internal/dbx"
	"github.com/dmitrijs2005/authboard/internal/server/auth"
	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/dmitrijs2005/authboard/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo is an in-memory credential store with injectable failures.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	findErr   error
	existsErr error
	emailErr  error
	createErr error
	countErr  error
	listErr   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Exists(_ context.Context, v string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.byID {
		if u.Username == v || u.Email == v {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) Create(_ context.Context, username, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Username: username, Email: email, PasswordHash: hash, IsActive: true, CreatedAt: time.Now().UTC()}
	f.byID[u.ID] = u
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) Count(context.Context) (models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return models.UserStats{}, f.countErr
	}
	var s models.UserStats
	for _, u := range f.byID {
		s.Total++
		if u.IsActive {
			s.Active++
		}
	}
	return s, nil
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.User, 0, len(f.byID))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository           { return m.u }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestTokens() *auth.TokenManager {
	return auth.NewTokenManager([]byte("k"), time.Hour)
}

// failingHasher cannot hash; Compare behaves like bcrypt's.
type failingHasher struct {
	*auth.BcryptHasher
	compared []string
}

func (h *failingHasher) Hash(string) (string, error) { return "", errBoom{} }

func (h *failingHasher) Compare(hash, password string) error {
	h.compared = append(h.compared, hash)
	return h.BcryptHasher.Compare(hash, password)
}

func newTestHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func newUserService(t *testing.T, db *sql.DB, repo *fakeUsersRepo) *UserService {
	t.Helper()
	return NewUserService(db, &fakeRepoManager{u: repo}, newTestHasher(), newTestTokens())
}
