package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/repository"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/jwt"
)

// memoryRepo is an in-memory UserRepository for tests.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*domain.User)}
}

func (r *memoryRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	if user.ID == "" {
		user.ID = "id-" + user.Username
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *memoryRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func newTestService() *Service {
	return NewService(newMemoryRepo(), jwt.NewManager("secret", time.Hour, "chatrelay"), 4)
}

func TestService_CreateAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Create(ctx, "alice", "hunter22"))

	require.True(t, svc.Verify(ctx, "alice", "hunter22"))
	require.False(t, svc.Verify(ctx, "alice", "wrong"))
	require.False(t, svc.Verify(ctx, "nobody", "hunter22"))
}

func TestService_Create_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Create(ctx, "alice", "hunter22"))
	require.ErrorIs(t, svc.Create(ctx, "alice", "other"), ErrUsernameTaken)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.Create(ctx, "alice", "hunter22"))

	resp, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "alice", resp.Username)
	require.NotEmpty(t, resp.AccessToken)

	// The token resolves back to the username.
	require.Equal(t, "alice", svc.SessionUsername(resp.AccessToken))
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.Create(ctx, "alice", "hunter22"))

	_, err := svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SessionUsername_Invalid(t *testing.T) {
	svc := newTestService()
	require.Empty(t, svc.SessionUsername(""))
	require.Empty(t, svc.SessionUsername("garbage"))
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	resp, err := svc.Register(ctx, "bob", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "bob", resp.Username)
	require.True(t, svc.Verify(ctx, "bob", "hunter22"))
}
