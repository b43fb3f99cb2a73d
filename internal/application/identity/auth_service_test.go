package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/identity"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/auth"
	"github.com/lodge/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo(users ...*identity.User) *fakeUserRepo {
	m := make(map[uuid.UUID]*identity.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Save(_ context.Context, u *identity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *identity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return shared.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func newTestUser(t *testing.T, username, password string, role identity.UserRole) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := identity.NewUser(username, string(hash), role)
	require.NoError(t, err)
	return user
}

func newAuthService(users ...*identity.User) (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-signing-32b",
		AccessTokenExpiration: time.Hour,
		Issuer:                "lodge-test",
	})
	return NewAuthService(repo, jwtService), repo
}

func TestAuthService_LoginSuccess(t *testing.T) {
	user := newTestUser(t, "admin", "correct horse", identity.RoleAdmin)
	svc, _ := newAuthService(user)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	user := newTestUser(t, "admin", "correct horse", identity.RoleAdmin)
	svc, _ := newAuthService(user)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_LoginUnknownUserSameError(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_LoginDeactivatedAccount(t *testing.T) {
	user := newTestUser(t, "former", "password123", identity.RoleStaff)
	user.Deactivate()
	svc, _ := newAuthService(user)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "former", Password: "password123"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
}

func TestAuthService_CreateUser(t *testing.T) {
	svc, repo := newAuthService()

	info, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "staff1",
		Password: "longenough",
		Role:     "staff",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff1", info.Username)

	stored, err := repo.FindByID(context.Background(), info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestAuthService_GetUser(t *testing.T) {
	user := newTestUser(t, "admin", "correct horse", identity.RoleAdmin)
	svc, _ := newAuthService(user)

	info, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, info.Username)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
