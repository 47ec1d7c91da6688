package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"greenmetrics.io/carbontrack/internal/model"
	"greenmetrics.io/carbontrack/pkg/apperror"
)

type fakeUserRepo struct {
	users map[string]*model.User
	// forceDuplicateOnCreate simulates losing a race against a
	// concurrent registration: the uniqueness pre-check passes but the
	// insert trips the unique index.
	forceDuplicateOnCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.forceDuplicateOnCreate {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.users[user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *user
	return &found, nil
}

func newTestAuthService(repo *fakeUserRepo) AuthService {
	return NewAuthService(repo, "test-secret", time.Hour)
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)
	require.NotEmpty(t, registered.AccessToken)
	require.Equal(t, "Bearer", registered.TokenType)
	require.Empty(t, registered.User.PasswordHash)

	loggedIn, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterTokenCarriesUserID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(res.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, res.User.ID.String(), claims.Subject)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Password: "password2"})
	require.ErrorIs(t, err, apperror.ErrDuplicateUsername)

	// The first account's hash is untouched by the failed attempt.
	stored := repo.users["alice"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password1")))
}

func TestRegisterDuplicateRaceBackstop(t *testing.T) {
	repo := newFakeUserRepo()
	repo.forceDuplicateOnCreate = true
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "password1"})
	require.ErrorIs(t, err, apperror.ErrDuplicateUsername)
}

func TestLoginFailsUniformly(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, wrongPassword, apperror.ErrAuthentication)

	_, unknownUser := svc.Login(ctx, LoginInput{Username: "bob", Password: "password1"})
	require.ErrorIs(t, unknownUser, apperror.ErrAuthentication)

	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestCurrentUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, registered.User.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Empty(t, user.PasswordHash)
}

func TestCurrentUserUnknownID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.CurrentUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUsernameIsCaseSensitive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "Alice", Password: "password1"})
	require.NoError(t, err)
}
