package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

type fakeTokens struct {
	issued []string
	err    error
}

func (f *fakeTokens) IssueToken(userID string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.issued = append(f.issued, userID)
	return "token-" + userID, time.Now().Add(time.Hour), nil
}

type fixture struct {
	svc    *Service
	repo   *memory.UserRepository
	tokens *fakeTokens
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := memory.NewUserRepository()
	tokens := &fakeTokens{}
	svc := NewService(repo, helpers.NewBcryptHasher(bcrypt.MinCost), tokens, helpers.NewDiscardLogger())
	return fixture{svc: svc, repo: repo, tokens: tokens}
}

func (f fixture) register(t *testing.T, username, email, password string) *Session {
	t.Helper()
	sess, err := f.svc.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: password})
	require.NoError(t, err)
	return sess
}

func (f fixture) makeAdmin(t *testing.T, id string) {
	t.Helper()
	u, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	u.IsAdmin = true
	require.NoError(t, f.repo.Update(context.Background(), u))
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)

	sess := f.register(t, "alice", "alice@example.com", "pw")

	assert.NotEmpty(t, sess.Profile.ID)
	assert.Equal(t, "alice", sess.Profile.Username)
	assert.Equal(t, "alice@example.com", sess.Profile.Email)
	assert.False(t, sess.Profile.IsAdmin)
	assert.Equal(t, "token-"+sess.Profile.ID, sess.Token)

	stored, err := f.repo.GetByID(context.Background(), sess.Profile.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw")))
}

func TestRegister_MissingFields(t *testing.T) {
	f := newFixture(t)

	for _, in := range []RegisterInput{
		{Email: "a@example.com", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@example.com"},
		{Username: "   ", Email: "a@example.com", Password: "pw"},
	} {
		_, err := f.svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	}
	users, _ := f.repo.List(context.Background())
	assert.Empty(t, users)
}

func TestRegister_DuplicateEmailAborts(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com", "pw")

	_, err := f.svc.Register(context.Background(), RegisterInput{Username: "mallory", Email: "alice@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	users, err := f.repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.Len(t, f.tokens.issued, 1, "no token for the rejected registration")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")

	sess, err := f.svc.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg.Profile, sess.Profile)
	assert.NotEmpty(t, sess.Token)
}

func TestLogin_WrongPasswordAndUnknownEmailFailIdentically(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com", "pw")

	_, errWrongPw := f.svc.Login(context.Background(), "alice@example.com", "nope")
	_, errUnknown := f.svc.Login(context.Background(), "ghost@example.com", "pw")

	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrongPw.Error(), errUnknown.Error())
}

func TestLogin_TokenFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com", "pw")
	f.tokens.err = errors.New("signing failed")

	_, err := f.svc.Login(context.Background(), "alice@example.com", "pw")
	assert.EqualError(t, err, "signing failed")
}

func TestListUsers_IncludesPasswordHash(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com", "pw")
	f.register(t, "bob", "bob@example.com", "pw")

	users, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotEmpty(t, u.Password)
	}
}

func TestGetOwnProfile(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")

	p, err := f.svc.GetOwnProfile(context.Background(), reg.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, &OwnProfile{ID: reg.Profile.ID, Username: "alice", Email: "alice@example.com"}, p)

	require.NoError(t, f.repo.Delete(context.Background(), reg.Profile.ID))
	_, err = f.svc.GetOwnProfile(context.Background(), reg.Profile.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateOwnProfile_Partial(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")

	p, err := f.svc.UpdateOwnProfile(context.Background(), reg.Profile.ID, UpdateProfileInput{Username: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", p.Username)
	assert.Equal(t, "alice@example.com", p.Email)

	_, err = f.svc.Login(context.Background(), "alice@example.com", "pw")
	assert.NoError(t, err, "password untouched when not supplied")
}

func TestUpdateOwnProfile_RehashesPassword(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")

	_, err := f.svc.UpdateOwnProfile(context.Background(), reg.Profile.ID, UpdateProfileInput{Password: "new-pw"})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "alice@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(context.Background(), "alice@example.com", "new-pw")
	assert.NoError(t, err)
}

func TestUpdateOwnProfile_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com", "pw")
	bob := f.register(t, "bob", "bob@example.com", "pw")

	_, err := f.svc.UpdateOwnProfile(context.Background(), bob.Profile.ID, UpdateProfileInput{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateOwnProfile_MissingCaller(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateOwnProfile(context.Background(), "6f1c2a8e-0000-4000-8000-000000000000", UpdateProfileInput{Username: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob", "bob@example.com", "pw")

	msg, err := f.svc.DeleteUser(context.Background(), bob.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob has been deleted", msg)

	_, err = f.svc.DeleteUser(context.Background(), bob.Profile.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_AdminIsProtected(t *testing.T) {
	f := newFixture(t)
	admin := f.register(t, "root", "root@example.com", "pw")
	f.makeAdmin(t, admin.Profile.ID)

	_, err := f.svc.DeleteUser(context.Background(), admin.Profile.ID)
	assert.ErrorIs(t, err, ErrCannotDeleteAdmin)

	_, err = f.repo.GetByID(context.Background(), admin.Profile.ID)
	assert.NoError(t, err)
}

func TestDeleteUser_MalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DeleteUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByID_OmitsPassword(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")

	d, err := f.svc.GetUserByID(context.Background(), reg.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", d.Username)
	assert.False(t, d.CreatedAt.IsZero())

	_, err = f.svc.GetUserByID(context.Background(), "6f1c2a8e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserByID_IsAdminDefaultsToFalse(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")
	f.makeAdmin(t, reg.Profile.ID)

	p, err := f.svc.UpdateUserByID(context.Background(), reg.Profile.ID, AdminUpdateInput{Username: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", p.Username)
	assert.False(t, p.IsAdmin)

	stored, err := f.repo.GetByID(context.Background(), reg.Profile.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAdmin)
}

func TestUpdateUserByID_Promote(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "alice", "alice@example.com", "pw")
	yes := true

	p, err := f.svc.UpdateUserByID(context.Background(), reg.Profile.ID, AdminUpdateInput{IsAdmin: &yes})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
	assert.Equal(t, "alice", p.Username)
}

func TestUpdateUserByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateUserByID(context.Background(), "6f1c2a8e-0000-4000-8000-000000000000", AdminUpdateInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

type failingRepo struct {
	memory.UserRepository
}

func (*failingRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, errors.New("store unavailable")
}

func TestRegister_StoreErrorIsNotConflict(t *testing.T) {
	svc := NewService(&failingRepo{}, helpers.NewBcryptHasher(bcrypt.MinCost), &fakeTokens{}, helpers.NewDiscardLogger())

	_, err := svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@example.com", Password: "pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}
