package auth

import (
	"CalAssist/entity"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	users []entity.User
}

func (r *stubRepository) UpsertUser(user entity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *stubRepository) GetUser(email, phone string, telegramId int64) (*entity.User, error) {
	filter := entity.NewUser(email, phone, telegramId)
	for _, user := range r.users {
		if user.SameUser(filter) {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *stubRepository) GetUserByUUID(uuid string) (*entity.User, error) {
	for _, user := range r.users {
		if user.UUID == uuid {
			return &user, nil
		}
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Without a repository every lookup must fail with an error, never panic:
// the service runs in this degraded mode whenever Mongo is disabled.
func TestLookupsWithoutRepository(t *testing.T) {
	service := NewAuthService(testLogger())

	_, err := service.RegisterUser("jo@example.com", "", 0)
	assert.ErrorContains(t, err, "repository not initialized")

	_, err = service.GetUser("jo@example.com", "", 0)
	assert.ErrorContains(t, err, "repository not initialized")

	_, err = service.GetUserByUUID("user-1")
	assert.ErrorContains(t, err, "repository not initialized")
}

// An all-empty identifier set must never reach the store: the $or filter
// would match the first user with a blank field.
func TestLookupsRequireAnIdentifier(t *testing.T) {
	service := NewAuthService(testLogger())
	service.SetRepository(&stubRepository{users: []entity.User{
		{UUID: "user-1", Email: "jo@example.com"},
	}})

	_, err := service.GetUser("", "", 0)
	assert.ErrorContains(t, err, "no user identifier")

	_, err = service.RegisterUser("", "", 0)
	assert.ErrorContains(t, err, "no user identifier")
}

func TestRegisterUserCreatesOnFirstContact(t *testing.T) {
	service := NewAuthService(testLogger())
	repo := &stubRepository{}
	service.SetRepository(repo)

	user, err := service.RegisterUser("jo@example.com", "", 0)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.UUID)
	assert.Len(t, repo.users, 1)

	again, err := service.RegisterUser("jo@example.com", "", 0)
	require.NoError(t, err)
	assert.Equal(t, user.UUID, again.UUID)
	assert.Len(t, repo.users, 1, "existing user must not be re-created")
}

func TestGetUserCachesRepositoryHits(t *testing.T) {
	service := NewAuthService(testLogger())
	repo := &stubRepository{users: []entity.User{
		{UUID: "user-1", Email: "jo@example.com"},
	}}
	service.SetRepository(repo)

	user, err := service.GetUser("jo@example.com", "", 0)
	require.NoError(t, err)
	require.NotNil(t, user)

	// served from the cache once fetched
	service.SetRepository(nil)
	cached, err := service.GetUser("jo@example.com", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "user-1", cached.UUID)
}
