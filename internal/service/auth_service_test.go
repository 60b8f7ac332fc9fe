package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is an in-memory user repository for service tests.
type userRepoStub struct {
	users  map[uint]*models.User
	nextID uint
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[uint]*models.User), nextID: 1}
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (s *userRepoStub) Create(_ context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *userRepoStub) Update(_ context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "writer@example.com",
		Username: "writer",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
}

// Email is checked before username, username before the password policy.
func TestRegisterCheckOrder(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "taken@example.com", Username: "taken", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "taken@example.com", Username: "taken", Password: "x",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_TAKEN", appErr.Code)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "fresh@example.com", Username: "taken", Password: "x",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USERNAME_TAKEN", appErr.Code)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "fresh@example.com", Username: "fresh", Password: "x",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WEAK_PASSWORD", appErr.Code)
}

func TestLoginDoesNotRevealWhichFieldFailed(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "writer@example.com", Username: "writer", Password: "password123",
	})
	require.NoError(t, err)

	var appErr *models.AppError

	_, err = svc.Login(context.Background(), "writer@example.com", "wrong")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
	assert.Equal(t, 401, appErr.Status)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)

	user, err := svc.Login(context.Background(), "writer@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "writer", user.Username)
}
