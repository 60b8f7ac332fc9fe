package service

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// subscriptionRepoStub is an in-memory subscription repository.
type subscriptionRepoStub struct {
	subs   map[string]*models.Subscription // keyed by email
	nextID uint
}

func newSubscriptionRepoStub() *subscriptionRepoStub {
	return &subscriptionRepoStub{subs: make(map[string]*models.Subscription), nextID: 1}
}

func (s *subscriptionRepoStub) GetByEmail(_ context.Context, email string) (*models.Subscription, error) {
	return s.subs[email], nil
}

func (s *subscriptionRepoStub) GetByToken(_ context.Context, token string) (*models.Subscription, error) {
	for _, sub := range s.subs {
		if sub.Token == token {
			return sub, nil
		}
	}
	return nil, nil
}

func (s *subscriptionRepoStub) Create(_ context.Context, sub *models.Subscription) error {
	sub.ID = s.nextID
	s.nextID++
	s.subs[sub.Email] = sub
	return nil
}

func (s *subscriptionRepoStub) Update(_ context.Context, sub *models.Subscription) error {
	s.subs[sub.Email] = sub
	return nil
}

func (s *subscriptionRepoStub) DeleteByEmail(_ context.Context, email string) error {
	delete(s.subs, email)
	return nil
}

func (s *subscriptionRepoStub) List(_ context.Context, page, pageSize int) ([]*models.Subscription, int64, error) {
	out := make([]*models.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out, int64(len(out)), nil
}

// mailerStub records verification sends on a channel so tests can wait for
// the fire-and-forget goroutine.
type mailerStub struct {
	sent chan string
}

func newMailerStub() *mailerStub {
	return &mailerStub{sent: make(chan string, 8)}
}

func (m *mailerStub) SendVerification(_ context.Context, email, token string) error {
	m.sent <- email + ":" + token
	return nil
}

func newSubscriptionService(repo *subscriptionRepoStub, mail *mailerStub) *SubscriptionService {
	return NewSubscriptionService(repo, nil, mail)
}

func TestSubscribeGeneratesTokenAndSendsMail(t *testing.T) {
	repo := newSubscriptionRepoStub()
	mail := newMailerStub()
	svc := newSubscriptionService(repo, mail)

	sub, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.False(t, sub.Verified)

	// Token is 32 random bytes hex encoded.
	require.Len(t, sub.Token, 64)
	_, err = hex.DecodeString(sub.Token)
	require.NoError(t, err)

	select {
	case msg := <-mail.sent:
		assert.True(t, strings.HasPrefix(msg, "reader@example.com:"))
		assert.True(t, strings.HasSuffix(msg, sub.Token))
	case <-time.After(2 * time.Second):
		t.Fatal("verification mail never sent")
	}
}

func TestSubscribeVerifiedConflicts(t *testing.T) {
	repo := newSubscriptionRepoStub()
	svc := newSubscriptionService(repo, newMailerStub())

	repo.subs["reader@example.com"] = &models.Subscription{
		ID: 1, Email: "reader@example.com", Verified: true, Token: "tok",
	}

	_, err := svc.Subscribe(context.Background(), "reader@example.com")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ALREADY_SUBSCRIBED", appErr.Code)
}

func TestSubscribeUnverifiedGetsFreshToken(t *testing.T) {
	repo := newSubscriptionRepoStub()
	svc := newSubscriptionService(repo, newMailerStub())

	repo.subs["reader@example.com"] = &models.Subscription{
		ID: 1, Email: "reader@example.com", Verified: false, Token: "stale-token",
	}

	sub, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "stale-token", sub.Token)
	assert.False(t, sub.Verified)
	assert.Len(t, repo.subs, 1)
}

func TestVerifyEmail(t *testing.T) {
	repo := newSubscriptionRepoStub()
	svc := newSubscriptionService(repo, newMailerStub())

	repo.subs["reader@example.com"] = &models.Subscription{
		ID: 1, Email: "reader@example.com", Token: "tok",
	}

	sub, err := svc.VerifyEmail(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, sub.Verified)

	var appErr *models.AppError

	_, err = svc.VerifyEmail(context.Background(), "tok")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ALREADY_VERIFIED", appErr.Code)

	_, err = svc.VerifyEmail(context.Background(), "bogus")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_TOKEN", appErr.Code)
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	repo := newSubscriptionRepoStub()
	svc := newSubscriptionService(repo, newMailerStub())

	err := svc.Unsubscribe(context.Background(), "nobody@example.com")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_SUBSCRIBED", appErr.Code)
}
