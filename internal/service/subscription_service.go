package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"inkwell/internal/mailer"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gorilla/feeds"
)

// SubscriptionService implements the newsletter signup flow and feed
// generation.
type SubscriptionService struct {
	subRepo     repository.SubscriptionRepository
	articleRepo repository.ArticleRepository
	mail        mailer.Mailer
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	articleRepo repository.ArticleRepository,
	mail mailer.Mailer,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:     subRepo,
		articleRepo: articleRepo,
		mail:        mail,
	}
}

// Subscribe registers an email. A verified subscriber is rejected; an
// unverified one is silently replaced with a fresh token so losing the
// original verification mail is recoverable by simply subscribing again.
// The verification mail is sent without blocking the request.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) (*models.Subscription, error) {
	existing, err := s.subRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Verified {
			return nil, models.NewConflictError("ALREADY_SUBSCRIBED", "Email is already subscribed")
		}
		if err := s.subRepo.DeleteByEmail(ctx, email); err != nil {
			return nil, err
		}
	}

	token, err := newVerificationToken()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sub := &models.Subscription{
		Email:    email,
		Verified: false,
		Token:    token,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	// Fire-and-forget: the response never waits on mail delivery.
	go func() {
		if err := s.mail.SendVerification(context.Background(), email, token); err != nil {
			slog.Error("failed to send verification mail",
				slog.String("email", email),
				slog.String("error", err.Error()),
			)
		}
	}()

	return sub, nil
}

// VerifyEmail exchanges a token for verified status.
func (s *SubscriptionService) VerifyEmail(ctx context.Context, token string) (*models.Subscription, error) {
	sub, err := s.subRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, models.NewBadRequestError("INVALID_TOKEN", "Verification link is invalid or expired")
	}
	if sub.Verified {
		return nil, models.NewConflictError("ALREADY_VERIFIED", "Email is already verified")
	}

	sub.Verified = true
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe removes a subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.subRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if sub == nil {
		return models.NewNotFoundError("NOT_SUBSCRIBED", "Email is not subscribed")
	}
	return s.subRepo.DeleteByEmail(ctx, email)
}

// GetAllSubscribers returns a page over every subscription record.
func (s *SubscriptionService) GetAllSubscribers(ctx context.Context, page, pageSize int) ([]*models.Subscription, int64, error) {
	return s.subRepo.List(ctx, page, pageSize)
}

// GenerateRSSFeed renders an RSS 2.0 document from the 20 most recent
// published articles, newest first.
func (s *SubscriptionService) GenerateRSSFeed(ctx context.Context, baseURL string) (string, error) {
	articles, err := s.articleRepo.ListPublished(ctx, 20)
	if err != nil {
		return "", err
	}

	feed := &feeds.Feed{
		Title:       "Inkwell",
		Link:        &feeds.Link{Href: baseURL},
		Description: "Notes on software, systems, and writing",
		Created:     time.Now(),
	}

	for _, article := range articles {
		description := article.Excerpt
		if description == "" {
			description = article.Title
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       article.Title,
			Link:        &feeds.Link{Href: baseURL + "/articles/" + article.Slug},
			Description: description,
			Author:      &feeds.Author{Name: article.Author.Username},
			Created:     article.CreatedAt,
			Id:          baseURL + "/articles/" + article.Slug,
		})
	}

	return feed.ToRss()
}

// newVerificationToken returns 32 random bytes hex encoded.
func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
