package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Subscription, error)
	GetByToken(ctx context.Context, token string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context, page, pageSize int) ([]*models.Subscription, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) GetByToken(ctx context.Context, token string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.Subscription{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, page, pageSize int) ([]*models.Subscription, int64, error) {
	var subs []*models.Subscription
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return subs, total, nil
}
