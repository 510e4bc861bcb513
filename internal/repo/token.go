package repo

import (
	"context"

	"github.com/ereminvs/webshop/internal/models"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

// FindRefreshToken looks up the stored record by owner and token digest.
// Several sessions per user may hold valid tokens at once, so the lookup
// always matches the presented token, never "the first row for the user".
func (r *GormRepo) FindRefreshToken(ctx context.Context, userID uint, tokenHash string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, tokenHash).
		First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormRepo) DeleteRefreshTokensForUser(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error
}
