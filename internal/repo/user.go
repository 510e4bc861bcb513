package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
)

// CreateUserWithCart creates the user and their cart as one unit. Fails
// with ErrDuplicate when the email is already registered.
func (r *GormRepo) CreateUserWithCart(ctx context.Context, u *models.User) error {
	return r.WithTx(ctx, func(tx *GormRepo) error {
		res := tx.DB.Where("email = ?", u.Email).FirstOrCreate(u)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDuplicate
		}
		return tx.DB.Create(&models.Cart{UserID: u.ID}).Error
	})
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

// EmailTaken reports whether another user already owns the email.
func (r *GormRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var existing models.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}
