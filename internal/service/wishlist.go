package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.ListWishlist(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddWishlistItem(ctx, &item); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: product already in wishlist", ErrConflict)
		}
		return nil, err
	}
	return &item, nil
}

// Remove is idempotent: removing an absent product is not an error.
func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	return s.Repo.DeleteWishlistItem(ctx, userID, productID)
}
