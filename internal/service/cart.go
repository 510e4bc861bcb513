package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetOrCreateCart is idempotent: the first call creates the row, every
// later call returns it.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	return s.Repo.GetOrCreateCart(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity uint) (*models.CartItem, error) {
	if productID == 0 || quantity < 1 {
		return nil, fmt.Errorf("%w: product and quantity >= 1 required", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	if product.Stock < int(quantity) {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.Repo.UpsertCartItem(ctx, &item); err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

// SetItemQuantity overwrites the stored quantity. Quantity zero removes
// the line item and is idempotent.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID uint, quantity uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product required", ErrValidation)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		// Removal, not an error, even when the line never existed.
		if err := s.Repo.DeleteCartItem(ctx, cart.ID, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	if product.Stock < int(quantity) {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
	}

	item, err := s.Repo.SetCartItemQuantity(ctx, cart.ID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return nil, err
	}
	item.Product = product
	return item, nil
}

// ComputeSubtotal sums live prices. Unlike order totals, cart subtotals
// follow price changes.
func ComputeSubtotal(cart *models.Cart) float64 {
	var subtotal float64
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		subtotal += item.Product.Price * float64(item.Quantity)
	}
	return subtotal
}
