package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
	"github.com/ereminvs/webshop/pkg/logging"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// PlaceOrder converts the user's cart into an immutable order. The whole
// sequence runs in one transaction: any failure leaves no order row, no
// stock change and an untouched cart.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place_order", "user_id", userID)

	var order *models.Order
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			if it.Product == nil {
				return fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
			}
			if it.Product.Stock < int(it.Quantity) {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, it.Product.Name)
			}
			// Unit price is copied here and never read live again.
			items = append(items, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
			total += it.Product.Price * float64(it.Quantity)
		}

		order = &models.Order{
			UserID:    userID,
			Total:     total,
			Status:    models.OrderStatusPending,
			CreatedAt: time.Now().Unix(),
			Items:     items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		// The guarded decrement re-checks stock inside the transaction, so
		// two concurrent placements cannot both take the last unit.
		for _, it := range cart.Items {
			ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, it.Product.Name)
			}
		}

		return tx.DeleteCartItems(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	l.Info("order_placed", "order_id", order.ID, "total", order.Total)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListAllOrders(ctx)
}

// GetOrder enforces ownership: a customer reading someone else's order
// gets ErrForbidden, an admin may read any order.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint, role string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	if role != models.RoleAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order along PENDING -> {PAID, CANCELLED},
// PAID -> SHIPPED, SHIPPED -> DELIVERED. Unknown values are validation
// errors; known values that break the machine are conflicts.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	if !models.CanTransitionOrder(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, status)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}
