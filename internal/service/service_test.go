package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
)

// testRepo opens a fresh in-memory sqlite database. The pool is capped at
// one connection so every goroutine sees the same database.
func testRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistItem{},
	))

	return &repo.GormRepo{DB: db}
}

func testAuthService(r *repo.GormRepo) *AuthService {
	return &AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     4 * 24 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func createTestUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()
	result, err := testAuthService(r).Register(context.Background(), email, "password123", "Test User")
	require.NoError(t, err)
	return result.User
}

func createTestProduct(t *testing.T, r *repo.GormRepo, name string, price float64, stock int) *models.Product {
	t.Helper()
	ctx := context.Background()

	cat := models.Category{Name: "Test " + name, Slug: Slugify("Test " + name)}
	require.NoError(t, r.DB.Create(&cat).Error)

	product := models.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: cat.ID,
	}
	require.NoError(t, r.CreateProduct(ctx, &product))
	return &product
}
