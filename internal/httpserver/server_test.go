package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
	"github.com/ereminvs/webshop/internal/service"
)

type testEnv struct {
	echo *echo.Echo
	repo *repo.GormRepo
	auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{},
		&models.Category{}, &models.Product{}, &models.ProductImage{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.WishlistItem{},
	))

	r := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}

	e := echo.New()
	NewServer(db, authSvc, nil).RegisterRoutes(e)

	return &testEnv{echo: e, repo: r, auth: authSvc}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// register creates an account over the API and returns its access token.
func (env *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &body)
	return body.AccessToken
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	env.register(t, "admin@example.com")
	require.NoError(t, env.repo.DB.Model(&models.User{}).
		Where("email = ?", "admin@example.com").
		Update("role", models.RoleAdmin).Error)

	var admin models.User
	require.NoError(t, env.repo.DB.Where("email = ?", "admin@example.com").First(&admin).Error)
	token, _, err := env.auth.IssueAccessToken(admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (env *testEnv) createProduct(t *testing.T, adminToken, name string, price float64, stock int) uint {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/admin/categories", adminToken, map[string]string{
		"name": "Category " + name,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var cat models.Category
	decodeData(t, rec, &cat)

	rec = env.do(t, http.MethodPost, "/api/v1/products", adminToken, map[string]any{
		"name": name, "price": price, "stock": stock, "category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var product models.Product
	decodeData(t, rec, &product)
	return product.ID
}

func TestErrorEnvelopeShape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/9999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	require.Equal(t, "not_found", body.Error.Code)
}

func TestGuardRejectsAnonymousAndCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := env.register(t, "customer@example.com")
	rec = env.do(t, http.MethodPost, "/api/v1/products", customer, map[string]any{"name": "X"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/orders", customer, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpiredAccessTokenThenRefresh(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)
	require.True(t, refreshCookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, refreshCookie.SameSite)

	var alice models.User
	require.NoError(t, env.repo.DB.Where("email = ?", "alice@example.com").First(&alice).Error)

	// an expired access token is rejected by the guard
	env.auth.AccessTTL = -time.Minute
	expired, _, err := env.auth.IssueAccessToken(alice.ID, alice.Role)
	require.NoError(t, err)
	env.auth.AccessTTL = time.Hour

	rec = env.do(t, http.MethodGet, "/api/v1/cart", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// the refresh cookie trades for a fresh access token
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(nil))
	req.AddCookie(refreshCookie)
	refreshRec := httptest.NewRecorder()
	env.echo.ServeHTTP(refreshRec, req)
	require.Equal(t, http.StatusOK, refreshRec.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, refreshRec, &body)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", body.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var refreshCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "refresh_token" {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", bytes.NewReader(nil))
	req.AddCookie(refreshCookie)
	logoutRec := httptest.NewRecorder()
	env.echo.ServeHTTP(logoutRec, req)
	require.Equal(t, http.StatusNoContent, logoutRec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(nil))
	req.AddCookie(refreshCookie)
	refreshRec := httptest.NewRecorder()
	env.echo.ServeHTTP(refreshRec, req)
	require.Equal(t, http.StatusUnauthorized, refreshRec.Code)
}

func TestStorefrontEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	admin := env.adminToken(t)
	productID := env.createProduct(t, admin, "Widget", 15.00, 2)

	customer := env.register(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", customer, map[string]any{
		"product_id": productID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		Items    []models.CartItem `json:"items"`
		Subtotal float64           `json:"subtotal"`
	}
	decodeData(t, rec, &cart)
	require.Len(t, cart.Items, 1)
	require.InDelta(t, 30.00, cart.Subtotal, 1e-9)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", customer, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	decodeData(t, rec, &order)
	require.InDelta(t, 30.00, order.Total, 1e-9)
	require.Equal(t, models.OrderStatusPending, order.Status)

	// stock is gone, the cart is empty
	rec = env.do(t, http.MethodGet, "/api/v1/cart", customer, nil)
	decodeData(t, rec, &cart)
	require.Empty(t, cart.Items)

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+itoa(productID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var product models.Product
	decodeData(t, rec, &product)
	require.Equal(t, 0, product.Stock)

	// a second order fails: nothing left
	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", customer, map[string]any{
		"product_id": productID, "quantity": 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// the admin walks the order through the status machine
	rec = env.do(t, http.MethodPut, "/api/v1/orders/"+itoa(order.ID), admin, map[string]string{
		"status": models.OrderStatusPaid,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/orders/"+itoa(order.ID), admin, map[string]string{
		"status": models.OrderStatusPaid,
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// the customer cannot touch statuses
	rec = env.do(t, http.MethodPut, "/api/v1/orders/"+itoa(order.ID), customer, map[string]string{
		"status": models.OrderStatusShipped,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	admin := env.adminToken(t)
	productID := env.createProduct(t, admin, "Widget", 10.00, 5)

	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", alice, map[string]any{
		"product_id": productID, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/orders", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	decodeData(t, rec, &order)

	rec = env.do(t, http.MethodGet, "/api/v1/orders/"+itoa(order.ID), bob, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/orders/"+itoa(order.ID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func itoa(v uint) string {
	return service.FormatID(v)
}
