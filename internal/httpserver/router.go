package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/metrics"
	"github.com/ereminvs/webshop/internal/middleware/auth"
	"github.com/ereminvs/webshop/internal/mykafka"
	"github.com/ereminvs/webshop/internal/repo"
	"github.com/ereminvs/webshop/internal/service"
)

type Server struct {
	DB *gorm.DB

	Guard *auth.Guard

	Auth       *AuthHandler
	Cart       *CartHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Orders     *OrderHandler
	Profile    *ProfileHandler
	Wishlist   *WishlistHandler
}

// NewServer wires repositories, services and handlers around one gorm
// connection.
func NewServer(db *gorm.DB, authSvc *service.AuthService, producer *mykafka.Producer) *Server {
	r := &repo.GormRepo{DB: db}
	return &Server{
		DB:         db,
		Guard:      &auth.Guard{Auth: authSvc},
		Auth:       &AuthHandler{Auth: authSvc, Producer: producer},
		Cart:       &CartHandler{Cart: &service.CartService{Repo: r}},
		Products:   &ProductHandler{Catalog: &service.CatalogService{Repo: r}, Producer: producer},
		Categories: &CategoryHandler{Catalog: &service.CatalogService{Repo: r}},
		Orders:     &OrderHandler{Orders: &service.OrderService{Repo: r}, Producer: producer},
		Profile:    &ProfileHandler{Profile: &service.ProfileService{Repo: r}},
		Wishlist:   &WishlistHandler{Wishlist: &service.WishlistService{Repo: r}},
	}
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/ready", s.ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := e.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", s.Auth.Register)
	authGroup.POST("/login", s.Auth.Login)
	authGroup.POST("/refresh", s.Auth.Refresh)
	authGroup.POST("/logout", s.Auth.Logout)

	v1.GET("/products", s.Products.ListProducts)
	v1.GET("/products/:id", s.Products.GetProduct)
	v1.POST("/products", s.Products.CreateProduct, s.Guard.RequireAdmin)
	v1.PUT("/products/:id", s.Products.UpdateProduct, s.Guard.RequireAdmin)
	v1.DELETE("/products/:id", s.Products.DeleteProduct, s.Guard.RequireAdmin)

	v1.GET("/categories", s.Categories.ListCategories)
	admin := v1.Group("/admin", s.Guard.RequireAdmin)
	admin.GET("/categories", s.Categories.ListCategories)
	admin.POST("/categories", s.Categories.CreateCategory)
	admin.PUT("/categories/:id", s.Categories.UpdateCategory)
	admin.DELETE("/categories/:id", s.Categories.DeleteCategory)
	admin.GET("/orders", s.Orders.ListAllOrders)

	cart := v1.Group("/cart", s.Guard.RequireAuth)
	cart.GET("", s.Cart.GetCart)
	cart.POST("/items", s.Cart.AddItem)
	cart.PUT("/items", s.Cart.SetItemQuantity)

	orders := v1.Group("/orders", s.Guard.RequireAuth)
	orders.POST("", s.Orders.PlaceOrder)
	orders.GET("", s.Orders.ListOrders)
	orders.GET("/:id", s.Orders.GetOrder)
	v1.PUT("/orders/:id", s.Orders.UpdateStatus, s.Guard.RequireAdmin)

	profile := v1.Group("/profile", s.Guard.RequireAuth)
	profile.GET("", s.Profile.GetProfile)
	profile.PUT("", s.Profile.UpdateProfile)

	wishlist := v1.Group("/wishlist", s.Guard.RequireAuth)
	wishlist.GET("", s.Wishlist.List)
	wishlist.POST("", s.Wishlist.Add)
	wishlist.DELETE("/:productID", s.Wishlist.Remove)
}

func (s *Server) ready(c echo.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
