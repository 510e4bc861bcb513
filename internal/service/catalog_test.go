package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "garden-tools", Slugify("Garden Tools"))
	require.Equal(t, "garden-tools", Slugify("  Garden \t Tools  "))
	require.Equal(t, "sale", Slugify("SALE"))
}

func TestCreateProduct(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Tools", "")
	require.NoError(t, err)

	product, err := svc.CreateProduct(ctx, CreateProductRequest{
		Name:       "Hammer",
		Price:      19.99,
		Stock:      5,
		CategoryID: cat.ID,
		Images:     []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, product.Images, 2)
	require.Equal(t, 0, product.Images[0].Position)
	require.Equal(t, "https://cdn.example.com/a.jpg", product.Images[0].URL)

	_, err = svc.CreateProduct(ctx, CreateProductRequest{Name: "Free", Price: 0, CategoryID: cat.ID})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, CreateProductRequest{Name: "Orphan", Price: 1, CategoryID: 9999})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchProduct(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product := createTestProduct(t, r, "Hammer", 19.99, 5)

	newPrice := 24.99
	newStock := 7
	patched, err := svc.PatchProduct(ctx, product.ID, PatchProductRequest{
		Price: &newPrice,
		Stock: &newStock,
	})
	require.NoError(t, err)
	require.InDelta(t, 24.99, patched.Price, 1e-9)
	require.Equal(t, 7, patched.Stock)
	require.Equal(t, "Hammer", patched.Name)

	badPrice := -1.0
	_, err = svc.PatchProduct(ctx, product.ID, PatchProductRequest{Price: &badPrice})
	require.ErrorIs(t, err, ErrValidation)

	images := []string{"https://cdn.example.com/new.jpg"}
	patched, err = svc.PatchProduct(ctx, product.ID, PatchProductRequest{Images: &images})
	require.NoError(t, err)
	require.Len(t, patched.Images, 1)

	_, err = svc.PatchProduct(ctx, 9999, PatchProductRequest{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductBlockedByOrders(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	carts := &CartService{Repo: r}
	orders := &OrderService{Repo: r}
	ctx := context.Background()

	user := createTestUser(t, r, "alice@example.com")
	product := createTestProduct(t, r, "Hammer", 19.99, 5)

	_, err := carts.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, user.ID)
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, product.ID)
	require.ErrorIs(t, err, ErrConflict)

	// still listed
	_, err = svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
}

func TestDeleteProductCleansReferences(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	carts := &CartService{Repo: r}
	wishlist := &WishlistService{Repo: r}
	ctx := context.Background()

	user := createTestUser(t, r, "alice@example.com")
	product := createTestProduct(t, r, "Hammer", 19.99, 5)

	_, err := carts.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = wishlist.Add(ctx, user.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err = svc.GetProduct(ctx, product.ID)
	require.ErrorIs(t, err, ErrNotFound)

	cart, err := carts.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	items, err := wishlist.List(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCategoryUniqueness(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Garden Tools", "outdoor")
	require.NoError(t, err)
	require.Equal(t, "garden-tools", cat.Slug)

	_, err = svc.CreateCategory(ctx, "Garden Tools", "")
	require.ErrorIs(t, err, ErrConflict)

	other, err := svc.CreateCategory(ctx, "Kitchen", "")
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, other.ID, "Garden Tools", "")
	require.ErrorIs(t, err, ErrConflict)

	renamed, err := svc.UpdateCategory(ctx, other.ID, "Kitchen Ware", "")
	require.NoError(t, err)
	require.Equal(t, "kitchen-ware", renamed.Slug)
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Tools", "")
	require.NoError(t, err)

	product, err := svc.CreateProduct(ctx, CreateProductRequest{
		Name: "Hammer", Price: 19.99, Stock: 5, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, cat.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	err = svc.DeleteCategory(ctx, cat.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFilterAndPaging(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	tools, err := svc.CreateCategory(ctx, "Tools", "")
	require.NoError(t, err)
	kitchen, err := svc.CreateCategory(ctx, "Kitchen", "")
	require.NoError(t, err)

	for _, name := range []string{"Hammer", "Saw", "Drill"} {
		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: name, Price: 10, Stock: 1, CategoryID: tools.ID})
		require.NoError(t, err)
	}
	_, err = svc.CreateProduct(ctx, CreateProductRequest{Name: "Pan", Price: 10, Stock: 1, CategoryID: kitchen.ID})
	require.NoError(t, err)

	total, items, err := svc.ListProducts(ctx, 0, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Len(t, items, 2)

	total, items, err = svc.ListProducts(ctx, tools.ID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	for _, p := range items {
		require.Equal(t, tools.ID, p.CategoryID)
	}
}

func TestCategoryProductCounts(t *testing.T) {
	r := testRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	tools, err := svc.CreateCategory(ctx, "Tools", "")
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, CreateProductRequest{Name: "Hammer", Price: 10, Stock: 1, CategoryID: tools.ID})
	require.NoError(t, err)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.EqualValues(t, 1, categories[0].ProductCount)
}
