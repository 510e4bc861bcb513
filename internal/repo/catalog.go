package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, categoryID uint, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Category").
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

// ReplaceProductImages swaps the product's image list for the given URLs,
// keeping their order.
func (r *GormRepo) ReplaceProductImages(ctx context.Context, productID uint, urls []string) error {
	return r.WithTx(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		for i, url := range urls {
			img := models.ProductImage{ProductID: productID, URL: url, Position: i}
			if err := tx.DB.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) CountOrderItemsForProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// DeleteProduct removes the product together with its ephemeral references
// (cart lines, wishlist entries, images). Order items are the caller's
// responsibility to check first.
func (r *GormRepo) DeleteProduct(ctx context.Context, productID uint) error {
	return r.WithTx(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("product_id = ?", productID).Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.DB.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		res := tx.DB.Delete(&models.Product{}, productID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type CategoryWithCount struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]CategoryWithCount, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	out := make([]CategoryWithCount, 0, len(categories))
	for _, cat := range categories {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Product{}).
			Where("category_id = ?", cat.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, CategoryWithCount{Category: cat, ProductCount: count})
	}
	return out, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	res := r.DB.WithContext(ctx).Where("name = ?", cat.Name).FirstOrCreate(cat)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *GormRepo) SaveCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Save(cat).Error
}

func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var existing models.Category
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (r *GormRepo) CountProductsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
