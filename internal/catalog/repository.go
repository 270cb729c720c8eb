package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/angelmondragon/ayurcart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository reads storefront-visible rows. Every query is limited to active records.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the catalog reads to a GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("status = ?", enums.StatusActive)
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.active(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var row models.Category
	if err := r.active(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ProductFilter narrows the storefront product listing.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Page       pagination.Params
}

// ListProducts returns one page of active products and the total match count.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.active(ctx).Model(&models.Product{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		query = query.Where("LOWER(name) LIKE ? "+db.LikeEscape, db.ContainsPattern(strings.ToLower(term)))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if err := query.Scopes(filter.Page.Scope()).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var row models.Product
	if err := r.active(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListOffers returns the product's packs, smallest first.
func (r *Repository) ListOffers(ctx context.Context, productID int64) ([]models.ProductOffer, error) {
	var rows []models.ProductOffer
	err := r.active(ctx).Where("product_id = ?", productID).Order("quantity ASC").Find(&rows).Error
	return rows, err
}

// FindDetail returns nil without error when the product has no detail row.
func (r *Repository) FindDetail(ctx context.Context, productID int64) (*models.ProductDetail, error) {
	var row models.ProductDetail
	err := r.active(ctx).Where("product_id = ?", productID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	var rows []models.Review
	err := r.active(ctx).Where("product_id = ?", productID).Order("id DESC").Find(&rows).Error
	return rows, err
}

// ListFAQs returns site-wide entries, plus the product's own when productID is set.
func (r *Repository) ListFAQs(ctx context.Context, productID *int64) ([]models.FAQ, error) {
	query := r.active(ctx)
	if productID != nil {
		query = query.Where("product_id IS NULL OR product_id = ?", *productID)
	} else {
		query = query.Where("product_id IS NULL")
	}
	var rows []models.FAQ
	err := query.Order("sort_order ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var rows []models.Country
	err := r.active(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListStates(ctx context.Context, countryID int64) ([]models.State, error) {
	var rows []models.State
	err := r.active(ctx).Where("country_id = ?", countryID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListCities(ctx context.Context, stateID int64) ([]models.City, error) {
	var rows []models.City
	err := r.active(ctx).Where("state_id = ?", stateID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindPincode(ctx context.Context, code string) (*models.Pincode, error) {
	var row models.Pincode
	if err := r.active(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListShippingRates returns a country's active bands ordered by lower bound.
func (r *Repository) ListShippingRates(ctx context.Context, countryID int64) ([]models.ShippingRate, error) {
	var rows []models.ShippingRate
	err := r.active(ctx).Where("country_id = ?", countryID).Order("min_amount ASC, id ASC").Find(&rows).Error
	return rows, err
}
