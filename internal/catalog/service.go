package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/internal/pricing"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the storefront read surface.
type Service interface {
	Categories(ctx context.Context) ([]CategoryDTO, error)
	Products(ctx context.Context, query ProductQuery) (pagination.List[ProductCard], error)
	Product(ctx context.Context, slug string) (*ProductPage, error)
	Quote(ctx context.Context, slug string, offerQuantity int) (*QuoteResult, error)
	QuoteBySlug(ctx context.Context, slug string, offerQuantity int) (*models.Product, pricing.Quote, error)
	FAQs(ctx context.Context, productSlug string) ([]FAQDTO, error)
	Countries(ctx context.Context) ([]CountryDTO, error)
	States(ctx context.Context, countryID int64) ([]RegionDTO, error)
	Cities(ctx context.Context, stateID int64) ([]RegionDTO, error)
	Pincode(ctx context.Context, code string) (*PincodeDTO, error)
	ShippingQuote(ctx context.Context, countryID int64, amount decimal.Decimal) (*ShippingQuote, error)
}

// ProductQuery is the parsed storefront listing request.
type ProductQuery struct {
	CategorySlug string
	Search       string
	Page         pagination.Params
}

type service struct {
	repo *Repository
}

// NewService constructs the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromModel(row))
	}
	return out, nil
}

// Products pages active products. An unknown category slug yields an empty page.
func (s *service) Products(ctx context.Context, query ProductQuery) (pagination.List[ProductCard], error) {
	params := query.Page.Normalize()
	filter := ProductFilter{Search: query.Search, Page: params}

	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pagination.NewList([]ProductCard{}, params, 0), nil
		}
		if err != nil {
			return pagination.List[ProductCard]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		filter.CategoryID = &category.ID
	}

	rows, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return pagination.List[ProductCard]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	cards := make([]ProductCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, cardFromModel(row))
	}
	return pagination.NewList(cards, params, total), nil
}

func (s *service) Product(ctx context.Context, slug string) (*ProductPage, error) {
	product, offers, err := s.loadProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.FindDetail(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product detail")
	}
	reviews, err := s.repo.ListReviews(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	faqs, err := s.repo.ListFAQs(ctx, &product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list faqs")
	}

	quote, _, _ := pricing.ForProduct(*product, offers, 0)
	reviewDTOs, rating := summarizeReviews(reviews)
	page := &ProductPage{
		Product:      cardFromModel(*product),
		Offers:       offerViews(*product, offers),
		DefaultQuote: quote,
		Reviews:      reviewDTOs,
		Rating:       rating,
		FAQs:         faqsFromModels(faqs),
	}
	if detail != nil {
		page.Detail = &DetailDTO{
			Description: detail.Description,
			Ingredients: detail.Ingredients,
			Benefits:    detail.Benefits,
			HowToUse:    detail.HowToUse,
		}
	}
	return page, nil
}

func (s *service) Quote(ctx context.Context, slug string, offerQuantity int) (*QuoteResult, error) {
	product, offers, err := s.loadProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	quote, offer, err := resolveQuote(*product, offers, offerQuantity)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Product: cardFromModel(*product), Offer: offer, Quote: quote}, nil
}

// QuoteBySlug prices a product for the cart, so clients never supply amounts.
func (s *service) QuoteBySlug(ctx context.Context, slug string, offerQuantity int) (*models.Product, pricing.Quote, error) {
	product, offers, err := s.loadProduct(ctx, slug)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	quote, _, err := resolveQuote(*product, offers, offerQuantity)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return product, quote, nil
}

func resolveQuote(product models.Product, offers []pricing.Offer, offerQuantity int) (pricing.Quote, *pricing.Offer, error) {
	if offerQuantity < 0 {
		return pricing.Quote{}, nil, pkgerrors.Validation("offer", "must be greater than 0")
	}
	quote, offer, ok := pricing.ForProduct(product, offers, offerQuantity)
	if !ok {
		return pricing.Quote{}, nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "offer of %d units not found", offerQuantity)
	}
	return quote, offer, nil
}

func (s *service) loadProduct(ctx context.Context, slug string) (*models.Product, []pricing.Offer, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil, pkgerrors.Validation("slug", "is required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	rows, err := s.repo.ListOffers(ctx, product.ID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list offers")
	}
	return product, pricing.FromModels(rows), nil
}

// FAQs returns site-wide questions, plus the product's own when a slug is given.
func (s *service) FAQs(ctx context.Context, productSlug string) ([]FAQDTO, error) {
	var productID *int64
	if slug := strings.TrimSpace(productSlug); slug != "" {
		product, err := s.repo.FindProductBySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		productID = &product.ID
	}
	rows, err := s.repo.ListFAQs(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list faqs")
	}
	return faqsFromModels(rows), nil
}

func (s *service) Countries(ctx context.Context) ([]CountryDTO, error) {
	rows, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list countries")
	}
	out := make([]CountryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CountryDTO{ID: row.ID, Name: row.Name, ISOCode: row.ISOCode, PhoneCode: row.PhoneCode})
	}
	return out, nil
}

func (s *service) States(ctx context.Context, countryID int64) ([]RegionDTO, error) {
	rows, err := s.repo.ListStates(ctx, countryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list states")
	}
	out := make([]RegionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RegionDTO{ID: row.ID, Name: row.Name, Code: row.Code})
	}
	return out, nil
}

func (s *service) Cities(ctx context.Context, stateID int64) ([]RegionDTO, error) {
	rows, err := s.repo.ListCities(ctx, stateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cities")
	}
	out := make([]RegionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RegionDTO{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (s *service) Pincode(ctx context.Context, code string) (*PincodeDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.Validation("code", "is required")
	}
	row, err := s.repo.FindPincode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pincode not serviceable")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pincode")
	}
	return &PincodeDTO{Code: row.Code, CityID: row.CityID, DeliveryAvailable: row.DeliveryAvailable}, nil
}

// ShippingQuote picks the first active band, by lower bound, whose inclusive range
// contains amount.
func (s *service) ShippingQuote(ctx context.Context, countryID int64, amount decimal.Decimal) (*ShippingQuote, error) {
	if amount.IsNegative() {
		return nil, pkgerrors.Validation("amount", "must be greater than or equal to 0")
	}
	rates, err := s.repo.ListShippingRates(ctx, countryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shipping rates")
	}
	for _, rate := range rates {
		if amount.LessThan(rate.MinAmount) || amount.GreaterThan(rate.MaxAmount) {
			continue
		}
		return &ShippingQuote{
			CountryID: countryID,
			RateName:  rate.Name,
			Amount:    amount.Round(2),
			Charge:    rate.Charge,
			Total:     amount.Add(rate.Charge).Round(2),
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no shipping rate covers this amount")
}
