package catalog

import (
	"github.com/angelmondragon/ayurcart-backend/internal/pricing"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CategoryDTO is a storefront category tile.
type CategoryDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ProductCard is the listing shape of a product.
type ProductCard struct {
	ID               int64           `json:"id"`
	CategoryID       int64           `json:"category_id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Image            *string         `json:"image,omitempty"`
	ShortDescription *string         `json:"short_description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	OriginalPrice    decimal.Decimal `json:"original_price"`
	DiscountPercent  int64           `json:"discount_percent"`
}

// OfferView is a pack with its resolved total.
type OfferView struct {
	pricing.Offer
	Total           decimal.Decimal `json:"total"`
	DiscountPercent int64           `json:"discount_percent"`
}

// DetailDTO holds the long-form product copy.
type DetailDTO struct {
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
	Benefits    *string `json:"benefits,omitempty"`
	HowToUse    *string `json:"how_to_use,omitempty"`
}

type ReviewDTO struct {
	ID       int64   `json:"id"`
	UserName string  `json:"user_name"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment,omitempty"`
}

// RatingSummary aggregates visible reviews.
type RatingSummary struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

type FAQDTO struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProductPage is everything the product detail screen renders.
type ProductPage struct {
	Product      ProductCard   `json:"product"`
	Offers       []OfferView   `json:"offers"`
	DefaultQuote pricing.Quote `json:"default_quote"`
	Detail       *DetailDTO    `json:"detail,omitempty"`
	Reviews      []ReviewDTO   `json:"reviews"`
	Rating       RatingSummary `json:"rating"`
	FAQs         []FAQDTO      `json:"faqs"`
}

// QuoteResult pairs a product with the price of one selected pack.
type QuoteResult struct {
	Product ProductCard    `json:"product"`
	Offer   *pricing.Offer `json:"offer,omitempty"`
	Quote   pricing.Quote  `json:"quote"`
}

type CountryDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ISOCode   *string `json:"iso_code,omitempty"`
	PhoneCode *string `json:"phone_code,omitempty"`
}

type RegionDTO struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

type PincodeDTO struct {
	Code              string `json:"code"`
	CityID            int64  `json:"city_id"`
	DeliveryAvailable bool   `json:"delivery_available"`
}

// ShippingQuote is the flat charge applicable to an order amount.
type ShippingQuote struct {
	CountryID int64           `json:"country_id"`
	RateName  string          `json:"rate_name"`
	Amount    decimal.Decimal `json:"amount"`
	Charge    decimal.Decimal `json:"charge"`
	Total     decimal.Decimal `json:"total"`
}

func categoryFromModel(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, Image: c.Image, Description: c.Description}
}

func cardFromModel(p models.Product) ProductCard {
	return ProductCard{
		ID:               p.ID,
		CategoryID:       p.CategoryID,
		Name:             p.Name,
		Slug:             p.Slug,
		Image:            p.Image,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		DiscountPercent:  pricing.DiscountPercent(p.OriginalPrice, p.Price),
	}
}

func offerViews(product models.Product, offers []pricing.Offer) []OfferView {
	views := make([]OfferView, 0, len(offers))
	for i := range offers {
		quote := pricing.Resolve(pricing.Input{Price: product.Price, OriginalPrice: product.OriginalPrice, Selected: &offers[i]})
		views = append(views, OfferView{Offer: offers[i], Total: quote.Total, DiscountPercent: quote.DiscountPercent})
	}
	return views
}

func faqsFromModels(rows []models.FAQ) []FAQDTO {
	out := make([]FAQDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FAQDTO{ID: row.ID, Question: row.Question, Answer: row.Answer})
	}
	return out
}

func summarizeReviews(rows []models.Review) ([]ReviewDTO, RatingSummary) {
	out := make([]ReviewDTO, 0, len(rows))
	sum := 0
	for _, row := range rows {
		out = append(out, ReviewDTO{ID: row.ID, UserName: row.UserName, Rating: row.Rating, Comment: row.Comment})
		sum += row.Rating
	}
	summary := RatingSummary{Average: decimal.Zero, Count: len(rows)}
	if len(rows) > 0 {
		summary.Average = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(rows)))).Round(1)
	}
	return out, summary
}
