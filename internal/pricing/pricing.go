package pricing

import (
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Offer is a quantity pack sold at a per-unit price.
type Offer struct {
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Label          string          `json:"label"`
	SecondaryLabel string          `json:"secondary_label,omitempty"`
}

// Input describes the product being priced and the optional pack selection.
type Input struct {
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Selected      *Offer
}

// Quote is the resolved price for one add-to-cart action.
type Quote struct {
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	Total           decimal.Decimal `json:"total"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountPercent int64           `json:"discount_percent"`
}

// Resolve computes the quote. Totals are rounded half-up to cents and the discount
// percentage is clamped at zero.
func Resolve(in Input) Quote {
	unit := in.Price
	qty := 1
	if in.Selected != nil && in.Selected.Quantity > 0 {
		unit = in.Selected.UnitPrice
		qty = in.Selected.Quantity
	}

	return Quote{
		UnitPrice:       unit,
		Quantity:        qty,
		Total:           unit.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		OriginalPrice:   in.OriginalPrice,
		DiscountPercent: DiscountPercent(in.OriginalPrice, unit),
	}
}

// DiscountPercent returns round((original-unit)/original*100), or 0 when original is
// not positive or the unit price is higher.
func DiscountPercent(original, unit decimal.Decimal) int64 {
	if !original.IsPositive() {
		return 0
	}
	pct := original.Sub(unit).Div(original).Mul(hundred).Round(0)
	if pct.IsNegative() {
		return 0
	}
	return pct.IntPart()
}

// DefaultOffer returns the first offer, or nil when the product has none.
func DefaultOffer(offers []Offer) *Offer {
	if len(offers) == 0 {
		return nil
	}
	first := offers[0]
	return &first
}

// FindOffer selects the pack with the given quantity.
func FindOffer(offers []Offer, quantity int) (*Offer, bool) {
	for i := range offers {
		if offers[i].Quantity == quantity {
			found := offers[i]
			return &found, true
		}
	}
	return nil, false
}

// FromModels converts stored offers, preserving their order.
func FromModels(rows []models.ProductOffer) []Offer {
	offers := make([]Offer, 0, len(rows))
	for _, row := range rows {
		offer := Offer{
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Label:     row.Label,
		}
		if row.SecondaryLabel != nil {
			offer.SecondaryLabel = *row.SecondaryLabel
		}
		offers = append(offers, offer)
	}
	return offers
}

// ForProduct resolves a product's price for the given pack size; zero means the
// default offer.
func ForProduct(product models.Product, offers []Offer, quantity int) (Quote, *Offer, bool) {
	selected := DefaultOffer(offers)
	if quantity > 0 {
		found, ok := FindOffer(offers, quantity)
		if !ok {
			if quantity != 1 {
				return Quote{}, nil, false
			}
			selected = nil
		} else {
			selected = found
		}
	}
	return Resolve(Input{
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Selected:      selected,
	}), selected, true
}
