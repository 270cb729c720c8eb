package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/internal/pricing"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const slotName = "cart"

type productQuoter interface {
	QuoteBySlug(ctx context.Context, slug string, offerQuantity int) (*models.Product, pricing.Quote, error)
}

type eventRecorder interface {
	IncEvent(kind string)
}

// Service resolves cart ids to slots and applies mutations with server-side pricing.
type Service interface {
	View(ctx context.Context, cartID string) View
	AddItem(ctx context.Context, cartID string, input AddItemInput) (View, error)
	RemoveItem(ctx context.Context, cartID, name string) View
	Clear(ctx context.Context, cartID string) View
}

type service struct {
	storage StorageFactory
	quoter  productQuoter
	events  eventRecorder
	logg    *logger.Logger
}

// NewService builds the cart service. A nil storage factory falls back to NopStorage.
func NewService(storage StorageFactory, quoter productQuoter, events eventRecorder, logg *logger.Logger) (Service, error) {
	if quoter == nil {
		return nil, fmt.Errorf("product quoter required")
	}
	if storage == nil {
		storage = NopFactory()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{storage: storage, quoter: quoter, events: events, logg: logg}, nil
}

// AddItemInput is the storefront add-to-cart request.
type AddItemInput struct {
	ProductSlug   string `json:"product_slug" validate:"required,max=255"`
	OfferQuantity int    `json:"offer_quantity" validate:"omitempty,gt=0"`
}

// ItemView is a line item with its derived unit price.
type ItemView struct {
	LineItem
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// View is the cart as returned by every cart endpoint.
type View struct {
	Items     []ItemView      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// NewView derives the response from stored lines.
func NewView(items []LineItem) View {
	view := View{Items: make([]ItemView, 0, len(items)), Total: SumTotals(items)}
	for _, item := range items {
		view.Items = append(view.Items, ItemView{LineItem: item, UnitPrice: item.UnitPrice()})
		view.ItemCount += item.Quantity
	}
	return view
}

func (s *service) open(ctx context.Context, cartID string) *Cart {
	c := New(NewSlot[LineItem](slotName, s.storage(cartID), s.logg))
	c.Subscribe(func(evt Event) {
		if s.events != nil {
			s.events.IncEvent(string(evt.Kind))
		}
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"cart_id":    cartID,
			"cart_event": string(evt.Kind),
			"line_name":  evt.Name,
			"line_count": len(evt.Items),
		})
		s.logg.Debug(logCtx, "cart.mutated")
	})
	return c
}

func (s *service) View(ctx context.Context, cartID string) View {
	return NewView(s.open(ctx, cartID).Items(ctx))
}

func (s *service) AddItem(ctx context.Context, cartID string, input AddItemInput) (View, error) {
	slug := strings.TrimSpace(input.ProductSlug)
	if slug == "" {
		return View{}, pkgerrors.Validation("product_slug", "is required")
	}
	product, quote, err := s.quoter.QuoteBySlug(ctx, slug, input.OfferQuantity)
	if err != nil {
		return View{}, err
	}
	image := ""
	if product.Image != nil {
		image = *product.Image
	}
	items := s.open(ctx, cartID).Add(ctx, Product{
		Name:  product.Name,
		Slug:  product.Slug,
		Image: image,
	}, quote.Quantity, quote.Total)
	return NewView(items), nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, name string) View {
	return NewView(s.open(ctx, cartID).Remove(ctx, name))
}

func (s *service) Clear(ctx context.Context, cartID string) View {
	s.open(ctx, cartID).Clear(ctx)
	return NewView(nil)
}
