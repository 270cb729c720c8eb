package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/ayurcart-backend/internal/pricing"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	pkgredis "github.com/angelmondragon/ayurcart-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

type stubQuoter struct {
	product models.Product
	quotes  map[int]pricing.Quote
}

func (s stubQuoter) QuoteBySlug(_ context.Context, slug string, qty int) (*models.Product, pricing.Quote, error) {
	if slug != s.product.Slug {
		return nil, pricing.Quote{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	q, ok := s.quotes[qty]
	if !ok {
		return nil, pricing.Quote{}, pkgerrors.Validation("offer_quantity", "is not offered for this product")
	}
	p := s.product
	return &p, q, nil
}

type countingEvents struct {
	counts map[string]int
}

func (c *countingEvents) IncEvent(kind string) {
	c.counts[kind]++
}

func newTestService(t *testing.T) (Service, *countingEvents) {
	t.Helper()
	image := "/uploads/1700000000000-triphala.png"
	quoter := stubQuoter{
		product: models.Product{Name: "Triphala Churna", Slug: "triphala-churna", Image: &image},
		quotes: map[int]pricing.Quote{
			0: {UnitPrice: dec("899"), Quantity: 3, Total: dec("2697")},
			1: {UnitPrice: dec("1199"), Quantity: 1, Total: dec("1199")},
		},
	}
	events := &countingEvents{counts: map[string]int{}}
	svc, err := NewService(MemoryFactory(), quoter, events, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, events
}

func TestServiceAddUsesServerQuote(t *testing.T) {
	ctx := context.Background()
	svc, events := newTestService(t)

	view, err := svc.AddItem(ctx, "cart-1", AddItemInput{ProductSlug: "triphala-churna"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err = svc.AddItem(ctx, "cart-1", AddItemInput{ProductSlug: "triphala-churna", OfferQuantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Items))
	}
	line := view.Items[0]
	if line.Quantity != 4 || !line.LineTotal.Equal(dec("3896")) {
		t.Fatalf("unexpected line %+v", line)
	}
	if !line.UnitPrice.Equal(dec("974")) {
		t.Fatalf("expected derived unit price 974, got %s", line.UnitPrice)
	}
	if line.Image == "" {
		t.Fatal("expected image copied from product")
	}
	if view.ItemCount != 4 || !view.Total.Equal(dec("3896")) {
		t.Fatalf("unexpected totals %+v", view)
	}
	if events.counts["added"] != 2 {
		t.Fatalf("expected two added events, got %v", events.counts)
	}

	if other := svc.View(ctx, "cart-2"); len(other.Items) != 0 {
		t.Fatal("carts must be isolated by id")
	}
}

func TestServiceAddRejectsUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddItem(context.Background(), "cart-1", AddItemInput{ProductSlug: "missing"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), "cart-1", AddItemInput{ProductSlug: "  "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc, events := newTestService(t)
	if _, err := svc.AddItem(ctx, "cart-1", AddItemInput{ProductSlug: "triphala-churna"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if view := svc.RemoveItem(ctx, "cart-1", "Triphala Churna"); len(view.Items) != 0 || !view.Total.IsZero() {
		t.Fatalf("expected empty cart after remove, got %+v", view)
	}
	if _, err := svc.AddItem(ctx, "cart-1", AddItemInput{ProductSlug: "triphala-churna"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if view := svc.Clear(ctx, "cart-1"); len(view.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", view)
	}
	if view := svc.View(ctx, "cart-1"); len(view.Items) != 0 {
		t.Fatalf("expected clear to persist, got %+v", view)
	}
	if events.counts["removed"] != 1 || events.counts["cleared"] != 1 {
		t.Fatalf("unexpected event counts %v", events.counts)
	}
}

func TestNewServiceRequiresQuoter(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error without quoter")
	}
}

type fakeKV struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func (f *fakeKV) GetBytes(_ context.Context, key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, redis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.([]byte)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeKV) CartKey(cartID string) string {
	return (&pkgredis.Client{}).CartKey(cartID)
}

func TestRedisStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	factory := RedisFactory(kv, 720*time.Hour)

	c := New(NewSlot[LineItem]("cart", factory("abc"), nil))
	c.Add(ctx, Product{Name: "Brahmi"}, 2, dec("698"))

	if _, ok := kv.data["ayur:cart:abc"]; !ok {
		t.Fatalf("expected namespaced key, got %v", kv.data)
	}
	if kv.ttls["ayur:cart:abc"] != 720*time.Hour {
		t.Fatalf("expected ttl refreshed on save")
	}

	reopened := New(NewSlot[LineItem]("cart", factory("abc"), nil))
	if items := reopened.Items(ctx); len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected persisted line, got %+v", items)
	}

	reopened.Remove(ctx, "Brahmi")
	if _, ok := kv.data["ayur:cart:abc"]; ok {
		t.Fatal("expected key deleted when last line removed")
	}
}
