package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// LineItem is one distinct product in the cart. LineTotal is the aggregated amount
// paid for the whole line, not a unit price.
type LineItem struct {
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// UnitPrice derives the per-unit figure shown to shoppers.
func (l LineItem) UnitPrice() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return l.LineTotal.Div(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Product identifies what is being added.
type Product struct {
	Name  string
	Slug  string
	Image string
}

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event is delivered to subscribers after every mutation.
type Event struct {
	Kind  EventKind
	Name  string
	Items []LineItem
}

// Cart applies mutations to a slot and notifies subscribers.
type Cart struct {
	slot *Slot[LineItem]

	mu        sync.Mutex
	observers []func(Event)
}

func New(slot *Slot[LineItem]) *Cart {
	return &Cart{slot: slot}
}

// Subscribe registers fn for every subsequent mutation.
func (c *Cart) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Items returns the current lines.
func (c *Cart) Items(ctx context.Context) []LineItem {
	return c.slot.Get(ctx)
}

// Add merges into the line with the same name or appends a new one.
func (c *Cart) Add(ctx context.Context, product Product, quantity int, total decimal.Decimal) []LineItem {
	items := c.slot.Get(ctx)
	merged := false
	for i := range items {
		if items[i].Name == product.Name {
			items[i].Quantity += quantity
			items[i].LineTotal = items[i].LineTotal.Add(total).Round(2)
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, LineItem{
			Name:      product.Name,
			Slug:      product.Slug,
			Image:     product.Image,
			Quantity:  quantity,
			LineTotal: total.Round(2),
		})
	}
	c.slot.Set(ctx, items)
	c.emit(Event{Kind: EventAdded, Name: product.Name, Items: items})
	return items
}

// Remove drops the named line. Removing the last line deletes the slot.
func (c *Cart) Remove(ctx context.Context, name string) []LineItem {
	current := c.slot.Get(ctx)
	items := make([]LineItem, 0, len(current))
	for _, item := range current {
		if item.Name != name {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		c.slot.Delete(ctx)
	} else {
		c.slot.Set(ctx, items)
	}
	c.emit(Event{Kind: EventRemoved, Name: name, Items: items})
	return items
}

// Clear deletes the slot.
func (c *Cart) Clear(ctx context.Context) {
	c.slot.Delete(ctx)
	c.emit(Event{Kind: EventCleared, Items: []LineItem{}})
}

// Total sums line totals.
func (c *Cart) Total(ctx context.Context) decimal.Decimal {
	return SumTotals(c.slot.Get(ctx))
}

// SumTotals adds line totals without tax or shipping.
func SumTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}

func (c *Cart) emit(evt Event) {
	c.mu.Lock()
	observers := append([]func(Event){}, c.observers...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(evt)
	}
}
