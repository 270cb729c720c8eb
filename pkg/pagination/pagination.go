package pagination

import (
	"gorm.io/gorm"
)

const (
	// DefaultPage is used when the page parameter is absent.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Envelope describes the position of a page inside the full result set.
type Envelope struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// List is the response shape of every list endpoint.
type List[T any] struct {
	Items      []T      `json:"items"`
	Pagination Envelope `json:"pagination"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize fills defaults and clamps the page size.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Scope applies limit/offset to a gorm query.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n.Limit).Offset(n.Offset())
	}
}

// Build computes the envelope; totalPages is never below one.
func Build(params Params, totalItems int64) Envelope {
	n := params.Normalize()
	totalPages := 1
	if totalItems > 0 {
		totalPages = int((totalItems + int64(n.Limit) - 1) / int64(n.Limit))
		if totalPages < 1 {
			totalPages = 1
		}
	}
	return Envelope{
		Page:        n.Page,
		Limit:       n.Limit,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: n.Page < totalPages,
		HasPrevPage: n.Page > 1,
	}
}

// NewList pairs items with their envelope, keeping items non-nil for JSON.
func NewList[T any](items []T, params Params, totalItems int64) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Pagination: Build(params, totalItems)}
}
