package resource

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Resource is the type-erased engine surface consumed by HTTP handlers.
type Resource interface {
	Name() string
	Label() string
	FilterParams() []string
	Get(ctx context.Context, id int64) (any, error)
	List(ctx context.Context, q ListQuery) (any, error)
	Create(ctx context.Context, body map[string]any) (any, error)
	Update(ctx context.Context, id int64, body map[string]any) (any, error)
	Delete(ctx context.Context, id int64) error
}

type erased[T any] struct {
	engine *Engine[T]
}

// Erase wraps a typed engine.
func Erase[T any](engine *Engine[T]) Resource {
	return erased[T]{engine: engine}
}

func (r erased[T]) Name() string  { return r.engine.schema.Name }
func (r erased[T]) Label() string { return r.engine.schema.Label }

func (r erased[T]) FilterParams() []string {
	params := make([]string, 0, len(r.engine.schema.Filters))
	for _, f := range r.engine.schema.Filters {
		params = append(params, f.Param)
	}
	return params
}

func (r erased[T]) Get(ctx context.Context, id int64) (any, error) {
	return r.engine.Get(ctx, id)
}

func (r erased[T]) List(ctx context.Context, q ListQuery) (any, error) {
	return r.engine.List(ctx, q)
}

func (r erased[T]) Create(ctx context.Context, body map[string]any) (any, error) {
	return r.engine.Create(ctx, body)
}

func (r erased[T]) Update(ctx context.Context, id int64, body map[string]any) (any, error) {
	return r.engine.Update(ctx, id, body)
}

func (r erased[T]) Delete(ctx context.Context, id int64) error {
	return r.engine.Delete(ctx, id)
}

// Registry indexes resources by route name.
type Registry struct {
	order []string
	byKey map[string]Resource
}

// NewRegistry rejects duplicate or unnamed resources, reporting every problem at once.
func NewRegistry(resources ...Resource) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]Resource, len(resources))}
	var err error
	for i, res := range resources {
		if res == nil {
			err = multierr.Append(err, fmt.Errorf("resource %d is nil", i))
			continue
		}
		name := res.Name()
		if _, exists := reg.byKey[name]; exists {
			err = multierr.Append(err, fmt.Errorf("duplicate resource %q", name))
			continue
		}
		reg.byKey[name] = res
		reg.order = append(reg.order, name)
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) Lookup(name string) (Resource, bool) {
	res, ok := r.byKey[name]
	return res, ok
}

// All returns resources in registration order.
func (r *Registry) All() []Resource {
	out := make([]Resource, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byKey[name])
	}
	return out
}
