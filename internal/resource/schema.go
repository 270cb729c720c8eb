package resource

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Field declares one writable attribute of a resource.
type Field struct {
	// Name is the JSON key; Column defaults to it.
	Name   string
	Column string
	Kind   Kind
	// Rules is a validator/v10 tag applied after coercion.
	Rules    string
	Required bool
	Default  any
	Nullable bool
	// WriteOnly fields are accepted on input and never compared or echoed.
	WriteOnly bool
	Lower     bool
	// AcceptNumbers lets string fields take bare JSON numbers, e.g. pincodes.
	AcceptNumbers bool
}

func (f Field) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Unique is a natural key, possibly composite.
type Unique struct {
	Fields []string
}

// Parent is a foreign key verified by lookup before writes.
type Parent struct {
	Field string
	Table string
	Label string
}

// Filter maps a list query parameter to an equality condition.
type Filter struct {
	Param  string
	Column string
	Kind   Kind
}

// Check validates the merged record.
type Check func(values Values) error

// Schema describes a resource for the generic engine.
type Schema[T any] struct {
	// Name is the plural route segment, e.g. "categories".
	Name string
	// Label is the singular noun used in messages.
	Label   string
	Fields  []Field
	Unique  []Unique
	Parents []Parent
	Checks  []Check
	Filters []Filter
	Search  []string
	// Order defaults to newest first.
	Order string
	// Mutate runs after values are applied to the record and before it is saved.
	Mutate func(ctx context.Context, record *T, values Values, creating bool) error
}

func (s Schema[T]) validate() error {
	var err error
	if s.Name == "" {
		err = multierr.Append(err, fmt.Errorf("schema name required"))
	}
	if s.Label == "" {
		err = multierr.Append(err, fmt.Errorf("%s: label required", s.Name))
	}
	known := map[string]bool{}
	for _, f := range s.Fields {
		if f.Name == "" {
			err = multierr.Append(err, fmt.Errorf("%s: field without name", s.Name))
			continue
		}
		if f.Name == "id" {
			err = multierr.Append(err, fmt.Errorf("%s: id is not writable", s.Name))
		}
		if known[f.Name] {
			err = multierr.Append(err, fmt.Errorf("%s: duplicate field %q", s.Name, f.Name))
		}
		known[f.Name] = true
	}
	for _, u := range s.Unique {
		if len(u.Fields) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s: empty unique rule", s.Name))
		}
		for _, name := range u.Fields {
			if !known[name] {
				err = multierr.Append(err, fmt.Errorf("%s: unique rule references unknown field %q", s.Name, name))
			}
		}
	}
	for _, p := range s.Parents {
		if !known[p.Field] {
			err = multierr.Append(err, fmt.Errorf("%s: parent references unknown field %q", s.Name, p.Field))
		}
		if p.Table == "" {
			err = multierr.Append(err, fmt.Errorf("%s: parent %q needs a table", s.Name, p.Field))
		}
	}
	for _, f := range s.Filters {
		if f.Param == "" || f.Column == "" {
			err = multierr.Append(err, fmt.Errorf("%s: filter needs param and column", s.Name))
		}
	}
	return err
}
