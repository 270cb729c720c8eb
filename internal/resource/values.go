package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Kind is the wire type a field is coerced to before validation.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindDecimal:
		return "number"
	case KindBool:
		return "boolean"
	}
	return "string"
}

// Values holds coerced field values keyed by JSON name. Strings are string, integers
// int64, decimals decimal.Decimal and booleans bool; nil marks an explicit null.
type Values map[string]any

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

func (v Values) Int(key string) (int64, bool) {
	n, ok := v[key].(int64)
	return n, ok
}

func (v Values) Decimal(key string) (decimal.Decimal, bool) {
	d, ok := v[key].(decimal.Decimal)
	return d, ok
}

func (v Values) Bool(key string) (bool, bool) {
	b, ok := v[key].(bool)
	return b, ok
}

func coerce(field Field, raw any) (any, error) {
	if raw == nil {
		if field.Nullable {
			return nil, nil
		}
		return nil, pkgerrors.Validation(field.Name, "cannot be null")
	}

	switch field.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			n, isNum := numberText(raw)
			if !isNum || !field.AcceptNumbers {
				return nil, pkgerrors.Validation(field.Name, "must be a string")
			}
			s = n
		}
		s = strings.TrimSpace(s)
		if field.Lower {
			s = strings.ToLower(s)
		}
		if s == "" {
			if field.Required {
				return nil, pkgerrors.Validation(field.Name, "is required")
			}
			if field.Nullable {
				return nil, nil
			}
		}
		return s, nil
	case KindInt:
		n, err := toInt(raw)
		if err != nil {
			return nil, pkgerrors.Validation(field.Name, "must be an integer")
		}
		return n, nil
	case KindDecimal:
		d, err := toDecimal(raw)
		if err != nil {
			return nil, pkgerrors.Validation(field.Name, "must be a number")
		}
		return d, nil
	case KindBool:
		b, err := toBool(raw)
		if err != nil {
			return nil, pkgerrors.Validation(field.Name, "must be a boolean")
		}
		return b, nil
	}
	return nil, pkgerrors.Validation(field.Name, "has an unsupported type")
}

func numberText(raw any) (string, bool) {
	switch v := raw.(type) {
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("not integral")
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("unsupported %T", raw)
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case decimal.Decimal:
		return v, nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	}
	return decimal.Zero, fmt.Errorf("unsupported %T", raw)
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case json.Number:
		switch v.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return false, fmt.Errorf("unsupported %T", raw)
}

// ruleValue is what the validator sees: decimals are checked as floats.
func ruleValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

// sameValue compares a coerced value with a stored one of the same field.
func sameValue(field Field, stored, next any) bool {
	if stored == nil || next == nil {
		return stored == nil && next == nil
	}
	if field.Kind == KindDecimal {
		a, errA := toDecimal(stored)
		b, errB := toDecimal(next)
		return errA == nil && errB == nil && a.Equal(b)
	}
	return fmt.Sprint(stored) == fmt.Sprint(next)
}

// jsonValue converts a coerced value for marshalling into the model.
func jsonValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		return json.Number(d.String())
	}
	return v
}
