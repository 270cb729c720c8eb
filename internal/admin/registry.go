package admin

import (
	"fmt"

	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// NewRegistry builds an engine for every back-office resource.
func NewRegistry(conn *gorm.DB, validate resource.VarValidator, hasher PasswordHasher) (*resource.Registry, error) {
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	var (
		errs      error
		resources []resource.Resource
	)
	add := func(res resource.Resource, err error) {
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		resources = append(resources, res)
	}

	add(build(conn, CountrySchema(), validate))
	add(build(conn, StateSchema(), validate))
	add(build(conn, CitySchema(), validate))
	add(build(conn, PincodeSchema(), validate))
	add(build(conn, ShippingRateSchema(), validate))
	add(build(conn, CategorySchema(), validate))
	add(build(conn, ProductSchema(), validate))
	add(build(conn, ProductDetailSchema(), validate))
	add(build(conn, ProductOfferSchema(), validate))
	add(build(conn, ReviewSchema(), validate))
	add(build(conn, FAQSchema(), validate))
	add(build(conn, PaymentGatewaySchema(), validate))
	add(build(conn, UserSchema(hasher), validate))
	add(build(conn, OrderSchema(), validate))

	if errs != nil {
		return nil, errs
	}
	return resource.NewRegistry(resources...)
}

func build[T any](conn *gorm.DB, schema resource.Schema[T], validate resource.VarValidator) (resource.Resource, error) {
	engine, err := resource.NewEngine(conn, schema, validate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema.Name, err)
	}
	return resource.Erase(engine), nil
}
