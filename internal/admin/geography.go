package admin

import (
	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
)

func statusField() resource.Field {
	return resource.Field{Name: "status", Kind: resource.KindString, Rules: enums.StatusRule, Default: string(enums.StatusActive), Lower: true}
}

func statusFilter() resource.Filter {
	return resource.Filter{Param: "status", Column: "status", Kind: resource.KindString}
}

func CountrySchema() resource.Schema[models.Country] {
	return resource.Schema[models.Country]{
		Name:  "countries",
		Label: "country",
		Fields: []resource.Field{
			{Name: "name", Kind: resource.KindString, Rules: "max=100", Required: true},
			{Name: "iso_code", Kind: resource.KindString, Rules: models.CountryISORule, Nullable: true},
			{Name: "phone_code", Kind: resource.KindString, Rules: "max=8", Nullable: true, AcceptNumbers: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"name"}}},
		Filters: []resource.Filter{statusFilter()},
		Search:  []string{"name", "iso_code"},
	}
}

func StateSchema() resource.Schema[models.State] {
	return resource.Schema[models.State]{
		Name:  "states",
		Label: "state",
		Fields: []resource.Field{
			{Name: "country_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "name", Kind: resource.KindString, Rules: "max=100", Required: true},
			{Name: "code", Kind: resource.KindString, Rules: "max=10", Nullable: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"country_id", "name"}}},
		Parents: []resource.Parent{{Field: "country_id", Table: "countries", Label: "country"}},
		Filters: []resource.Filter{statusFilter(), {Param: "country_id", Column: "country_id", Kind: resource.KindInt}},
		Search:  []string{"name", "code"},
	}
}

func CitySchema() resource.Schema[models.City] {
	return resource.Schema[models.City]{
		Name:  "cities",
		Label: "city",
		Fields: []resource.Field{
			{Name: "state_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "name", Kind: resource.KindString, Rules: "max=100", Required: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"state_id", "name"}}},
		Parents: []resource.Parent{{Field: "state_id", Table: "states", Label: "state"}},
		Filters: []resource.Filter{statusFilter(), {Param: "state_id", Column: "state_id", Kind: resource.KindInt}},
		Search:  []string{"name"},
	}
}

func PincodeSchema() resource.Schema[models.Pincode] {
	return resource.Schema[models.Pincode]{
		Name:  "pincodes",
		Label: "pincode",
		Fields: []resource.Field{
			{Name: "city_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "code", Kind: resource.KindString, Rules: "digits,min=4,max=10", Required: true, AcceptNumbers: true},
			{Name: "delivery_available", Kind: resource.KindBool, Default: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"code"}}},
		Parents: []resource.Parent{{Field: "city_id", Table: "cities", Label: "city"}},
		Filters: []resource.Filter{
			statusFilter(),
			{Param: "city_id", Column: "city_id", Kind: resource.KindInt},
			{Param: "delivery_available", Column: "delivery_available", Kind: resource.KindBool},
		},
		Search: []string{"code"},
	}
}

func ShippingRateSchema() resource.Schema[models.ShippingRate] {
	return resource.Schema[models.ShippingRate]{
		Name:  "shipping-rates",
		Label: "shipping rate",
		Fields: []resource.Field{
			{Name: "country_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "name", Kind: resource.KindString, Rules: "max=100", Required: true},
			{Name: "min_amount", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			{Name: "max_amount", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			{Name: "charge", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"country_id", "name"}}},
		Parents: []resource.Parent{{Field: "country_id", Table: "countries", Label: "country"}},
		Checks:  []resource.Check{amountRange},
		Filters: []resource.Filter{statusFilter(), {Param: "country_id", Column: "country_id", Kind: resource.KindInt}},
		Search:  []string{"name"},
	}
}

func amountRange(v resource.Values) error {
	lo, okLo := v.Decimal("min_amount")
	hi, okHi := v.Decimal("max_amount")
	if okLo && okHi && lo.GreaterThan(hi) {
		return pkgerrors.Validation("min_amount", "must not exceed max_amount")
	}
	return nil
}
