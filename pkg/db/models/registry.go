package models

// All lists every table model in dependency order, parents first.
func All() []any {
	return []any{
		&Country{},
		&State{},
		&City{},
		&Pincode{},
		&ShippingRate{},
		&Category{},
		&Product{},
		&ProductDetail{},
		&ProductOffer{},
		&Review{},
		&FAQ{},
		&PaymentGateway{},
		&User{},
		&Order{},
	}
}
