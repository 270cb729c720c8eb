package admin

import (
	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
)

func CategorySchema() resource.Schema[models.Category] {
	return resource.Schema[models.Category]{
		Name:  "categories",
		Label: "category",
		Fields: []resource.Field{
			{Name: "name", Kind: resource.KindString, Rules: "max=120", Required: true},
			{Name: "slug", Kind: resource.KindString, Rules: "max=140,slug", Required: true, Lower: true},
			{Name: "image", Kind: resource.KindString, Rules: "max=500", Nullable: true},
			{Name: "description", Kind: resource.KindString, Nullable: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"slug"}}},
		Filters: []resource.Filter{statusFilter()},
		Search:  []string{"name", "slug"},
	}
}

func ProductSchema() resource.Schema[models.Product] {
	return resource.Schema[models.Product]{
		Name:  "products",
		Label: "product",
		Fields: []resource.Field{
			{Name: "category_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "name", Kind: resource.KindString, Rules: "max=200", Required: true},
			{Name: "slug", Kind: resource.KindString, Rules: "max=220,slug", Required: true, Lower: true},
			{Name: "image", Kind: resource.KindString, Rules: "max=500", Nullable: true},
			{Name: "short_description", Kind: resource.KindString, Rules: "max=500", Nullable: true},
			{Name: "price", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			{Name: "original_price", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"slug"}}},
		Parents: []resource.Parent{{Field: "category_id", Table: "categories", Label: "category"}},
		Filters: []resource.Filter{statusFilter(), {Param: "category_id", Column: "category_id", Kind: resource.KindInt}},
		Search:  []string{"name", "slug"},
	}
}

func ProductDetailSchema() resource.Schema[models.ProductDetail] {
	return resource.Schema[models.ProductDetail]{
		Name:  "product-details",
		Label: "product detail",
		Fields: []resource.Field{
			{Name: "product_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "description", Kind: resource.KindString, Nullable: true},
			{Name: "ingredients", Kind: resource.KindString, Nullable: true},
			{Name: "benefits", Kind: resource.KindString, Nullable: true},
			{Name: "how_to_use", Kind: resource.KindString, Nullable: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"product_id"}}},
		Parents: []resource.Parent{{Field: "product_id", Table: "products", Label: "product"}},
		Filters: []resource.Filter{statusFilter(), {Param: "product_id", Column: "product_id", Kind: resource.KindInt}},
	}
}

func ProductOfferSchema() resource.Schema[models.ProductOffer] {
	return resource.Schema[models.ProductOffer]{
		Name:  "product-offers",
		Label: "product offer",
		Fields: []resource.Field{
			{Name: "product_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "quantity", Kind: resource.KindInt, Rules: "gt=0,lte=1000", Required: true},
			{Name: "unit_price", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			{Name: "label", Kind: resource.KindString, Rules: "max=120", Required: true},
			{Name: "secondary_label", Kind: resource.KindString, Rules: "max=120", Nullable: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"product_id", "quantity"}}},
		Parents: []resource.Parent{{Field: "product_id", Table: "products", Label: "product"}},
		Filters: []resource.Filter{statusFilter(), {Param: "product_id", Column: "product_id", Kind: resource.KindInt}},
		Search:  []string{"label"},
		Order:   "product_id ASC, quantity ASC",
	}
}

func ReviewSchema() resource.Schema[models.Review] {
	return resource.Schema[models.Review]{
		Name:  "reviews",
		Label: "review",
		Fields: []resource.Field{
			{Name: "product_id", Kind: resource.KindInt, Rules: "gt=0", Required: true},
			{Name: "user_name", Kind: resource.KindString, Rules: "max=120", Required: true},
			{Name: "rating", Kind: resource.KindInt, Rules: "min=0,max=5", Required: true},
			{Name: "comment", Kind: resource.KindString, Rules: "max=2000", Nullable: true},
			statusField(),
		},
		Parents: []resource.Parent{{Field: "product_id", Table: "products", Label: "product"}},
		Filters: []resource.Filter{
			statusFilter(),
			{Param: "product_id", Column: "product_id", Kind: resource.KindInt},
			{Param: "rating", Column: "rating", Kind: resource.KindInt},
		},
		Search: []string{"user_name", "comment"},
	}
}

func FAQSchema() resource.Schema[models.FAQ] {
	return resource.Schema[models.FAQ]{
		Name:  "faqs",
		Label: "faq",
		Fields: []resource.Field{
			{Name: "question", Kind: resource.KindString, Rules: "max=500", Required: true},
			{Name: "answer", Kind: resource.KindString, Required: true},
			{Name: "product_id", Kind: resource.KindInt, Rules: "gt=0", Nullable: true},
			{Name: "sort_order", Kind: resource.KindInt, Rules: "gte=0", Default: 0},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"question"}}},
		Parents: []resource.Parent{{Field: "product_id", Table: "products", Label: "product"}},
		Filters: []resource.Filter{statusFilter(), {Param: "product_id", Column: "product_id", Kind: resource.KindInt}},
		Search:  []string{"question", "answer"},
		Order:   "sort_order ASC, id DESC",
	}
}
