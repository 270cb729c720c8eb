package models

import (
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	Slug        string       `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Image       *string      `gorm:"column:image" json:"image"`
	Description *string      `gorm:"column:description" json:"description"`
	Status      enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Product is a sellable remedy. Price is the single-unit price; OriginalPrice is the
// struck-through reference used for discount percentages.
type Product struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CategoryID       int64           `gorm:"column:category_id;not null;index" json:"category_id"`
	Name             string          `gorm:"column:name;not null" json:"name"`
	Slug             string          `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Image            *string         `gorm:"column:image" json:"image"`
	ShortDescription *string         `gorm:"column:short_description" json:"short_description"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	OriginalPrice    decimal.Decimal `gorm:"column:original_price;type:numeric(12,2);not null" json:"original_price"`
	Status           enums.Status    `gorm:"column:status;not null;default:active" json:"status"`
	Category         *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type ProductDetail struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   int64        `gorm:"column:product_id;not null;uniqueIndex" json:"product_id"`
	Description *string      `gorm:"column:description" json:"description"`
	Ingredients *string      `gorm:"column:ingredients" json:"ingredients"`
	Benefits    *string      `gorm:"column:benefits" json:"benefits"`
	HowToUse    *string      `gorm:"column:how_to_use" json:"how_to_use"`
	Status      enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	Product     *Product     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ProductOffer is a quantity pack: Quantity units sold at UnitPrice each.
type ProductOffer struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID      int64           `gorm:"column:product_id;not null;uniqueIndex:idx_product_offers_product_quantity" json:"product_id"`
	Quantity       int             `gorm:"column:quantity;not null;uniqueIndex:idx_product_offers_product_quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Label          string          `gorm:"column:label;not null" json:"label"`
	SecondaryLabel *string         `gorm:"column:secondary_label" json:"secondary_label"`
	Status         enums.Status    `gorm:"column:status;not null;default:active" json:"status"`
	Product        *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type Review struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID int64        `gorm:"column:product_id;not null;index" json:"product_id"`
	UserName  string       `gorm:"column:user_name;not null" json:"user_name"`
	Rating    int          `gorm:"column:rating;not null" json:"rating"`
	Comment   *string      `gorm:"column:comment" json:"comment"`
	Status    enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	Product   *Product     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// FAQ entries without a product are shown site-wide.
type FAQ struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Question  string       `gorm:"column:question;not null;uniqueIndex" json:"question"`
	Answer    string       `gorm:"column:answer;not null" json:"answer"`
	ProductID *int64       `gorm:"column:product_id;index" json:"product_id"`
	SortOrder int          `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	Status    enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	Product   *Product     `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}
