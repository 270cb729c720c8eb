package models

import (
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Country is the root of the shipping geography.
// CountryISORule is the validator tag for country iso codes.
const CountryISORule = "max=3,alpha"

type Country struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string       `gorm:"column:name;not null;uniqueIndex" json:"name"`
	ISOCode   *string      `gorm:"column:iso_code;size:3" json:"iso_code"`
	PhoneCode *string      `gorm:"column:phone_code" json:"phone_code"`
	Status    enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type State struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CountryID int64        `gorm:"column:country_id;not null;uniqueIndex:idx_states_country_name" json:"country_id"`
	Name      string       `gorm:"column:name;not null;uniqueIndex:idx_states_country_name" json:"name"`
	Code      *string      `gorm:"column:code" json:"code"`
	Status    enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	Country   *Country     `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type City struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StateID   int64        `gorm:"column:state_id;not null;uniqueIndex:idx_cities_state_name" json:"state_id"`
	Name      string       `gorm:"column:name;not null;uniqueIndex:idx_cities_state_name" json:"name"`
	Status    enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	State     *State       `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Pincode is a deliverable postal code inside a city.
type Pincode struct {
	ID                int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID            int64        `gorm:"column:city_id;not null;index" json:"city_id"`
	Code              string       `gorm:"column:code;not null;uniqueIndex" json:"code"`
	DeliveryAvailable bool         `gorm:"column:delivery_available;not null;default:true" json:"delivery_available"`
	Status            enums.Status `gorm:"column:status;not null;default:active" json:"status"`
	City              *City        `gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt         time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ShippingRate charges a flat fee for order amounts within [MinAmount, MaxAmount].
type ShippingRate struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CountryID int64           `gorm:"column:country_id;not null;uniqueIndex:idx_shipping_rates_country_name" json:"country_id"`
	Name      string          `gorm:"column:name;not null;uniqueIndex:idx_shipping_rates_country_name" json:"name"`
	MinAmount decimal.Decimal `gorm:"column:min_amount;type:numeric(12,2);not null" json:"min_amount"`
	MaxAmount decimal.Decimal `gorm:"column:max_amount;type:numeric(12,2);not null" json:"max_amount"`
	Charge    decimal.Decimal `gorm:"column:charge;type:numeric(12,2);not null" json:"charge"`
	Status    enums.Status    `gorm:"column:status;not null;default:active" json:"status"`
	Country   *Country        `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
