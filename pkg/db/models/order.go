package models

import (
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PaymentGateway stores the public configuration of a checkout provider.
type PaymentGateway struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"column:name;not null" json:"name"`
	Code      string            `gorm:"column:code;not null;uniqueIndex" json:"code"`
	PublicKey *string           `gorm:"column:public_key" json:"public_key"`
	Mode      enums.GatewayMode `gorm:"column:mode;not null;default:test" json:"mode"`
	Status    enums.Status      `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Order is an administrative record; no workflow runs against it.
type Order struct {
	ID               int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	UserID           *int64              `gorm:"column:user_id;index" json:"user_id"`
	CustomerName     string              `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerEmail    string              `gorm:"column:customer_email;not null" json:"customer_email"`
	Phone            *string             `gorm:"column:phone" json:"phone"`
	Address          *string             `gorm:"column:address" json:"address"`
	Pincode          *string             `gorm:"column:pincode" json:"pincode"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	PaymentGatewayID *int64              `gorm:"column:payment_gateway_id;index" json:"payment_gateway_id"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:pending" json:"payment_status"`
	Status           enums.OrderStatus   `gorm:"column:status;not null;default:pending" json:"status"`
	User             *User               `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	PaymentGateway   *PaymentGateway     `gorm:"foreignKey:PaymentGatewayID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
