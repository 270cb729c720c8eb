package admin

import (
	"context"

	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
)

// PasswordHasher hashes write-only passwords before they are stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

func UserSchema(hasher PasswordHasher) resource.Schema[models.User] {
	return resource.Schema[models.User]{
		Name:  "users",
		Label: "user",
		Fields: []resource.Field{
			{Name: "name", Kind: resource.KindString, Rules: "max=120", Required: true},
			{Name: "email", Kind: resource.KindString, Rules: "max=254,email", Required: true, Lower: true},
			{Name: "phone", Kind: resource.KindString, Rules: "max=20", Nullable: true, AcceptNumbers: true},
			{Name: "password", Kind: resource.KindString, Rules: "min=8,max=128", Required: true, WriteOnly: true},
			{Name: "role", Kind: resource.KindString, Rules: enums.UserRoleRule, Default: string(enums.UserRoleUser), Lower: true},
			{Name: "status", Kind: resource.KindString, Rules: enums.UserStatusRule, Default: string(enums.UserStatusNotBlocked), Lower: true},
		},
		Unique: []resource.Unique{{Fields: []string{"email"}}},
		Filters: []resource.Filter{
			{Param: "role", Column: "role", Kind: resource.KindString},
			{Param: "status", Column: "status", Kind: resource.KindString},
		},
		Search: []string{"name", "email", "phone"},
		Mutate: func(_ context.Context, user *models.User, values resource.Values, _ bool) error {
			if !values.Has("password") {
				return nil
			}
			hash, err := hasher.Hash(user.Password)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			user.PasswordHash = hash
			user.Password = ""
			return nil
		},
	}
}

func PaymentGatewaySchema() resource.Schema[models.PaymentGateway] {
	return resource.Schema[models.PaymentGateway]{
		Name:  "payment-gateways",
		Label: "payment gateway",
		Fields: []resource.Field{
			{Name: "name", Kind: resource.KindString, Rules: "max=100", Required: true},
			{Name: "code", Kind: resource.KindString, Rules: "max=50,slug", Required: true, Lower: true},
			{Name: "public_key", Kind: resource.KindString, Rules: "max=255", Nullable: true},
			{Name: "mode", Kind: resource.KindString, Rules: enums.GatewayModeRule, Default: string(enums.GatewayModeTest), Lower: true},
			statusField(),
		},
		Unique:  []resource.Unique{{Fields: []string{"code"}}},
		Filters: []resource.Filter{statusFilter(), {Param: "mode", Column: "mode", Kind: resource.KindString}},
		Search:  []string{"name", "code"},
	}
}

func OrderSchema() resource.Schema[models.Order] {
	return resource.Schema[models.Order]{
		Name:  "orders",
		Label: "order",
		Fields: []resource.Field{
			{Name: "order_number", Kind: resource.KindString, Rules: "max=40", Required: true, AcceptNumbers: true},
			{Name: "user_id", Kind: resource.KindInt, Rules: "gt=0", Nullable: true},
			{Name: "customer_name", Kind: resource.KindString, Rules: "max=120", Required: true},
			{Name: "customer_email", Kind: resource.KindString, Rules: "max=254,email", Required: true, Lower: true},
			{Name: "phone", Kind: resource.KindString, Rules: "max=20", Nullable: true, AcceptNumbers: true},
			{Name: "address", Kind: resource.KindString, Rules: "max=1000", Nullable: true},
			{Name: "pincode", Kind: resource.KindString, Rules: "digits,min=4,max=10", Nullable: true, AcceptNumbers: true},
			{Name: "total_amount", Kind: resource.KindDecimal, Rules: "gte=0", Required: true},
			{Name: "payment_gateway_id", Kind: resource.KindInt, Rules: "gt=0", Nullable: true},
			{Name: "payment_status", Kind: resource.KindString, Rules: enums.PaymentStatusRule, Default: string(enums.PaymentStatusPending), Lower: true},
			{Name: "status", Kind: resource.KindString, Rules: enums.OrderStatusRule, Default: string(enums.OrderStatusPending), Lower: true},
		},
		Unique: []resource.Unique{{Fields: []string{"order_number"}}},
		Parents: []resource.Parent{
			{Field: "user_id", Table: "users", Label: "user"},
			{Field: "payment_gateway_id", Table: "payment_gateways", Label: "payment gateway"},
		},
		Filters: []resource.Filter{
			{Param: "status", Column: "status", Kind: resource.KindString},
			{Param: "payment_status", Column: "payment_status", Kind: resource.KindString},
			{Param: "user_id", Column: "user_id", Kind: resource.KindInt},
		},
		Search: []string{"order_number", "customer_name", "customer_email"},
	}
}
