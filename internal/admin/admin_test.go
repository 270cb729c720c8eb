package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "argon:" + password, nil
}

func newRegistry(t *testing.T) (*resource.Registry, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	reg, err := NewRegistry(conn, validators.ValidateVar, fakeHasher{})
	require.NoError(t, err)
	return reg, conn
}

func lookup(t *testing.T, reg *resource.Registry, name string) resource.Resource {
	t.Helper()
	res, ok := reg.Lookup(name)
	require.True(t, ok, "resource %s not registered", name)
	return res
}

func codeOf(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return ""
}

func TestRegistryCoversEveryResource(t *testing.T) {
	reg, _ := newRegistry(t)
	names := []string{}
	for _, res := range reg.All() {
		names = append(names, res.Name())
	}
	assert.Equal(t, []string{
		"countries", "states", "cities", "pincodes", "shipping-rates",
		"categories", "products", "product-details", "product-offers", "reviews", "faqs",
		"payment-gateways", "users", "orders",
	}, names)
}

func TestCategoryDuplicateSlug(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()
	categories := lookup(t, reg, "categories")

	created, err := categories.Create(ctx, map[string]any{"name": "Tonics", "slug": "tonic"})
	require.NoError(t, err)
	first := created.(*models.Category)

	_, err = categories.Create(ctx, map[string]any{"name": "Other Tonics", "slug": "tonic"})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))

	loaded, err := categories.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tonics", loaded.(*models.Category).Name)
}

func TestGeographyHierarchy(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()

	india, err := lookup(t, reg, "countries").Create(ctx, map[string]any{"name": "India", "iso_code": "IN", "phone_code": 91})
	require.NoError(t, err)
	nepal, err := lookup(t, reg, "countries").Create(ctx, map[string]any{"name": "Nepal"})
	require.NoError(t, err)
	indiaID := india.(*models.Country).ID
	nepalID := nepal.(*models.Country).ID
	assert.Equal(t, "91", *india.(*models.Country).PhoneCode)

	states := lookup(t, reg, "states")
	_, err = states.Create(ctx, map[string]any{"country_id": indiaID, "name": "Kerala"})
	require.NoError(t, err)
	_, err = states.Create(ctx, map[string]any{"country_id": nepalID, "name": "Kerala"})
	require.NoError(t, err, "state names are unique per country")
	_, err = states.Create(ctx, map[string]any{"country_id": indiaID, "name": "Kerala"})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))
	_, err = states.Create(ctx, map[string]any{"country_id": 999, "name": "Goa"})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))

	_, err = lookup(t, reg, "countries").Create(ctx, map[string]any{"name": "Sri Lanka", "iso_code": "LKAX"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))
}

func TestPincodeAndShippingRules(t *testing.T) {
	reg, conn := newRegistry(t)
	ctx := context.Background()

	country := models.Country{Name: "India", Status: "active"}
	require.NoError(t, conn.Create(&country).Error)
	state := models.State{CountryID: country.ID, Name: "Karnataka", Status: "active"}
	require.NoError(t, conn.Create(&state).Error)
	city := models.City{StateID: state.ID, Name: "Bengaluru", Status: "active"}
	require.NoError(t, conn.Create(&city).Error)

	pincodes := lookup(t, reg, "pincodes")
	created, err := pincodes.Create(ctx, map[string]any{"city_id": city.ID, "code": json.Number("560001")})
	require.NoError(t, err)
	assert.True(t, created.(*models.Pincode).DeliveryAvailable)

	_, err = pincodes.Create(ctx, map[string]any{"city_id": city.ID, "code": "56A001"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))
	_, err = pincodes.Create(ctx, map[string]any{"city_id": city.ID, "code": "123"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	rates := lookup(t, reg, "shipping-rates")
	_, err = rates.Create(ctx, map[string]any{"country_id": country.ID, "name": "Standard", "min_amount": 1000, "max_amount": 500, "charge": 49})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	rate, err := rates.Create(ctx, map[string]any{"country_id": country.ID, "name": "Standard", "min_amount": 0, "max_amount": 999.99, "charge": 49})
	require.NoError(t, err)
	_, err = rates.Update(ctx, rate.(*models.ShippingRate).ID, map[string]any{"min_amount": 1500})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err), "checks run on the merged record")
}

func TestReviewRatingBounds(t *testing.T) {
	reg, conn := newRegistry(t)
	ctx := context.Background()

	category := models.Category{Name: "Churna", Slug: "churna", Status: "active"}
	require.NoError(t, conn.Create(&category).Error)
	product, err := lookup(t, reg, "products").Create(ctx, map[string]any{
		"category_id": category.ID, "name": "Triphala", "slug": "triphala", "price": "1199", "original_price": "1599",
	})
	require.NoError(t, err)
	productID := product.(*models.Product).ID

	reviews := lookup(t, reg, "reviews")
	_, err = reviews.Create(ctx, map[string]any{"product_id": productID, "user_name": "Asha", "rating": 6})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))
	_, err = reviews.Create(ctx, map[string]any{"product_id": productID, "user_name": "Asha", "rating": 0})
	require.NoError(t, err)

	offers := lookup(t, reg, "product-offers")
	_, err = offers.Create(ctx, map[string]any{"product_id": productID, "quantity": 3, "unit_price": 899, "label": "Buy 3"})
	require.NoError(t, err)
	_, err = offers.Create(ctx, map[string]any{"product_id": productID, "quantity": 3, "unit_price": 850, "label": "Buy 3 again"})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))
	_, err = offers.Create(ctx, map[string]any{"product_id": productID, "quantity": 0, "unit_price": 850, "label": "Zero"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	faqs := lookup(t, reg, "faqs")
	_, err = faqs.Create(ctx, map[string]any{"question": "Is it vegan?", "answer": "Yes."})
	require.NoError(t, err, "faq product is optional")
	_, err = faqs.Create(ctx, map[string]any{"question": "Dosage?", "answer": "One spoon.", "product_id": 404})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))
}

func TestUserPasswordIsWriteOnly(t *testing.T) {
	reg, conn := newRegistry(t)
	ctx := context.Background()
	users := lookup(t, reg, "users")

	_, err := users.Create(ctx, map[string]any{"name": "Meera", "email": "meera@example.com", "password": "short"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	created, err := users.Create(ctx, map[string]any{"name": "Meera", "email": "Meera@Example.com", "password": "long-enough-pw"})
	require.NoError(t, err)
	user := created.(*models.User)
	assert.Equal(t, "meera@example.com", user.Email)
	assert.Equal(t, "user", string(user.Role))
	assert.Equal(t, "not_block", string(user.Status))

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "argon:")

	var stored models.User
	require.NoError(t, conn.First(&stored, user.ID).Error)
	assert.Equal(t, "argon:long-enough-pw", stored.PasswordHash)

	updated, err := users.Update(ctx, user.ID, map[string]any{"status": "block"})
	require.NoError(t, err)
	assert.Equal(t, "argon:long-enough-pw", updated.(*models.User).PasswordHash, "hash kept when password omitted")

	_, err = users.Update(ctx, user.ID, map[string]any{"password": "rotated-password"})
	require.NoError(t, err)
	require.NoError(t, conn.First(&stored, user.ID).Error)
	assert.Equal(t, "argon:rotated-password", stored.PasswordHash)

	_, err = users.Create(ctx, map[string]any{"name": "Dup", "email": "meera@example.com", "password": "long-enough-pw"})
	assert.Equal(t, pkgerrors.CodeConflict, codeOf(err))
}

func TestOrderOptionalParents(t *testing.T) {
	reg, _ := newRegistry(t)
	ctx := context.Background()
	orders := lookup(t, reg, "orders")

	created, err := orders.Create(ctx, map[string]any{
		"order_number": "AYR-1001", "customer_name": "Ravi", "customer_email": "ravi@example.com", "total_amount": "2697.00",
	})
	require.NoError(t, err)
	order := created.(*models.Order)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "pending", string(order.PaymentStatus))

	_, err = orders.Create(ctx, map[string]any{
		"order_number": "AYR-1002", "customer_name": "Ravi", "customer_email": "ravi@example.com", "total_amount": 10, "user_id": 77,
	})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(err))

	_, err = orders.Create(ctx, map[string]any{
		"order_number": "AYR-1003", "customer_name": "Ravi", "customer_email": "ravi@example.com", "total_amount": -1,
	})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))

	_, err = orders.Update(ctx, order.ID, map[string]any{"status": "teleported"})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(err))
}
