package service

import (
	"testing"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartService(t *testing.T) (CartService, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	cartRepo := repository.NewCartRepository(database)
	productRepo := repository.NewProductRepository(database)
	return NewCartService(cartRepo, productRepo), database
}

func seedUser(t *testing.T, database *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, database *gorm.DB, name string, price float64) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:  name,
		Price: price,
		Stock: 100,
	}
	require.NoError(t, database.Create(product).Error)
	return product
}

func TestAddToCart_NewItem(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	product := seedProduct(t, database, "Keyboard", 49.90)

	err := svc.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, product.Name, items[0].Product.Name)
}

func TestAddToCart_MergesQuantityForSameProduct(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	product := seedProduct(t, database, "Keyboard", 49.90)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, svc.AddToCart(user.ID, product.ID, 3))

	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1, "repeated adds must consolidate into one line")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddToCart_KeepsDistinctProductsSeparate(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	keyboard := seedProduct(t, database, "Keyboard", 49.90)
	mouse := seedProduct(t, database, "Mouse", 19.90)

	require.NoError(t, svc.AddToCart(user.ID, keyboard.ID, 1))
	require.NoError(t, svc.AddToCart(user.ID, mouse.ID, 4))
	require.NoError(t, svc.AddToCart(user.ID, keyboard.ID, 1))

	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	quantities := map[uint]int{}
	for _, item := range items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 2, quantities[keyboard.ID])
	assert.Equal(t, 4, quantities[mouse.ID])
}

func TestAddToCart_IsolatesUsers(t *testing.T) {
	svc, database := setupCartService(t)
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	product := seedProduct(t, database, "Keyboard", 49.90)

	require.NoError(t, svc.AddToCart(alice.ID, product.ID, 2))
	require.NoError(t, svc.AddToCart(bob.ID, product.ID, 7))

	aliceItems, err := svc.GetCartItems(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceItems, 1)
	assert.Equal(t, 2, aliceItems[0].Quantity)

	bobItems, err := svc.GetCartItems(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobItems, 1)
	assert.Equal(t, 7, bobItems[0].Quantity)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	product := seedProduct(t, database, "Keyboard", 49.90)

	tests := []struct {
		name     string
		quantity int
	}{
		{name: "zero", quantity: 0},
		{name: "negative", quantity: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddToCart(user.ID, product.ID, tt.quantity)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		})
	}

	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")

	err := svc.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetCartItems_EmptyCart(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")

	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveFromCart_DeletesLine(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	product := seedProduct(t, database, "Keyboard", 49.90)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 2))
	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.RemoveFromCart(user.ID, items[0].ID))

	items, err = svc.GetCartItems(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveFromCart_IsIdempotent(t *testing.T) {
	svc, database := setupCartService(t)
	user := seedUser(t, database, "alice")
	product := seedProduct(t, database, "Keyboard", 49.90)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 2))
	items, err := svc.GetCartItems(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.RemoveFromCart(user.ID, items[0].ID))
	assert.NoError(t, svc.RemoveFromCart(user.ID, items[0].ID), "deleting an already-deleted line must succeed")
}

func TestRemoveFromCart_RejectsForeignLine(t *testing.T) {
	svc, database := setupCartService(t)
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	product := seedProduct(t, database, "Keyboard", 49.90)

	require.NoError(t, svc.AddToCart(alice.ID, product.ID, 2))
	items, err := svc.GetCartItems(alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = svc.RemoveFromCart(bob.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	items, err = svc.GetCartItems(alice.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "a foreign delete attempt must not touch the owner's line")
}
