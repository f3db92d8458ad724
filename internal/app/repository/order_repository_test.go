package repository

import (
	"testing"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepo(t *testing.T) (OrderRepository, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return NewOrderRepository(database), database
}

func createOrder(t *testing.T, database *gorm.DB, userID uint, items ...model.OrderItem) *model.Order {
	t.Helper()

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	order := &model.Order{
		UserID:     userID,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
		Address:    "12 Main Street",
		Phone:      "555-0134",
		Username:   "alice",
		OrderItems: items,
	}
	require.NoError(t, database.Create(order).Error)
	return order
}

func TestOrderFindByID_PreloadsItemsAndProducts(t *testing.T) {
	repo, database := setupOrderRepo(t)
	user := createUser(t, database, "alice")
	product := createProduct(t, database, "Keyboard")

	created := createOrder(t, database, user.ID, model.OrderItem{
		ProductID: product.ID,
		Quantity:  2,
		Price:     10,
	})

	order, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Keyboard", order.OrderItems[0].Product.Name)
	assert.InDelta(t, 20, order.TotalPrice, 0.001)
}

func TestOrderFindByID_NotFound(t *testing.T) {
	repo, _ := setupOrderRepo(t)

	_, err := repo.FindByID(404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderFindByUserID_OnlyOwnOrders(t *testing.T) {
	repo, database := setupOrderRepo(t)
	alice := createUser(t, database, "alice")
	bob := createUser(t, database, "bob")
	product := createProduct(t, database, "Keyboard")

	createOrder(t, database, alice.ID, model.OrderItem{ProductID: product.ID, Quantity: 1, Price: 10})
	createOrder(t, database, bob.ID, model.OrderItem{ProductID: product.ID, Quantity: 2, Price: 10})

	orders, err := repo.FindByUserID(alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
}

func TestOrderFindAll_PreloadsUser(t *testing.T) {
	repo, database := setupOrderRepo(t)
	alice := createUser(t, database, "alice")
	bob := createUser(t, database, "bob")
	product := createProduct(t, database, "Keyboard")

	createOrder(t, database, alice.ID, model.OrderItem{ProductID: product.ID, Quantity: 1, Price: 10})
	createOrder(t, database, bob.ID, model.OrderItem{ProductID: product.ID, Quantity: 1, Price: 10})

	orders, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.NotEmpty(t, order.User.Username)
	}
}

func TestFindItemsByOrderID(t *testing.T) {
	repo, database := setupOrderRepo(t)
	user := createUser(t, database, "alice")
	keyboard := createProduct(t, database, "Keyboard")
	mouse := createProduct(t, database, "Mouse")

	created := createOrder(t, database, user.ID,
		model.OrderItem{ProductID: keyboard.ID, Quantity: 1, Price: 49.90},
		model.OrderItem{ProductID: mouse.ID, Quantity: 2, Price: 19.90},
	)

	items, err := repo.FindItemsByOrderID(created.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Keyboard", items[0].Product.Name)
	assert.Equal(t, "Mouse", items[1].Product.Name)
}
