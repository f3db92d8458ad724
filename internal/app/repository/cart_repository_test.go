package repository

import (
	"testing"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepo(t *testing.T) (CartRepository, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return NewCartRepository(database), database
}

func createUser(t *testing.T, database *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func createProduct(t *testing.T, database *gorm.DB, name string) *model.Product {
	t.Helper()

	product := &model.Product{Name: name, Price: 10, Stock: 50}
	require.NoError(t, database.Create(product).Error)
	return product
}

func TestGetOrCreateCart_ReusesExisting(t *testing.T) {
	repo, database := setupCartRepo(t)
	user := createUser(t, database, "alice")

	first, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a user must own exactly one cart")

	var count int64
	require.NoError(t, database.Model(&model.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateCart_SurvivesConcurrentInsert(t *testing.T) {
	repo, database := setupCartRepo(t)
	user := createUser(t, database, "alice")

	// Another request wins the insert between our miss and our create.
	existing := &model.Cart{UserID: user.ID}
	require.NoError(t, database.Create(existing).Error)

	cart, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, cart.ID)
}

func TestAddOrIncrementItem_InsertsThenMerges(t *testing.T) {
	repo, database := setupCartRepo(t)
	user := createUser(t, database, "alice")
	product := createProduct(t, database, "Keyboard")

	cart, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.AddOrIncrementItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
	}))
	require.NoError(t, repo.AddOrIncrementItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  5,
	}))

	var items []model.CartItem
	require.NoError(t, database.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestFindItemsByUserID_PreloadsProduct(t *testing.T) {
	repo, database := setupCartRepo(t)
	user := createUser(t, database, "alice")
	product := createProduct(t, database, "Keyboard")

	cart, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddOrIncrementItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  3,
	}))

	items, err := repo.FindItemsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Keyboard", items[0].Product.Name)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestDeleteItem_ReportsRowsAffected(t *testing.T) {
	repo, database := setupCartRepo(t)
	user := createUser(t, database, "alice")
	product := createProduct(t, database, "Keyboard")

	cart, err := repo.GetOrCreateCart(user.ID)
	require.NoError(t, err)

	item := &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, repo.AddOrIncrementItem(item))

	items, err := repo.FindItemsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	rows, err := repo.DeleteItem(items[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.DeleteItem(items[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}
