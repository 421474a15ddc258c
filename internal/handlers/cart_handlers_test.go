package handlers

import (
	"net/http"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (suite *APITestSuite) cartWith(items ...*models.Item) *models.Cart {
	cart := models.NewCart()
	for _, item := range items {
		require.NoError(suite.T(), cart.Add(item, 2))
	}
	return cart
}

func (suite *APITestSuite) taco() *models.Item {
	return &models.Item{ID: uuid.New(), FoodTruckID: suite.truckID, Name: "Taco", Slug: "taco-a1b2c3", Price: decimal.RequireFromString("3.50")}
}

func (suite *APITestSuite) TestGetCart() {
	key := caching.CartKey{Role: models.RoleCustomer, OwnerID: suite.customer.ID}
	suite.carts.On("GetCart", mock.Anything, key).Return(suite.cartWith(suite.taco()), nil).Once()

	rec := suite.do(http.MethodGet, "/v1/cart", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	body := suite.decode(rec)
	assert.Equal(suite.T(), "7", body["total"])
	assert.EqualValues(suite.T(), 2, body["item_count"])
	assert.Equal(suite.T(), suite.truckID.String(), body["food_truck_id"])
}

func (suite *APITestSuite) TestEmptyCartHasNoTruck() {
	key := caching.CartKey{Role: models.RoleStaff, OwnerID: suite.staff.ID, FoodTruckID: &suite.truckID}
	suite.carts.On("GetCart", mock.Anything, key).Return(models.NewCart(), nil).Once()

	rec := suite.do(http.MethodGet, "/v1/cart", nil, suite.staff)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Nil(suite.T(), suite.decode(rec)["food_truck_id"])
}

func (suite *APITestSuite) TestAddItemDefaultsToOne() {
	item := suite.taco()
	key := caching.CartKey{Role: models.RoleCustomer, OwnerID: suite.customer.ID}
	suite.carts.On("AddItem", mock.Anything, key, item.ID, 1).Return(suite.cartWith(item), nil).Once()

	rec := suite.do(http.MethodPost, "/v1/cart/items", AddCartItemRequest{ItemID: item.ID.String()}, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *APITestSuite) TestStaffAddsOnlyOwnTrucksItems() {
	itemID := uuid.New()
	key := caching.CartKey{Role: models.RoleStaff, OwnerID: suite.staff.ID, FoodTruckID: &suite.truckID}
	suite.carts.On("AddItem", mock.Anything, key, itemID, 1).Return(nil, common.ErrForbidden).Once()

	rec := suite.do(http.MethodPost, "/v1/cart/items", AddCartItemRequest{ItemID: itemID.String(), Quantity: 1}, suite.staff)

	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *APITestSuite) TestAddItemFromAnotherTruck() {
	itemID := uuid.New()
	suite.carts.On("AddItem", mock.Anything, mock.Anything, itemID, 3).Return(nil, common.ErrDifferentRestaurant).Once()

	rec := suite.do(http.MethodPost, "/v1/cart/items", AddCartItemRequest{ItemID: itemID.String(), Quantity: 3}, suite.customer)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "DIFFERENT_RESTAURANT", suite.errorCode(rec))
}

func (suite *APITestSuite) TestAddItemBadID() {
	rec := suite.do(http.MethodPost, "/v1/cart/items", AddCartItemRequest{ItemID: "taco"}, suite.customer)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestSetQuantityMissingLine() {
	itemID := uuid.New()
	suite.carts.On("SetQuantity", mock.Anything, mock.Anything, itemID, 4).Return(nil, common.ErrItemNotFound).Once()

	rec := suite.do(http.MethodPut, "/v1/cart/items/"+itemID.String(), SetQuantityRequest{Quantity: 4}, suite.customer)

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestRemoveAndClear() {
	item := suite.taco()
	key := caching.CartKey{Role: models.RoleCustomer, OwnerID: suite.customer.ID}
	suite.carts.On("RemoveItem", mock.Anything, key, item.ID).Return(models.NewCart(), nil).Once()
	suite.carts.On("ClearCart", mock.Anything, key).Return(nil).Once()

	rec := suite.do(http.MethodDelete, "/v1/cart/items/"+item.ID.String(), nil, suite.customer)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodDelete, "/v1/cart", nil, suite.customer)
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)
}

func (suite *APITestSuite) TestCartClosedToManagers() {
	rec := suite.do(http.MethodGet, "/v1/cart", nil, suite.manager)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}
