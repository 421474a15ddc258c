package handlers

import (
	"net/http"
	"time"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) pendingOrder(customerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		FoodTruckID: suite.truckID,
		Type:        models.OrderTypePickup,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}
}

func (suite *APITestSuite) TestPlaceOrderClearsCart() {
	item := suite.taco()
	key := caching.CartKey{Role: models.RoleCustomer, OwnerID: suite.customer.ID}
	order := suite.pendingOrder(suite.customer.ID)
	wantPickup := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)

	suite.carts.On("GetCart", mock.Anything, key).Return(suite.cartWith(item), nil).Once()
	suite.orders.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(r services.PlaceOrderRequest) bool {
		return r.CustomerID == suite.customer.ID &&
			r.PlacedByID == nil &&
			len(r.Lines) == 1 && r.Lines[0] == models.OrderLine{ItemID: item.ID, Quantity: 2} &&
			r.Type == models.OrderTypePickup &&
			r.PaymentMethod == models.PaymentMethodWallet &&
			r.PickupDateTime != nil && r.PickupDateTime.Equal(wantPickup) &&
			r.Amount != nil && r.Amount.Equal(decimal.NewFromInt(7))
	})).Return(order, nil).Once()
	suite.carts.On("ClearCart", mock.Anything, key).Return(nil).Once()

	amount := decimal.NewFromInt(7)
	rec := suite.do(http.MethodPost, "/v1/orders", CheckoutRequest{
		OrderType:     "pickup",
		PaymentMethod: "wallet",
		PickupDate:    "2026-03-02",
		PickupTime:    "12:30",
		Amount:        &amount,
	}, suite.customer)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(suite.T(), order.ID.String(), suite.decode(rec)["id"])
}

func (suite *APITestSuite) TestPlaceOrderInsufficientFundsKeepsCart() {
	key := caching.CartKey{Role: models.RoleCustomer, OwnerID: suite.customer.ID}
	suite.carts.On("GetCart", mock.Anything, key).Return(suite.cartWith(suite.taco()), nil).Once()
	suite.orders.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, common.ErrInsufficientFunds).Once()

	rec := suite.do(http.MethodPost, "/v1/orders", CheckoutRequest{OrderType: "DELIVERY", PaymentMethod: "WALLET"}, suite.customer)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(suite.T(), "INSUFFICIENT_FUNDS", suite.errorCode(rec))
	suite.carts.AssertNotCalled(suite.T(), "ClearCart", mock.Anything, mock.Anything)
}

func (suite *APITestSuite) TestPlaceOrderNeedsBothPickupFields() {
	rec := suite.do(http.MethodPost, "/v1/orders", CheckoutRequest{OrderType: "PICKUP", PaymentMethod: "CASH", PickupDate: "2026-03-02"}, suite.customer)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", suite.errorCode(rec))
}

func (suite *APITestSuite) TestStaffPlacesOrderForCustomer() {
	customerID := uuid.New()
	key := caching.CartKey{Role: models.RoleStaff, OwnerID: suite.staff.ID, FoodTruckID: &suite.truckID}
	order := suite.pendingOrder(customerID)
	order.PlacedByID = &suite.staff.ID

	suite.carts.On("GetCart", mock.Anything, key).Return(suite.cartWith(suite.taco()), nil).Once()
	suite.orders.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(r services.PlaceOrderRequest) bool {
		return r.CustomerID == customerID && r.PlacedByID != nil && *r.PlacedByID == suite.staff.ID &&
			r.PlacedAtTruck != nil && *r.PlacedAtTruck == suite.truckID &&
			r.PaymentMethod == models.PaymentMethodCash
	})).Return(order, nil).Once()
	suite.carts.On("ClearCart", mock.Anything, key).Return(nil).Once()

	rec := suite.do(http.MethodPost, "/v1/staff/customers/"+customerID.String()+"/orders",
		CheckoutRequest{OrderType: "DELIVERY", PaymentMethod: "CASH"}, suite.staff)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(suite.T(), suite.staff.ID.String(), suite.decode(rec)["placed_by_id"])
}

func (suite *APITestSuite) TestStaffCheckoutForAnotherTrucksCart() {
	key := caching.CartKey{Role: models.RoleStaff, OwnerID: suite.staff.ID, FoodTruckID: &suite.truckID}
	suite.carts.On("GetCart", mock.Anything, key).Return(suite.cartWith(suite.taco()), nil).Once()
	suite.orders.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, common.ErrForbidden).Once()

	rec := suite.do(http.MethodPost, "/v1/staff/customers/"+uuid.NewString()+"/orders",
		CheckoutRequest{OrderType: "DELIVERY", PaymentMethod: "WALLET"}, suite.staff)

	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	suite.carts.AssertNotCalled(suite.T(), "ClearCart", mock.Anything, mock.Anything)
}

func (suite *APITestSuite) TestOnlyStaffUseStaffCheckout() {
	for _, user := range []*models.User{suite.customer, suite.manager} {
		rec := suite.do(http.MethodPost, "/v1/staff/customers/"+uuid.NewString()+"/orders", CheckoutRequest{}, user)
		assert.Equal(suite.T(), http.StatusForbidden, rec.Code, string(user.Role))
	}

	suite.users.On("SearchCustomers", mock.Anything, "", 50, 0).Return([]*models.User{}, nil).Once()
	rec := suite.do(http.MethodGet, "/v1/staff/customers", nil, suite.manager)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *APITestSuite) TestListOrders() {
	suite.orders.On("ListCustomerOrders", mock.Anything, suite.customer.ID, 5, 0).
		Return([]*models.Order{suite.pendingOrder(suite.customer.ID)}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders?limit=5", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.EqualValues(suite.T(), 1, suite.decode(rec)["count"])
}

func (suite *APITestSuite) TestGetOrderHiddenFromOthers() {
	id := uuid.New()
	suite.orders.On("GetOrder", mock.Anything, actorOf(suite.customer), id).Return(nil, common.ErrOrderNotFound).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String(), nil, suite.customer)

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "ORDER_NOT_FOUND", suite.errorCode(rec))
}

func (suite *APITestSuite) TestCancelOrder() {
	order := suite.pendingOrder(suite.customer.ID)
	order.Status = models.OrderStatusCancelled
	suite.orders.On("CancelOrder", mock.Anything, actorOf(suite.customer), order.ID).Return(order, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/orders/"+order.ID.String()+"/cancel", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "CANCELLED", suite.decode(rec)["status"])
}

func (suite *APITestSuite) TestFeedbackTwice() {
	id := uuid.New()
	suite.orders.On("AddFeedback", mock.Anything, actorOf(suite.customer), id, "great tacos").Return(nil, common.ErrFeedbackExists).Once()

	rec := suite.do(http.MethodPut, "/v1/orders/"+id.String()+"/feedback", FeedbackRequest{Feedback: "great tacos"}, suite.customer)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "FEEDBACK_EXISTS", suite.errorCode(rec))
}

func (suite *APITestSuite) TestDownloadReceipt() {
	order := suite.pendingOrder(suite.customer.ID)
	order.Items = []*models.OrderItem{{ItemName: "Taco", UnitPrice: decimal.RequireFromString("3.50"), Quantity: 2}}
	order.Invoice = &models.Invoice{
		Amount:        decimal.NewFromInt(7),
		TotalAmount:   decimal.NewFromInt(7),
		PaymentMethod: models.PaymentMethodCash,
	}
	suite.orders.On("GetOrder", mock.Anything, actorOf(suite.customer), order.ID).Return(order, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+order.ID.String()+"/receipt", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(suite.T(), rec.Header().Get("Content-Disposition"), order.ID.String())
	assert.True(suite.T(), len(rec.Body.Bytes()) > 4 && string(rec.Body.Bytes()[:5]) == "%PDF-")
}

func (suite *APITestSuite) TestReceiptWithoutInvoiceFails() {
	order := suite.pendingOrder(suite.customer.ID)
	suite.orders.On("GetOrder", mock.Anything, mock.Anything, order.ID).Return(order, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/orders/"+order.ID.String()+"/receipt", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
}

func (suite *APITestSuite) TestListTruckOrdersWithStatus() {
	status := models.OrderStatusPending
	suite.orders.On("ListTruckOrders", mock.Anything, suite.truckID, &status, 50, 0).Return([]*models.Order{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/manager/orders?status=pending", nil, suite.staff)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	options := suite.decode(rec)["status_options"].(map[string]interface{})
	assert.Equal(suite.T(), []interface{}{"PREPARING", "DELIVERED", "COMPLETED"}, options["DELIVERY"])
}

func (suite *APITestSuite) TestApproveAndReject() {
	order := suite.pendingOrder(uuid.New())
	approved := *order
	approved.Status = models.OrderStatusPreparing
	suite.orders.On("ApproveOrder", mock.Anything, actorOf(suite.manager), order.ID).Return(&approved, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/manager/orders/"+order.ID.String()+"/approve", nil, suite.manager)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "PREPARING", suite.decode(rec)["status"])

	suite.orders.On("RejectOrder", mock.Anything, actorOf(suite.staff), order.ID).Return(nil, common.ErrInvalidTransition).Once()

	rec = suite.do(http.MethodPost, "/v1/manager/orders/"+order.ID.String()+"/reject", nil, suite.staff)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
}

func (suite *APITestSuite) TestUpdateStatus() {
	id := uuid.New()
	suite.orders.On("UpdateStatus", mock.Anything, actorOf(suite.manager), id, models.OrderStatusReadyForPickup).
		Return(&models.Order{ID: id, Status: models.OrderStatusReadyForPickup}, nil).Once()

	rec := suite.do(http.MethodPut, "/v1/manager/orders/"+id.String()+"/status", StatusRequest{Status: "ready_for_pickup"}, suite.manager)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPut, "/v1/manager/orders/"+id.String()+"/status", StatusRequest{}, suite.manager)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) TestCustomersCannotManageOrders() {
	rec := suite.do(http.MethodPost, "/v1/manager/orders/"+uuid.NewString()+"/approve", nil, suite.customer)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}
