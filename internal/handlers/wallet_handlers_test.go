package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestDeposit() {
	wallet := &models.Wallet{ID: uuid.New(), UserID: suite.customer.ID, Balance: decimal.RequireFromString("25.5")}
	txn := &models.Transaction{ID: uuid.New(), WalletID: wallet.ID, Amount: decimal.RequireFromString("20.5"), Type: models.TransactionTypeDeposit}
	suite.wallets.On("Deposit", mock.Anything, suite.customer.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("20.50"))
	})).Return(wallet, txn, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/wallet/deposit", strings.NewReader(`{"amount": "20.50"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := suite.send(req, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	body := suite.decode(rec)
	assert.Equal(suite.T(), "25.5", body["wallet"].(map[string]interface{})["balance"])
	assert.Equal(suite.T(), "DEPOSIT", body["transaction"].(map[string]interface{})["type"])
}

func (suite *APITestSuite) TestDepositRejected() {
	suite.wallets.On("Deposit", mock.Anything, suite.customer.ID, mock.Anything).Return(nil, nil, common.ErrInvalidAmount).Once()

	rec := suite.do(http.MethodPost, "/v1/wallet/deposit", DepositRequest{Amount: decimal.NewFromInt(-5)}, suite.customer)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "INVALID_AMOUNT", suite.errorCode(rec))
}

func (suite *APITestSuite) TestDepositMalformed() {
	req := httptest.NewRequest(http.MethodPost, "/v1/wallet/deposit", strings.NewReader(`{"amount": "lots"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := suite.send(req, suite.customer)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "CLIENT_ERROR", suite.errorCode(rec))
}

func (suite *APITestSuite) TestWalletIsCustomerOnly() {
	rec := suite.do(http.MethodGet, "/v1/wallet", nil, suite.staff)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *APITestSuite) TestTransactions() {
	suite.wallets.On("ListTransactions", mock.Anything, suite.customer.ID, 50, 10).Return([]*models.Transaction{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/wallet/transactions?offset=10", nil, suite.customer)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.EqualValues(suite.T(), 0, suite.decode(rec)["count"])
}

func (suite *APITestSuite) TestSearchCustomers() {
	suite.users.On("SearchCustomers", mock.Anything, "ada", 50, 0).Return([]*models.User{suite.customer}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/staff/customers?q=ada", nil, suite.staff)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.EqualValues(suite.T(), 1, suite.decode(rec)["count"])
}

func (suite *APITestSuite) TestCreateStaff() {
	req := services.UserRequest{Email: "new.staff@example.com", Password: "longenough", FirstName: "Sam", LastName: "Cook"}
	created := &models.User{ID: uuid.New(), Email: req.Email, Role: models.RoleStaff, FoodTruckID: &suite.truckID}
	suite.users.On("CreateStaff", mock.Anything, actorOf(suite.manager), req).Return(created, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/manager/staff", req, suite.manager)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Equal(suite.T(), "STAFF", suite.decode(rec)["role"])

	suite.users.On("ListStaff", mock.Anything, suite.truckID).Return([]*models.User{created}, nil).Once()
	rec = suite.do(http.MethodGet, "/v1/manager/staff", nil, suite.manager)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}
