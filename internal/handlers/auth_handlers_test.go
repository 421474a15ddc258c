package handlers

import (
	"errors"
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "healthy", suite.decode(rec)["status"])

	suite.db.err = errors.New("connection refused")

	rec = suite.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusPartialContent, rec.Code)
	body := suite.decode(rec)
	assert.Equal(suite.T(), "degraded", body["status"])
	assert.Equal(suite.T(), "unhealthy", body["services"].(map[string]interface{})["database"])

	rec = suite.do(http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, rec.Code)
}

func (suite *APITestSuite) TestRegister() {
	req := services.UserRequest{Email: "new@example.com", Password: "s3cret-pass", FirstName: "Ada", LastName: "L"}
	suite.users.On("RegisterCustomer", mock.Anything, req).Return(suite.customer, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/auth/register", req, nil)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	body := suite.decode(rec)
	assert.NotEmpty(suite.T(), body["access_token"])
	assert.Equal(suite.T(), "CUSTOMER", body["role"])
	assert.Equal(suite.T(), "v1", rec.Header().Get("X-API-Version"))
}

func (suite *APITestSuite) TestRegisterEmailTaken() {
	suite.users.On("RegisterCustomer", mock.Anything, mock.Anything).Return(nil, common.ErrEmailTaken).Once()

	rec := suite.do(http.MethodPost, "/v1/auth/register", services.UserRequest{Email: "dup@example.com"}, nil)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "EMAIL_TAKEN", suite.errorCode(rec))
}

func (suite *APITestSuite) TestLogin() {
	suite.users.On("Authenticate", mock.Anything, "boss@example.com", "pw-12345").Return(suite.manager, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "boss@example.com", Password: "pw-12345"}, nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	body := suite.decode(rec)
	assert.Equal(suite.T(), "Bearer", body["token_type"])
	claims, err := suite.tokens.Parse(body["access_token"].(string))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.truckID.String(), claims.TruckID)
}

func (suite *APITestSuite) TestLoginFailures() {
	rec := suite.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "a@example.com"}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	suite.users.On("Authenticate", mock.Anything, "a@example.com", "wrong").Return(nil, common.ErrInvalidCredentials).Once()
	rec = suite.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "a@example.com", Password: "wrong"}, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Equal(suite.T(), "INVALID_CREDENTIALS", suite.errorCode(rec))
}

func (suite *APITestSuite) TestMe() {
	rec := suite.do(http.MethodGet, "/v1/me", nil, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	suite.users.On("GetUser", mock.Anything, suite.staff.ID).Return(suite.staff, nil).Once()
	rec = suite.do(http.MethodGet, "/v1/me", nil, suite.staff)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "staff@example.com", suite.decode(rec)["email"])
}
