package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func (suite *APITestSuite) TestListItemsFilters() {
	categoryID := uuid.New()
	suite.items.On("ListItems", mock.Anything, models.ItemFilter{
		FoodTruckID: &suite.truckID,
		CategoryID:  &categoryID,
		Query:       "taco",
		Limit:       10,
		Offset:      20,
	}).Return([]*models.Item{{Name: "Taco", Slug: "taco-abc123"}}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/items?truck_id="+suite.truckID.String()+"&category_id="+categoryID.String()+"&q=taco%25&limit=10&offset=20", nil, nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.EqualValues(suite.T(), 1, suite.decode(rec)["count"])
}

func (suite *APITestSuite) TestListItemsBadTruckID() {
	rec := suite.do(http.MethodGet, "/v1/items?truck_id=abc", nil, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", suite.errorCode(rec))
}

func (suite *APITestSuite) TestGetItemBySlug() {
	suite.items.On("GetItemBySlug", mock.Anything, "burrito-x1y2z3").
		Return(&models.Item{Name: "Burrito", Slug: "burrito-x1y2z3", Price: decimal.RequireFromString("9.25")}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/items/burrito-x1y2z3", nil, nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "9.25", suite.decode(rec)["price"])
}

func (suite *APITestSuite) TestManagerListsOwnMenu() {
	suite.items.On("ListItems", mock.Anything, models.ItemFilter{FoodTruckID: &suite.truckID, Limit: 50}).
		Return([]*models.Item{}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/manager/items", nil, suite.manager)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *APITestSuite) TestCreateItem() {
	req := services.ItemRequest{Name: "Elote", Price: decimal.RequireFromString("4.50")}
	suite.items.On("CreateItem", mock.Anything, actorOf(suite.manager), mock.MatchedBy(func(r services.ItemRequest) bool {
		return r.Name == "Elote" && r.Price.Equal(req.Price)
	})).Return(&models.Item{ID: uuid.New(), Name: "Elote", Slug: "elote-q1w2e3", Price: req.Price}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/manager/items", req, suite.manager)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Equal(suite.T(), "elote-q1w2e3", suite.decode(rec)["slug"])
}

func (suite *APITestSuite) TestCreateItemForbiddenForStaff() {
	rec := suite.do(http.MethodPost, "/v1/manager/items", services.ItemRequest{Name: "Elote"}, suite.staff)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *APITestSuite) TestDeleteItemInUse() {
	id := uuid.New()
	suite.items.On("DeleteItem", mock.Anything, actorOf(suite.manager), id).Return(common.ErrItemInUse).Once()

	rec := suite.do(http.MethodDelete, "/v1/manager/items/"+id.String(), nil, suite.manager)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "ITEM_IN_USE", suite.errorCode(rec))
}

func (suite *APITestSuite) TestDeleteItemBadID() {
	rec := suite.do(http.MethodDelete, "/v1/manager/items/not-a-uuid", nil, suite.manager)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *APITestSuite) uploadRequest(id uuid.UUID, filename string, content []byte) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(suite.T(), err)
	_, err = part.Write(content)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/manager/items/"+id.String()+"/image", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func (suite *APITestSuite) TestUploadItemImage() {
	id := uuid.New()
	suite.items.On("UploadItemImage", mock.Anything, actorOf(suite.manager), id, mock.MatchedBy(func(u services.ImageUpload) bool {
		return u.Filename == "elote.png" && u.ContentType == "image/png" && u.Size == int64(len(pngHeader))
	})).Return(&models.Item{ID: id, ImageURL: "https://media.example.com/items/elote.png"}, nil).Once()

	rec := suite.send(suite.uploadRequest(id, "elote.png", pngHeader), suite.manager)

	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(suite.T(), "https://media.example.com/items/elote.png", suite.decode(rec)["image_url"])
}

func (suite *APITestSuite) TestUploadRejectsNonImage() {
	rec := suite.send(suite.uploadRequest(uuid.New(), "notes.txt", []byte("just some text")), suite.manager)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", suite.errorCode(rec))
}
