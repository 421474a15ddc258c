package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func (suite *APITestSuite) TestListCategories() {
	suite.categories.On("ListCategories", mock.Anything).
		Return([]*models.Category{{ID: uuid.New(), Name: "Mexican"}, {ID: uuid.New(), Name: "Vegan"}}, nil).Once()

	rec := suite.do(http.MethodGet, "/v1/categories", nil, nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.EqualValues(suite.T(), 2, suite.decode(rec)["count"])
}

func (suite *APITestSuite) TestCreateCategory() {
	suite.categories.On("CreateCategory", mock.Anything, "Street Food", (*string)(nil)).
		Return(&models.Category{ID: uuid.New(), Name: "Street Food"}, nil).Once()

	rec := suite.do(http.MethodPost, "/v1/admin/categories", CategoryRequest{Name: "Street Food"}, suite.admin)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Equal(suite.T(), "Street Food", suite.decode(rec)["name"])
}

func (suite *APITestSuite) TestCreateCategoryDuplicate() {
	suite.categories.On("CreateCategory", mock.Anything, "Vegan", (*string)(nil)).Return(nil, common.ErrCategoryExists).Once()

	rec := suite.do(http.MethodPost, "/v1/admin/categories", CategoryRequest{Name: "Vegan"}, suite.admin)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "CATEGORY_EXISTS", suite.errorCode(rec))
}

func (suite *APITestSuite) TestCategoryWritesAreAdminOnly() {
	rec := suite.do(http.MethodPost, "/v1/admin/categories", CategoryRequest{Name: "Vegan"}, suite.customer)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *APITestSuite) TestDeleteCategory() {
	id := uuid.New()
	suite.categories.On("DeleteCategory", mock.Anything, id).Return(nil).Once()

	rec := suite.do(http.MethodDelete, "/v1/admin/categories/"+id.String(), nil, suite.admin)
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)

	missing := uuid.New()
	suite.categories.On("DeleteCategory", mock.Anything, missing).Return(common.ErrCategoryNotFound).Once()

	rec = suite.do(http.MethodDelete, "/v1/admin/categories/"+missing.String(), nil, suite.admin)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}
