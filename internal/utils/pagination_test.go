package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/products"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsFor("")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Empty(t, params.Sort)
	assert.Empty(t, params.Category)
}

func TestGetPaginationParamsSanitizes(t *testing.T) {
	params := paramsFor("?page=0&limit=-5")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)

	params = paramsFor("?page=abc&limit=xyz")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)

	params = paramsFor("?limit=1000")
	assert.Equal(t, 10, params.Limit)
}

func TestGetPaginationParamsReadsFilters(t *testing.T) {
	params := paramsFor("?page=3&limit=20&sort=price:desc&category=coffee")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "price:desc", params.Sort)
	assert.Equal(t, "coffee", params.Category)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
}
