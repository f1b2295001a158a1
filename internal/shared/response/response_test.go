package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"personnel-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePageQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   response.PageQuery
	}{
		{"defaults", "/x", response.PageQuery{Page: 1, PageSize: 20}},
		{"explicit", "/x?page=3&page_size=5", response.PageQuery{Page: 3, PageSize: 5}},
		{"negative page", "/x?page=-2", response.PageQuery{Page: 1, PageSize: 20}},
		{"over max", "/x?page_size=500", response.PageQuery{Page: 1, PageSize: 20}},
		{"garbage", "/x?page=a&page_size=b", response.PageQuery{Page: 1, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := response.ParsePageQuery(queryContext(tt.target), 20, 100)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := response.Paginate(items, response.PageQuery{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	page, _ = response.Paginate(items, response.PageQuery{Page: 9, PageSize: 2})
	assert.Empty(t, page)
	assert.NotNil(t, page)
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.Error(c, http.StatusConflict, "CONFLICT", "Already processed", nil)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
	assert.NotContains(t, body, "data")
}
