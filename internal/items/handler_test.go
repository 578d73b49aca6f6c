package items

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().List(rec, httptest.NewRequest(http.MethodGet, "/items/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Item Foo"},{"name":"Item Bar"}]`, rec.Body.String())
}

func TestHello(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().Hello(rec, httptest.NewRequest(http.MethodGet, "/items/hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello from learnenglishzero API!"}`, rec.Body.String())
}
