package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 4, p.TotalPages)

	p = NewPagination(0, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 0, p.TotalPages)
}

func TestResolvePerPageQueryWins(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/client/1/invoices/1?per_page=25", nil)
	r.AddCookie(&http.Cookie{Name: PerPageCookie, Value: "5"})

	perPage, setCookie := ResolvePerPage(r, 10)
	require.Equal(t, 25, perPage)
	require.True(t, setCookie)
}

func TestResolvePerPageCookieFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/client/1/invoices/1", nil)
	r.AddCookie(&http.Cookie{Name: PerPageCookie, Value: "5"})

	perPage, setCookie := ResolvePerPage(r, 10)
	require.Equal(t, 5, perPage)
	require.False(t, setCookie)
}

func TestResolvePerPageConfiguredDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/client/1/invoices/1", nil)

	perPage, setCookie := ResolvePerPage(r, 10)
	require.Equal(t, 10, perPage)
	require.False(t, setCookie)
}

func TestResolvePerPageIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/client/1/invoices/1?per_page=banana", nil)

	perPage, setCookie := ResolvePerPage(r, 10)
	require.Equal(t, 10, perPage)
	require.False(t, setCookie)
}

func TestFieldErrorsBatch(t *testing.T) {
	fields := FieldErrors{}
	require.NoError(t, fields.OrNil())

	fields.Add("price", "enter a number")
	fields.Add("price", "shadowed")
	fields.Add("name", "this field is required")

	err := fields.OrNil()
	require.Error(t, err)
	require.Equal(t, "enter a number", fields["price"])
	require.Contains(t, err.Error(), "name: this field is required")
}
