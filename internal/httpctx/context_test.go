package httpctx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string) (*Context, *httptest.ResponseRecorder) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	return New(rr, req, nil), rr
}

func TestNew_NormalizesPathAndCopiesQuery(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/API/Users?id=7&tag=a&tag=b")

	assert.Equal(t, "/api/users", ctx.Path())
	assert.Equal(t, http.MethodGet, ctx.Method())
	assert.Equal(t, "7", ctx.Query("id"))
	assert.Equal(t, []string{"a", "b"}, ctx.QueryValues("tag"))
	assert.Equal(t, []string{"id", "tag"}, ctx.QueryKeys())
}

func TestRemoveQuery_Concurrent(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/?a=1&b=2&c=3&d=4")

	var wg sync.WaitGroup
	for _, k := range ctx.QueryKeys() {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			ctx.RemoveQuery(key)
		}(k)
	}
	wg.Wait()

	assert.Empty(t, ctx.QueryKeys())
	assert.Empty(t, ctx.EncodedQuery())
}

func TestQueryValues_ReturnsCopy(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/?k=v")

	values := ctx.QueryValues("k")
	values[0] = "changed"

	assert.Equal(t, "v", ctx.Query("k"))
}

func TestSetClaims_Once(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/")

	_, ok := ctx.Claims()
	assert.False(t, ok)

	require.NoError(t, ctx.SetClaims(Claims{"sub": "1"}))
	err := ctx.SetClaims(Claims{"sub": "2"})
	assert.ErrorIs(t, err, ErrClaimsAlreadySet)

	claims, ok := ctx.Claims()
	require.True(t, ok)
	assert.Equal(t, "1", claims["sub"])
}

func TestSetClaims_NilBecomesEmpty(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/")

	require.NoError(t, ctx.SetClaims(nil))
	claims, ok := ctx.Claims()
	assert.True(t, ok)
	assert.NotNil(t, claims)
}

func TestFilesAndParams_Once(t *testing.T) {
	ctx, _ := newTestContext(http.MethodPost, "/")

	require.NoError(t, ctx.SetFiles([]string{"/tmp/a.png"}))
	assert.ErrorIs(t, ctx.SetFiles(nil), ErrFilesAlreadySet)
	assert.Equal(t, []string{"/tmp/a.png"}, ctx.Files())

	params := []Param{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	require.NoError(t, ctx.SetParams(params))
	assert.ErrorIs(t, ctx.SetParams(nil), ErrParamsAlreadySet)
	assert.Equal(t, params, ctx.Params())
}

func TestClose_ReleasesDisposablesOnceInReverseOrder(t *testing.T) {
	ctx, _ := newTestContext(http.MethodGet, "/")

	var order []int
	ctx.Disposables().AddFunc(func() error { order = append(order, 1); return nil })
	ctx.Disposables().AddFunc(func() error { order = append(order, 2); return errors.New("boom") })
	ctx.Disposables().AddFunc(func() error { order = append(order, 3); return nil })

	err := ctx.Close()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{3, 2, 1}, order)

	assert.EqualError(t, ctx.Close(), "boom")
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestDisposables_AddAfterReleaseClosesImmediately(t *testing.T) {
	var d Disposables
	require.NoError(t, d.Release())

	closed := false
	d.AddFunc(func() error { closed = true; return nil })

	assert.True(t, closed)
	assert.Zero(t, d.Len())
}

func TestDisposables_IgnoresNil(t *testing.T) {
	var d Disposables
	d.Add(nil)
	d.AddFunc(nil)
	assert.Zero(t, d.Len())
}
