package invoke

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUser struct {
	Name string `json:"name"`
}

type usersController struct {
	created []string
}

func (c *usersController) List(ctx *httpctx.Context) error {
	return ctx.WriteText(http.StatusOK, "list")
}

func (c *usersController) Create(ctx *httpctx.Context, req *createUser) error {
	c.created = append(c.created, req.Name)
	return nil
}

func (c *usersController) Fail(ctx *httpctx.Context) error {
	return errors.New("failed")
}

func (c *usersController) NoContext(req *createUser) error { return nil }

func (c *usersController) ValueBody(ctx *httpctx.Context, req createUser) error { return nil }

func (c *usersController) NoError(ctx *httpctx.Context) {}

func (c *usersController) TooMany(ctx *httpctx.Context, a, b *createUser) error { return nil }

func newContext() *httpctx.Context {
	return httpctx.New(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
}

// ── Typed / NoArgs ────────────────────────────────────────────────────────────

func TestTyped(t *testing.T) {
	var got string
	inv := Typed(func(ctx *httpctx.Context, req *createUser) error {
		got = req.Name
		return nil
	})

	assert.Equal(t, reflect.TypeFor[createUser](), inv.RequestType())

	require.NoError(t, inv.Invoke(newContext(), []any{&createUser{Name: "ann"}}))
	assert.Equal(t, "ann", got)

	assert.ErrorIs(t, inv.Invoke(newContext(), nil), ErrArgumentCount)
	assert.ErrorIs(t, inv.Invoke(newContext(), []any{"wrong"}), ErrArgumentType)
}

func TestTyped_NoBodyRequest(t *testing.T) {
	called := false
	inv := Typed(func(ctx *httpctx.Context, _ *NoBody) error {
		called = true
		return nil
	})

	assert.Equal(t, NoBodyType(), inv.RequestType())
	require.NoError(t, inv.Invoke(newContext(), nil))
	assert.True(t, called)
}

func TestNoArgs(t *testing.T) {
	sentinel := errors.New("handler error")
	inv := NoArgs(func(ctx *httpctx.Context) error { return sentinel })

	assert.Equal(t, NoBodyType(), inv.RequestType())
	assert.ErrorIs(t, inv.Invoke(newContext(), nil), sentinel)
	assert.ErrorIs(t, inv.Invoke(newContext(), []any{1}), ErrArgumentCount)
}

// ── Cache ─────────────────────────────────────────────────────────────────────

func TestCache_Method(t *testing.T) {
	c := NewCache()
	ctrl := &usersController{}

	create, err := c.Method(ctrl, "Create")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[createUser](), create.RequestType())
	assert.Equal(t, "Create", create.(Named).HandlerName())

	require.NoError(t, create.Invoke(newContext(), []any{&createUser{Name: "bob"}}))
	assert.Equal(t, []string{"bob"}, ctrl.created)

	assert.ErrorIs(t, create.Invoke(newContext(), nil), ErrArgumentCount)
	assert.ErrorIs(t, create.Invoke(newContext(), []any{&struct{}{}}), ErrArgumentType)
	assert.ErrorIs(t, create.Invoke(newContext(), []any{nil}), ErrArgumentType)

	list, err := c.Method(ctrl, "List")
	require.NoError(t, err)
	assert.Equal(t, NoBodyType(), list.RequestType())
	require.NoError(t, list.Invoke(newContext(), nil))

	fail, err := c.Method(ctrl, "Fail")
	require.NoError(t, err)
	assert.EqualError(t, fail.Invoke(newContext(), nil), "failed")
}

func TestCache_MemoizesPerTypeAndMethod(t *testing.T) {
	c := NewCache()

	_, err := c.Method(&usersController{}, "List")
	require.NoError(t, err)
	_, err = c.Method(&usersController{}, "List")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = c.Method(&usersController{}, "Create")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestCache_BindsReceiver(t *testing.T) {
	c := NewCache()
	first, second := &usersController{}, &usersController{}

	inv1, err := c.Method(first, "Create")
	require.NoError(t, err)
	inv2, err := c.Method(second, "Create")
	require.NoError(t, err)

	require.NoError(t, inv2.Invoke(newContext(), []any{&createUser{Name: "x"}}))
	require.NoError(t, inv1.Invoke(newContext(), []any{&createUser{Name: "y"}}))

	assert.Equal(t, []string{"y"}, first.created)
	assert.Equal(t, []string{"x"}, second.created)
}

func TestCache_Errors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		wantErr error
	}{
		{name: "missing method", method: "Missing", wantErr: ErrMethodNotFound},
		{name: "no context parameter", method: "NoContext", wantErr: ErrBadSignature},
		{name: "body by value", method: "ValueBody", wantErr: ErrBadSignature},
		{name: "no error result", method: "NoError", wantErr: ErrBadSignature},
		{name: "two body parameters", method: "TooMany", wantErr: ErrBadSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCache().Method(&usersController{}, tt.method)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := NewCache().Method(nil, "List")
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestCache_ConcurrentLookups(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Method(&usersController{}, "Create")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

func TestMustMethod_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMethod(&usersController{}, "Missing") })
	assert.NotPanics(t, func() { MustMethod(&usersController{}, "List") })
}
