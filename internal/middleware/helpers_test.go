package middleware

import (
	"io"
	"net/http/httptest"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/logger"
)

// fakeRoutes is a RouteInspector with fixed answers for every path.
type fakeRoutes struct {
	auth    bool
	role    string
	uploads bool
}

func (f fakeRoutes) IsAuthenticationRequired(string) bool { return f.auth }

func (f fakeRoutes) RequiredRole(string) (string, bool) { return f.role, f.role != "" }

func (f fakeRoutes) SupportsUpload(string) bool { return f.uploads }

// newTestContext builds a request context carrying a nop logger.
func newTestContext(method, target string, body io.Reader) (*httpctx.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(logger.Nop().WithContext(req.Context()))
	rr := httptest.NewRecorder()
	return httpctx.New(rr, req, nil), rr
}

// run calls m and reports whether it continued the chain.
func run(m interface {
	Handle(*httpctx.Context, func())
}, ctx *httpctx.Context) bool {
	called := false
	m.Handle(ctx, func() { called = true })
	return called
}

func withHeader(ctx *httpctx.Context, key, value string) *httpctx.Context {
	ctx.Request.Header.Set(key, value)
	return ctx
}
