package handler

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/invoke"
	"github.com/MKhiriev/go-web-interface/internal/route"
)

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// StatusController serves unauthenticated service information.
type StatusController struct {
	version string
	started time.Time
}

func NewStatusController(version string) *StatusController {
	return &StatusController{version: version, started: time.Now()}
}

func (c *StatusController) Routes() []route.Definition {
	return []route.Definition{
		route.Get("/status", invoke.MustMethod(c, "Status")),
		route.Get("/version", invoke.MustMethod(c, "Version")),
	}
}

func (c *StatusController) Status(ctx *httpctx.Context) error {
	return ctx.WriteJSON(http.StatusOK, StatusResponse{
		Status:  "ok",
		Version: c.version,
		Uptime:  time.Since(c.started).Truncate(time.Second).String(),
	})
}

func (c *StatusController) Version(ctx *httpctx.Context) error {
	return ctx.WriteText(http.StatusOK, c.version)
}
