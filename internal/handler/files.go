package handler

import (
	"net/http"
	"path/filepath"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/invoke"
	"github.com/MKhiriev/go-web-interface/internal/route"
)

// MsgNoFiles is returned when an upload carries no file parts.
const MsgNoFiles = "no files uploaded"

// UploadRequest is built from the non-file fields of the multipart form.
type UploadRequest struct {
	Title string `json:"title" validate:"required"`
	Album string `json:"album"`
}

// UploadResponse lists the stored files by their generated names.
type UploadResponse struct {
	Title string   `json:"title"`
	Album string   `json:"album,omitempty"`
	Files []string `json:"files"`
}

// FileController accepts multipart uploads from authenticated callers.
type FileController struct{}

func NewFileController() *FileController {
	return &FileController{}
}

func (c *FileController) Routes() []route.Definition {
	return []route.Definition{
		route.Post("/files/upload", invoke.MustMethod(c, "Upload"), route.Authenticated(), route.AllowUploads()),
	}
}

func (c *FileController) Upload(ctx *httpctx.Context, req *UploadRequest) error {
	paths := ctx.Files()
	if len(paths) == 0 {
		return httpctx.NewStatusError(http.StatusBadRequest, MsgNoFiles)
	}

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}

	return ctx.WriteJSON(http.StatusCreated, UploadResponse{
		Title: req.Title,
		Album: req.Album,
		Files: names,
	})
}
