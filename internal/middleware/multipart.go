package middleware

import (
	"mime"
	"net/http"
	"slices"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/store"
)

const defaultMultipartMemory = 32 << 20

// MultipartOptions configures the multipart middleware.
type MultipartOptions struct {
	// MaxMemory is the part of the body kept in memory; the rest spills to
	// temporary files. Values below 1 select 32 MiB.
	MaxMemory int64

	// Strict rejects malformed bodies with 400 and failed uploads with 500
	// instead of logging and continuing.
	Strict bool
}

// Multipart parses POST multipart/form-data bodies. Non-file fields become
// the context's form parameters; file parts are stored when the route
// supports uploads.
type Multipart struct {
	routes  RouteInspector
	storage store.FileStorage
	opts    MultipartOptions
}

func NewMultipart(routes RouteInspector, storage store.FileStorage, opts MultipartOptions) *Multipart {
	if opts.MaxMemory < 1 {
		opts.MaxMemory = defaultMultipartMemory
	}
	return &Multipart{routes: routes, storage: storage, opts: opts}
}

func (m *Multipart) Handle(ctx *httpctx.Context, next func()) {
	if ctx.Method() != http.MethodPost || !isMultipartForm(ctx.Request.Header.Get("Content-Type")) {
		next()
		return
	}

	log := ctx.Logger()

	if err := ctx.Request.ParseMultipartForm(m.opts.MaxMemory); err != nil {
		log.Warn().Err(err).Str("path", ctx.Path()).Msg("error parsing multipart form")
		if m.opts.Strict {
			_ = ctx.WriteText(http.StatusBadRequest, MsgMalformedMultipart)
			return
		}
		next()
		return
	}

	form := ctx.Request.MultipartForm
	ctx.Disposables().AddFunc(form.RemoveAll)

	names := make([]string, 0, len(form.Value))
	for name, values := range form.Value {
		if len(values) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	params := make([]httpctx.Param, 0, len(names))
	for _, name := range names {
		params = append(params, httpctx.Param{Name: name, Value: form.Value[name][0]})
	}
	if err := ctx.SetParams(params); err != nil {
		log.Error().Err(err).Msg("error storing form parameters")
	}

	if !m.routes.SupportsUpload(ctx.Path()) || m.storage == nil {
		next()
		return
	}

	paths, err := m.saveFiles(ctx)
	if err != nil {
		log.Error().Err(err).Str("path", ctx.Path()).Msg("error storing uploaded files")
		if m.opts.Strict {
			_ = ctx.WriteText(http.StatusInternalServerError, MsgUploadFailed)
			return
		}
	}
	if err := ctx.SetFiles(paths); err != nil {
		log.Error().Err(err).Msg("error storing uploaded file paths")
	}

	next()
}

// saveFiles stores every file part in field name order. Files saved before
// a failure are kept and returned with the error.
func (m *Multipart) saveFiles(ctx *httpctx.Context) ([]string, error) {
	form := ctx.Request.MultipartForm

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	var paths []string
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				return paths, err
			}

			path, err := m.storage.Save(ctx.Context(), fh.Filename, f)
			_ = f.Close()
			if err != nil {
				return paths, err
			}

			ctx.Logger().Debug().
				Str("field", field).
				Str("file_name", fh.Filename).
				Int64("size", fh.Size).
				Str("stored_as", path).
				Msg("uploaded file stored")
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func isMultipartForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}
